// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package genome maps chromosome-relative genomic coordinates into a
// single linear address space, applying mask subtraction and shift,
// and loads the tab-separated genome/BED/mask files that feed that
// model.
package genome

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ChromLength is a parsed (chrom, length) entry from a genome file.
type ChromLength struct {
	Chrom  string
	Length uint64
}

// Record is a parsed (chrom, start, end) entry from a BED-style A, B,
// or mask file, in chromosome-relative coordinates.
type Record struct {
	Chrom      string
	Start, End uint64
}

// ReadGenome reads a two-column chrom\tlength file.
func ReadGenome(path string) ([]ChromLength, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("genome: %w", err)
	}
	defer f.Close()

	var out []ChromLength
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 2 || fields[0] == "" {
			return nil, fmt.Errorf("genome %s:%d: malformed record %q", path, line, text)
		}
		length, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("genome %s:%d: bad length: %w", path, line, err)
		}
		if seen[fields[0]] {
			return nil, fmt.Errorf("genome %s:%d: chromosome %q repeated", path, line, fields[0])
		}
		seen[fields[0]] = true
		out = append(out, ChromLength{Chrom: fields[0], Length: length})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("genome %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("genome %s: no records", path)
	}
	return out, nil
}

// ReadBED reads a three-column chrom\tstart\tend file. Records must
// be sorted by start ascending within each chromosome; violations
// fail fast with a line-tagged diagnostic.
func ReadBED(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bed: %w", err)
	}
	defer f.Close()

	var out []Record
	lastStart := make(map[string]uint64)
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < 3 || fields[0] == "" {
			return nil, fmt.Errorf("bed %s:%d: malformed record %q", path, line, text)
		}
		start, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed %s:%d: bad start: %w", path, line, err)
		}
		end, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bed %s:%d: bad end: %w", path, line, err)
		}
		if start >= end {
			return nil, fmt.Errorf("bed %s:%d: start %d not less than end %d", path, line, start, end)
		}
		if seen[fields[0]] && start < lastStart[fields[0]] {
			return nil, fmt.Errorf("bed %s:%d: chromosome %q not sorted by start ascending", path, line, fields[0])
		}
		seen[fields[0]] = true
		lastStart[fields[0]] = start
		out = append(out, Record{Chrom: fields[0], Start: start, End: end})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("bed %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("bed %s: no records", path)
	}
	return out, nil
}
