// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// permshuffle tests whether two sets of genomic intervals overlap more
// or less than expected by chance, by comparing the observed overlap
// against an empirical null distribution built from randomizations of
// one interval set.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/kortschak/permshuffle/genome"
	"github.com/kortschak/permshuffle/ivset"
	"github.com/kortschak/permshuffle/overlap"
	"github.com/kortschak/permshuffle/permtest"
	"github.com/kortschak/permshuffle/randomize"
)

// output is the JSON record written to --output.
type output struct {
	Test     testRecord `json:"test"`
	Swapped  bool       `json:"swapped"`
	NoMerge  bool       `json:"no_merge"`
	Random   string     `json:"random"`
	Count    string     `json:"count"`
	ACnt     int        `json:"A_cnt"`
	BCnt     int        `json:"B_cnt"`
	PerChrom bool       `json:"per_chrom"`
	LocalZ   localZ     `json:"localZ"`
}

type testRecord struct {
	Observed uint64   `json:"observed"`
	NumPerms int      `json:"num_perms"`
	Mean     float64  `json:"mean"`
	StdDev   float64  `json:"std_dev"`
	PVal     float64  `json:"p_val"`
	ZScore   float64  `json:"z_score"`
	Alt      string   `json:"alt"`
	Perms    []uint64 `json:"perms"`
}

type localZ struct {
	Shifts []float64 `json:"shifts"`
	Window int64      `json:"window"`
	Step   uint64     `json:"step"`
}

func main() {
	genomePath := flag.String("genome", "", "genome file, chrom\\tlength (required)")
	aPath := flag.String("A", "", "first interval file, BED three-column (required)")
	bPath := flag.String("B", "", "second interval file, BED three-column (required)")
	numTimes := flag.Int("num-times", 100, "number of permutations")
	outPath := flag.String("output", "", "output file (required)")
	threads := flag.Int("threads", 1, "number of worker goroutines")
	randomStrat := flag.String("random", "shuffle", "randomizer: shuffle, circle, or novl")
	countMode := flag.String("count", "all", "counter mode: all or any")
	maskPath := flag.String("mask", "", "optional mask file, BED three-column")
	perChrom := flag.Bool("per-chrom", false, "randomize within chromosomes")
	noMergeOvl := flag.Bool("no-merge-ovl", false, "skip pre-merge of A and B")
	noSwap := flag.Bool("no-swap", false, "disable A/B swap heuristic")
	window := flag.Int64("window", 1000, "local z-score half-window")
	step := flag.Uint64("step", 50, "local z-score step")
	seedStr := flag.String("seed", "", "root RNG seed (optional, for reproducible runs)")
	logLevel := flag.String("log-level", "info", "log verbosity: info, warn, or error")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %[1]s:
  $ %[1]s --genome <genome.txt> -A <a.bed> -B <b.bed> --output <out.json> [options]

Options:
`, os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if *genomePath == "" || *aPath == "" || *bPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLeveledLogger(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(runParams{
		genomePath: *genomePath,
		aPath:      *aPath,
		bPath:      *bPath,
		maskPath:   *maskPath,
		outPath:    *outPath,
		numTimes:   *numTimes,
		threads:    *threads,
		randomStr:  *randomStrat,
		countStr:   *countMode,
		perChrom:   *perChrom,
		noMergeOvl: *noMergeOvl,
		noSwap:     *noSwap,
		window:     *window,
		step:       *step,
		seedStr:    *seedStr,
		log:        logger,
	}); err != nil {
		logger.errorf("%v", err)
		os.Exit(1)
	}
}

type runParams struct {
	genomePath, aPath, bPath, maskPath, outPath string
	numTimes, threads                           int
	randomStr, countStr                         string
	perChrom, noMergeOvl, noSwap                bool
	window                                      int64
	step                                        uint64
	seedStr                                     string
	log                                         *leveledLogger
}

func run(p runParams) error {
	strategy, ok := randomize.ParseStrategy(p.randomStr)
	if !ok {
		return fmt.Errorf("unknown --random value %q", p.randomStr)
	}
	counter, ok := overlap.ParseMode(p.countStr)
	if !ok {
		return fmt.Errorf("unknown --count value %q", p.countStr)
	}
	if p.threads < 1 {
		return fmt.Errorf("--threads must be >= 1, got %d", p.threads)
	}
	if strategy == randomize.Novl && p.noMergeOvl {
		return fmt.Errorf("--random=novl is incompatible with --no-merge-ovl: unmerged A may exceed the gap budget's non-overlap assumption")
	}
	if p.numTimes < 100 {
		p.log.warnf("--num-times=%d is below 100: minimum achievable p-value is %.6g", p.numTimes, 1.0/float64(p.numTimes+1))
	}

	var seed *uint64
	if p.seedStr != "" {
		v, err := strconv.ParseUint(p.seedStr, 10, 64)
		if err != nil {
			return fmt.Errorf("bad --seed value %q: %w", p.seedStr, err)
		}
		seed = &v
	}

	genomeRecs, err := genome.ReadGenome(p.genomePath)
	if err != nil {
		return err
	}
	aRecs, err := genome.ReadBED(p.aPath)
	if err != nil {
		return err
	}
	bRecs, err := genome.ReadBED(p.bPath)
	if err != nil {
		return err
	}

	var maskRecs map[string][]genome.Record
	if p.maskPath != "" {
		recs, err := genome.ReadBED(p.maskPath)
		if err != nil {
			return err
		}
		maskRecs = make(map[string][]genome.Record)
		for _, r := range recs {
			maskRecs[r.Chrom] = append(maskRecs[r.Chrom], r)
		}
	}

	model, err := genome.Build(genomeRecs, maskRecs)
	if err != nil {
		return err
	}

	onUnknown := func(chrom string) {
		p.log.warnf("chromosome %q not present in genome, skipping its records", chrom)
	}
	aIvs, aMasked := model.Project(aRecs, onUnknown)
	bIvs, bMasked := model.Project(bRecs, onUnknown)
	if aMasked > 0 {
		p.log.infof("%d A records excluded by mask", aMasked)
	}
	if bMasked > 0 {
		p.log.infof("%d B records excluded by mask", bMasked)
	}

	a := ivset.New(aIvs)
	b := ivset.New(bIvs)

	if !p.noMergeOvl {
		a.MergeOverlaps()
		b.MergeOverlaps()
	}

	swapped := permtest.ShouldSwap(a.Len(), b.Len(), counter, p.noSwap)
	if swapped {
		a, b = b, a
		p.log.infof("swapped A and B: |A|=%d > |B|=%d", b.Len(), a.Len())
	}

	if strategy == randomize.Novl {
		model.MakeGapBudget(a, p.perChrom)
	}

	observed := counter.Count(a, b)

	driver := permtest.Driver{
		Strategy: strategy,
		Counter:  counter,
		PerChrom: p.perChrom,
		Threads:  p.threads,
		NumPerms: p.numTimes,
		Seed:     seed,
	}
	perms, err := driver.Run(a, b, model)
	if err != nil {
		return fmt.Errorf("permutation run: %w", err)
	}

	result := permtest.Summarize(observed, perms)
	if result.LocalZScoreUndefined() {
		p.log.warnf("permutation distribution has zero standard deviation: z-score is undefined and reported as 0")
	}

	lz := permtest.ScanLocalZScore(a, b, counter, p.window, p.step, result.Mean, result.StdDev)

	out := output{
		Test: testRecord{
			Observed: result.Observed,
			NumPerms: result.NumPerms,
			Mean:     result.Mean,
			StdDev:   result.StdDev,
			PVal:     result.PVal,
			ZScore:   result.ZScore,
			Alt:      string(result.Alt),
			Perms:    result.Perms,
		},
		Swapped:  swapped,
		NoMerge:  p.noMergeOvl,
		Random:   strategy.String(),
		Count:    counter.String(),
		ACnt:     a.Len(),
		BCnt:     b.Len(),
		PerChrom: p.perChrom,
		LocalZ: localZ{
			Shifts: lz.Shifts,
			Window: lz.Window,
			Step:   lz.Step,
		},
	}

	f, err := os.Create(p.outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	p.log.infof("wrote result to %s", p.outPath)
	return nil
}

// leveledLogger wraps the stdlib logger with a level filter, since
// log.Logger has none built in.
type leveledLogger struct {
	*log.Logger
	level int
}

const (
	levelInfo = iota
	levelWarn
	levelError
)

func newLeveledLogger(level string) (*leveledLogger, error) {
	var lv int
	switch level {
	case "info":
		lv = levelInfo
	case "warn":
		lv = levelWarn
	case "error":
		lv = levelError
	default:
		return nil, fmt.Errorf("unknown --log-level value %q", level)
	}
	return &leveledLogger{Logger: log.New(os.Stderr, "", log.LstdFlags), level: lv}, nil
}

func (l *leveledLogger) infof(format string, args ...interface{}) {
	if l.level <= levelInfo {
		l.Printf(format, args...)
	}
}

func (l *leveledLogger) warnf(format string, args ...interface{}) {
	if l.level <= levelWarn {
		l.Printf(format, args...)
	}
}

func (l *leveledLogger) errorf(format string, args ...interface{}) {
	if l.level <= levelError {
		l.Printf(format, args...)
	}
}
