package chain

import (
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Process exit codes. A clean trace is a valid outcome, not an error, but
// scripts need to tell it apart from a run that produced findings.
const (
	ExitOK       = 0 // every chain parsed, at least one finding
	ExitBadChain = 1 // at least one chain failed lexing or parsing
	ExitNoLeaks  = 2 // every chain parsed, frontier empty everywhere
)

// DefaultParallelism bounds the batch fan-out.
func DefaultParallelism() int {
	return min(runtime.NumCPU(), 8)
}

// Analyze runs the full pipeline on one chain line.
func Analyze(input string) Result {
	r := Result{Ordinal: 1, Input: input}

	c, err := Parse(input)
	if err != nil {
		r.Err = err
		return r
	}

	r.Chain = c
	r.Frontier = DetectFrontier(c)
	r.Findings = Classify(c, r.Frontier)
	return r
}

// AnalyzeAll analyzes every input chain. Chains are independent, so the
// work fans out over a bounded errgroup; results land in an index-addressed
// slice, which keeps the output order (and bytes) identical to a serial
// run. One malformed chain never stops the rest: its Result carries the
// error and the batch goes on.
func AnalyzeAll(inputs []string, parallelism int, log *zap.Logger) []Result {
	if parallelism <= 0 {
		parallelism = DefaultParallelism()
	}
	if log == nil {
		log = zap.NewNop()
	}

	results := make([]Result, len(inputs))

	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, input := range inputs {
		g.Go(func() error {
			results[i] = Analyze(input)
			results[i].Ordinal = i + 1

			if err := results[i].Err; err != nil {
				log.Debug("chain rejected", zap.Int("ordinal", i+1), zap.Error(err))
			} else {
				log.Debug("chain analyzed",
					zap.Int("ordinal", i+1),
					zap.Int("nodes", results[i].Chain.Len()),
					zap.Int("findings", len(results[i].Findings)))
			}
			return nil
		})
	}
	g.Wait() // workers never return errors; failures live in the results

	return results
}

// ExitCode maps a batch outcome to the process exit code.
func ExitCode(results []Result) int {
	anyFindings := false
	for _, r := range results {
		if r.Err != nil {
			return ExitBadChain
		}
		if len(r.Findings) > 0 {
			anyFindings = true
		}
	}
	if !anyFindings {
		return ExitNoLeaks
	}
	return ExitOK
}
