package batch

import (
	"context"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ldklab/regexpu"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type RunOptions struct {
	// Workers bounds how many patterns are rewritten at once; zero or less means one per CPU.
	Workers int
	// Logger gets a debug line per entry and a warning per failure. nil discards.
	Logger logrus.FieldLogger
	// OnResult, if set, is called once per entry as it finishes, never from two goroutines at once.
	OnResult func(Result)
}

// GroupIndex is a named capture group and the index it was given.
type GroupIndex struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

type Result struct {
	Name    string       `json:"name"`
	Pattern string       `json:"pattern"`
	Flags   string       `json:"flags"`
	Output  string       `json:"output,omitempty"`
	Groups  []GroupIndex `json:"groups,omitempty"`
	// Error and ErrorKind are empty when the rewrite succeeded. ErrorKind is one of syntax,
	// unsupported, structural, or config.
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

func (r Result) Failed() bool {
	return r.Error != ""
}

type Report struct {
	RunID   string   `json:"run_id"`
	Results []Result `json:"results"`
	Failed  int      `json:"failed"`
}

// Run rewrites every entry in the manifest. A pattern that fails to rewrite is recorded in its Result and
// doesn't stop the others; only cancellation of ctx or an invalid manifest makes Run itself fail.
func Run(ctx context.Context, m Manifest, opts RunOptions) (*Report, error) {
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid manifest")
	}
	report := &Report{RunID: uuid.NewString(), Results: make([]Result, len(m.Entries))}
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	log = log.WithField("run", report.RunID)
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var callbackLock sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range m.Entries {
		i := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			result := rewriteEntry(m, i)
			report.Results[i] = result
			entryLog := log.WithFields(logrus.Fields{"entry": result.Name, "flags": result.Flags})
			if result.Failed() {
				entryLog.WithField("kind", result.ErrorKind).Warn(result.Error)
			} else {
				entryLog.WithField("output", result.Output).Debug("rewrote pattern")
			}
			if opts.OnResult != nil {
				callbackLock.Lock()
				opts.OnResult(result)
				callbackLock.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch interrupted")
	}
	for _, result := range report.Results {
		if result.Failed() {
			report.Failed++
		}
	}
	log.WithFields(logrus.Fields{"entries": len(report.Results), "failed": report.Failed}).Info("batch done")
	return report, nil
}

func rewriteEntry(m Manifest, i int) Result {
	flags, opts := m.resolve(i)
	result := Result{Name: m.entryName(i), Pattern: m.Entries[i].Pattern, Flags: flags}
	var groups []GroupIndex
	opts.OnNamedGroup = func(name string, index int) {
		groups = append(groups, GroupIndex{Name: name, Index: index})
	}
	output, err := regexpu.RewritePattern(result.Pattern, flags, opts)
	if err != nil {
		result.Error = err.Error()
		result.ErrorKind = errorKind(err)
		return result
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a].Index < groups[b].Index })
	result.Output = output
	result.Groups = groups
	return result
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, regexpu.ErrSyntax):
		return "syntax"
	case errors.Is(err, regexpu.ErrUnsupported):
		return "unsupported"
	case errors.Is(err, regexpu.ErrStructural):
		return "structural"
	case errors.Is(err, regexpu.ErrConfig):
		return "config"
	}
	return "unknown"
}
