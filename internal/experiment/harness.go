package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nvandessel/qharness/internal/config"
	"github.com/nvandessel/qharness/internal/constants"
	"github.com/nvandessel/qharness/internal/engine"
	"github.com/nvandessel/qharness/internal/logging"
	"github.com/nvandessel/qharness/internal/metrics"
	"github.com/nvandessel/qharness/internal/results"
	"github.com/nvandessel/qharness/internal/sweep"
	"github.com/nvandessel/qharness/internal/trial"
	"golang.org/x/sync/errgroup"
)

// ErrSetup marks structural failures that stop a whole run: an output
// directory that cannot be created, an unreadable analysis source, or a
// family whose identifiers collide.
var ErrSetup = errors.New("setup failure")

// Report lists what a family run produced. Written and Failed follow the
// family's generation order.
type Report struct {
	Family string
	Dir    string

	// Written holds the paths of artifacts that were fully written.
	Written []string

	// Failed holds one error per configuration that was abandoned. Errors
	// from artifact I/O wrap *results.ArtifactError.
	Failed []error
}

// Harness runs experiment families against an engine.
type Harness struct {
	engine  engine.Engine
	config  *config.HarnessConfig
	logger  *slog.Logger
	metrics *metrics.Collector
	seed    int64
}

// New creates a harness. A zero cfg.Seed is replaced by a clock-derived
// seed; Seed reports the value in use. logger and m may be nil.
func New(eng engine.Engine, cfg *config.HarnessConfig, logger *slog.Logger, m *metrics.Collector) *Harness {
	if logger == nil {
		logger = logging.Discard()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Harness{
		engine:  eng,
		config:  cfg,
		logger:  logger,
		metrics: m,
		seed:    seed,
	}
}

// Seed returns the base seed repetitions derive their streams from.
func (h *Harness) Seed() int64 { return h.seed }

// RunFamily writes one artifact per configuration of fam under
// OutputRoot/fam.Dir. Up to Workers configurations run at once; a failing
// configuration is recorded in the report and does not stop its siblings.
//
// The returned error is non-nil for setup failures (wrapping ErrSetup) and
// when ctx is cancelled before every configuration started.
func (h *Harness) RunFamily(ctx context.Context, fam Family) (*Report, error) {
	ids, err := sweep.Identifiers(fam.Generator)
	if err != nil {
		return nil, fmt.Errorf("%w: family %s: %w", ErrSetup, fam.Name, err)
	}

	dir := filepath.Join(h.config.OutputRoot, fam.Dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", ErrSetup, dir, err)
	}

	h.logger.Info("running family",
		"family", fam.Name,
		"configurations", len(ids),
		"tests", h.config.Tests,
		"shots", h.config.Shots,
		"dir", dir,
		"seed", h.seed)

	outcomes := make([]error, len(ids))
	paths := make([]string, len(ids))
	skipped := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(max(h.config.Workers, 1))

	i := 0
	for p := range fam.Generator.Points() {
		if ctx.Err() != nil {
			break
		}
		idx := i
		i++
		g.Go(func() error {
			// Go blocks for a free slot, so the context may have been
			// cancelled while this configuration was queued.
			if ctx.Err() != nil {
				skipped[idx] = true
				return nil
			}
			paths[idx] = filepath.Join(dir, p.ID)
			outcomes[idx] = h.runPoint(ctx, dir, p)
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{Family: fam.Name, Dir: dir}
	for idx := range i {
		if skipped[idx] {
			h.logger.Debug("configuration skipped", "artifact", ids[idx])
			continue
		}
		if err := outcomes[idx]; err != nil {
			report.Failed = append(report.Failed, err)
			h.metrics.ObserveArtifact(metrics.StatusFailed)
			h.logger.Error("configuration failed", "artifact", ids[idx], "error", err)
			continue
		}
		report.Written = append(report.Written, paths[idx])
		h.metrics.ObserveArtifact(metrics.StatusWritten)
	}

	h.logger.Info("family finished",
		"family", fam.Name,
		"written", len(report.Written),
		"failed", len(report.Failed))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// runPoint writes the artifact of one configuration. A configuration that
// fails or is cancelled part way is discarded, and any earlier artifact with
// the same identifier is left as it was.
func (h *Harness) runPoint(ctx context.Context, dir string, p sweep.Point) (err error) {
	w, err := results.Create(dir, p.ID)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			w.Discard()
			return
		}
		err = w.Close()
	}()

	if err := w.WriteHeader(); err != nil {
		return err
	}

	runner := &trial.Runner{
		Engine:  h.engine,
		Shots:   h.config.Shots,
		Workers: h.config.RepetitionWorkers,
		Seed:    h.seed,
		Logger:  h.logger.With("label", p.Label),
	}
	if h.metrics != nil {
		runner.Observer = h.metrics
	}

	if err := runner.Run(ctx, p.Config, p.ID, h.config.Tests, w.Append); err != nil {
		return fmt.Errorf("%s: %w", p.ID, err)
	}
	return nil
}

// Analyse reduces every artifact in srcDir matching naming and writes the
// summary to outPath. Artifacts that cannot be parsed are logged and left out.
// The error is non-nil when srcDir cannot be read (wrapping ErrSetup) or the
// summary cannot be written.
func (h *Harness) Analyse(srcDir string, naming sweep.Naming, outPath string) (*results.Reduction, error) {
	red, err := results.Reduce(srcDir, naming, h.config.SortSummary)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}

	for _, name := range red.Skipped {
		h.logger.Debug("skipping entry", "name", name)
	}
	for _, ferr := range red.Failures {
		h.logger.Warn("artifact left out of summary", "error", ferr)
	}

	if err := results.WriteSummary(outPath, red.Rows); err != nil {
		h.metrics.ObserveArtifact(metrics.StatusFailed)
		return red, err
	}
	h.metrics.ObserveArtifact(metrics.StatusWritten)

	h.logger.Info("summary written",
		"path", outPath,
		"rows", len(red.Rows),
		"skipped", len(red.Skipped),
		"failed", len(red.Failures))
	return red, nil
}

// AnalyseRNG reduces OutputRoot/RNG into OutputRoot/RNGResults.csv.
func (h *Harness) AnalyseRNG() (*results.Reduction, error) {
	root := h.config.OutputRoot
	return h.Analyse(
		filepath.Join(root, constants.RNGDir),
		RNGNaming(h.config.IdentifierWidth),
		filepath.Join(root, constants.RNGSummaryFile),
	)
}
