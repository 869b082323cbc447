package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/williamokano/backupgen/pkg/config"
	"github.com/williamokano/backupgen/pkg/ident"
	"github.com/williamokano/backupgen/pkg/job"
	"github.com/williamokano/backupgen/pkg/storage"
)

// ErrDuplicateIdentifier is returned for jobs whose titles sanitize to an
// identifier already used by an earlier job
var ErrDuplicateIdentifier = errors.New("duplicate job identifier")

// Options controls a run
type Options struct {
	Site          job.Site
	CronUser      string
	MaxConcurrent int
	DryRun        bool // render only, outputs are not touched
	Prune         bool // remove generated files no job produced
}

// Result is the outcome of one job
type Result struct {
	Title      string
	Identifier string
	Ensure     job.Ensure
	Files      []File
	Outputs    []storage.Result
	Success    bool
	Error      error
	Duration   time.Duration
}

// Report collects the results of a run, in job order
type Report struct {
	RunID  string
	Jobs   []Result
	Pruned []storage.Result
}

// Failed returns the jobs that did not succeed
func (r *Report) Failed() []Result {
	var failed []Result
	for _, j := range r.Jobs {
		if !j.Success {
			failed = append(failed, j)
		}
	}
	return failed
}

// Runner renders jobs and publishes them to a set of backends
type Runner struct {
	opts     Options
	backends []storage.Backend
	uploader *storage.MultiUploader
	logger   zerolog.Logger
}

// NewRunner creates a runner publishing to backends
func NewRunner(opts Options, backends []storage.Backend, logger zerolog.Logger) *Runner {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	return &Runner{
		opts:     opts,
		backends: backends,
		uploader: storage.NewMultiUploader(logger),
		logger:   logger,
	}
}

// Run handles every job in parallel, bounded by MaxConcurrent. A failing job
// does not stop the others; the returned error joins every job failure.
func (r *Runner) Run(ctx context.Context, jobs []config.JobDefinition) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), Jobs: make([]Result, len(jobs))}
	duplicates := duplicateJobs(jobs)
	log := r.logger.With().Str("run_id", report.RunID).Logger()

	log.Info().
		Int("total_jobs", len(jobs)).
		Int("max_concurrent", r.opts.MaxConcurrent).
		Int("outputs", len(r.backends)).
		Bool("dry_run", r.opts.DryRun).
		Msg("starting render")

	sem := semaphore.NewWeighted(int64(r.opts.MaxConcurrent))
	g, gCtx := errgroup.WithContext(ctx)

	for i, def := range jobs {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return fmt.Errorf("failed to acquire semaphore: %w", err)
			}
			defer sem.Release(1)

			if first, dup := duplicates[i]; dup {
				report.Jobs[i] = Result{
					Title: def.Title,
					Error: fmt.Errorf("%w: %q collides with %q", ErrDuplicateIdentifier, def.Title, jobs[first].Title),
				}
				return nil
			}

			report.Jobs[i] = r.runJob(gCtx, def, log)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	var errs []error
	for _, res := range report.Jobs {
		if !res.Success {
			errs = append(errs, fmt.Errorf("job %q: %w", res.Title, res.Error))
		}
	}

	if r.opts.Prune && !r.opts.DryRun {
		if len(errs) > 0 {
			log.Warn().Int("failed_jobs", len(errs)).Msg("skipping prune, not every job succeeded")
		} else {
			report.Pruned = r.prune(ctx, report.Jobs, log)
			if err := storage.Errors(report.Pruned); err != nil {
				errs = append(errs, fmt.Errorf("prune: %w", err))
			}
		}
	}

	log.Info().
		Int("successful", len(report.Jobs)-len(report.Failed())).
		Int("failed", len(report.Failed())).
		Int("pruned", len(report.Pruned)).
		Msg("render completed")

	return report, errors.Join(errs...)
}

func (r *Runner) runJob(ctx context.Context, def config.JobDefinition, runLog zerolog.Logger) Result {
	start := time.Now()
	result := Result{Title: def.Title}

	m, files, err := Build(def, r.opts.Site, r.opts.CronUser)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		runLog.Error().Err(err).Str("job", def.Title).Msg("job definition rejected")
		return result
	}

	result.Identifier = m.Identifier
	result.Ensure = m.Ensure
	log := runLog.With().Str("job", m.Identifier).Str("ensure", string(m.Ensure)).Logger()

	switch {
	case r.opts.DryRun:
		if m.Ensure == job.EnsurePresent {
			result.Files = files
		}
	case m.Ensure == job.EnsureAbsent:
		// cron entry first so nothing triggers a model that is gone
		for i := len(files) - 1; i >= 0; i-- {
			result.Outputs = append(result.Outputs, r.uploader.Delete(ctx, r.backends, files[i].Path)...)
		}
	default:
		result.Files = files
		for _, f := range files {
			outputs := r.uploader.Upload(ctx, r.backends, f.Path, f.Content)
			result.Outputs = append(result.Outputs, outputs...)
			if storage.Errors(outputs) != nil {
				// never publish an entry for a script that did not land
				break
			}
		}
	}

	result.Error = storage.Errors(result.Outputs)
	result.Success = result.Error == nil
	result.Duration = time.Since(start)

	if result.Success {
		log.Info().Int("files", len(files)).Dur("duration", result.Duration).Msg("job rendered")
	} else {
		log.Error().Err(result.Error).Dur("duration", result.Duration).Msg("job failed")
	}

	return result
}

// prune removes generated files on every backend that no present job owns
func (r *Runner) prune(ctx context.Context, jobs []Result, log zerolog.Logger) []storage.Result {
	keep := make(map[string]bool)
	for _, j := range jobs {
		for _, f := range j.Files {
			keep[f.Path] = true
		}
	}

	var results []storage.Result
	for _, b := range r.backends {
		for _, pattern := range []string{ModelsDir + "/*.rb", CronDir + "/*-backup"} {
			files, err := b.List(ctx, pattern)
			if err != nil {
				results = append(results, storage.Result{BackendName: b.Name(), BackendType: b.Type(), Path: pattern, Error: err})
				continue
			}
			for _, f := range files {
				if keep[f.Path] {
					continue
				}
				start := time.Now()
				err := b.Delete(ctx, f.Path)
				if errors.Is(err, storage.ErrNotFound) {
					err = nil
				}
				results = append(results, storage.Result{
					BackendName: b.Name(),
					BackendType: b.Type(),
					Path:        f.Path,
					Success:     err == nil,
					Error:       err,
					Duration:    time.Since(start),
				})
				log.Info().Str("backend", b.Name()).Str("file", f.Path).Err(err).Msg("pruned stale file")
			}
		}
	}
	return results
}

// duplicateJobs maps the index of every job whose identifier was already
// taken to the index of the job that took it
func duplicateJobs(jobs []config.JobDefinition) map[int]int {
	seen := make(map[string]int)
	dups := make(map[int]int)
	for i, def := range jobs {
		id, err := ident.Sanitize(def.Title)
		if err != nil {
			continue
		}
		if first, ok := seen[id]; ok {
			dups[i] = first
			continue
		}
		seen[id] = i
	}
	return dups
}
