package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/williamokano/backupgen/pkg/config"
	"github.com/williamokano/backupgen/pkg/logger"
	"github.com/williamokano/backupgen/pkg/render"
	"github.com/williamokano/backupgen/pkg/storage"

	// Import backends to register them
	_ "github.com/williamokano/backupgen/pkg/storage/local"
	_ "github.com/williamokano/backupgen/pkg/storage/s3"
	_ "github.com/williamokano/backupgen/pkg/storage/ssh"
)

type flags struct {
	configFile string
	dryRun     bool
	prune      bool
	logLevel   string
	logFormat  string
}

func main() {
	var f flags
	fs := pflag.NewFlagSet("backupgen", pflag.ExitOnError)
	fs.StringVarP(&f.configFile, "config", "c", "", "tool configuration file (YAML)")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "print the generated files instead of publishing them")
	fs.BoolVar(&f.prune, "prune", false, "remove generated files that no job produces anymore")
	fs.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error (overrides the config file)")
	fs.StringVar(&f.logFormat, "log-format", "", "json or console (overrides the config file)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: backupgen [flags] <jobs.yaml>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, f, fs.Arg(0), os.Stdout); err != nil {
		logger.Get().Error().Err(err).Msg("backupgen failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags, jobsFile string, stdout io.Writer) error {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.logFormat != "" {
		cfg.LogFormat = f.logFormat
	}

	logger.Init(cfg.GetLogLevel(), cfg.GetLogFormat())
	log := logger.Get()
	ctx = log.WithContext(ctx)

	log.Info().
		Str("config_file", f.configFile).
		Str("jobs_file", jobsFile).
		Str("fqdn", cfg.FQDN).
		Msg("starting backupgen")

	jobs, err := config.LoadJobs(jobsFile)
	if err != nil {
		return err
	}

	var backends []storage.Backend
	if !f.dryRun {
		backends, err = storage.NewFactory().CreateAll(ctx, cfg.EnabledOutputs())
		if err != nil {
			return fmt.Errorf("failed to initialize outputs: %w", err)
		}
		defer storage.CloseAll(backends)
	}

	runner := render.NewRunner(render.Options{
		Site:          cfg.Site(),
		CronUser:      cfg.GetCronUser(),
		MaxConcurrent: cfg.GetMaxConcurrentJobs(),
		DryRun:        f.dryRun,
		Prune:         f.prune,
	}, backends, *log)

	report, err := runner.Run(ctx, jobs)
	if f.dryRun && report != nil {
		printFiles(stdout, report)
	}
	return err
}

func printFiles(w io.Writer, report *render.Report) {
	for _, j := range report.Jobs {
		for _, file := range j.Files {
			fmt.Fprintf(w, "==> %s <==\n%s\n", file.Path, file.Content)
		}
	}
}
