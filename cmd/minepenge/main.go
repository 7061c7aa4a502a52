package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/minepenge/minepenge/pkg/config"
	"github.com/minepenge/minepenge/pkg/content"
	"github.com/minepenge/minepenge/pkg/dataset"
	"github.com/minepenge/minepenge/pkg/dedup"
	"github.com/minepenge/minepenge/pkg/feedback"
	"github.com/minepenge/minepenge/pkg/llm"
	"github.com/minepenge/minepenge/pkg/metrics"
	"github.com/minepenge/minepenge/pkg/pipeline"
	"github.com/minepenge/minepenge/pkg/publish"
	"github.com/minepenge/minepenge/pkg/repository"
	"github.com/minepenge/minepenge/pkg/scheduler"
	"github.com/minepenge/minepenge/pkg/storage"
	"github.com/minepenge/minepenge/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" description:"configuration file, built-in defaults if empty"`

	Harvest    struct{}      `command:"harvest" description:"fetch all enabled sources and update the dataset (default)"`
	Build      struct{}      `command:"build" description:"consolidate tagged batch files into the dataset"`
	Tag        TagCmd        `command:"tag" description:"tag raw scraper files"`
	Server     ServerCmd     `command:"server" description:"run REST API server"`
	Newsletter NewsletterCmd `command:"newsletter" description:"generate weekly newsletter from the best articles"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// TagCmd overrides tag job directories
type TagCmd struct {
	InputDir  string `long:"input" description:"directory with raw files, dataset.raw_dir if empty"`
	OutputDir string `long:"output" description:"directory for tagged files, dataset.tagged_dir if empty"`
}

// ServerCmd overrides server settings
type ServerCmd struct {
	Listen   string        `short:"l" long:"listen" env:"LISTEN" description:"listen address, server.listen if empty"`
	Interval time.Duration `long:"interval" env:"HARVEST_INTERVAL" description:"periodic harvest interval, harvest.interval if empty"`
}

// NewsletterCmd overrides newsletter settings
type NewsletterCmd struct {
	OutputDir string `short:"o" long:"output" description:"output directory, llm.output_dir if empty"`
	TopN      int    `short:"n" long:"top" description:"number of articles, llm.top_n if empty"`
}

const (
	cmdHarvest    = "harvest"
	cmdBuild      = "build"
	cmdTag        = "tag"
	cmdServer     = "server"
	cmdNewsletter = "newsletter"
)

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	color.NoColor = color.NoColor || opts.NoColor
	setupLog(opts.Debug)

	cmd := cmdHarvest
	if parser.Active != nil {
		cmd = parser.Active.Name
	}
	log.Printf("[INFO] starting minepenge %s, version %s", cmd, revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, cmd, os.Stdout)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %s failed: %v", cmd, err)
		os.Exit(1)
	}
	log.Printf("[INFO] %s completed", cmd)
}

// run executes the named command with loaded configuration
func run(ctx context.Context, opts Opts, cmd string, out io.Writer) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLog(opts.Debug, cfg.Secrets()...)

	lex, err := config.LoadLexicon(cfg.Lexicon)
	if err != nil {
		return fmt.Errorf("failed to load lexicon: %w", err)
	}

	switch cmd {
	case cmdHarvest:
		return runHarvest(ctx, cfg, lex, out)
	case cmdBuild:
		return runBuild(cfg, lex, out)
	case cmdTag:
		return runTag(cfg, lex, opts.Tag, out)
	case cmdServer:
		return runServer(ctx, cfg, lex, opts.Server, opts.Debug)
	case cmdNewsletter:
		return runNewsletter(ctx, cfg, opts.Newsletter, out)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runHarvest(ctx context.Context, cfg *config.Config, lex *config.Lexicon, out io.Writer) error {
	repos := openRepositories(ctx, cfg)
	if repos != nil {
		defer closeRepositories(repos)
	}

	h, closeFn, err := makeHarvester(ctx, cfg, lex, repos, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := scheduler.NewScheduler(h, 0).RunOnce(ctx)
	scheduler.PrintRun(out, res)
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}
	return nil
}

func runBuild(cfg *config.Config, lex *config.Lexicon, out io.Writer) error {
	job := pipeline.NewBuildJob(makeProcessor(cfg, lex), dataset.NewStore(cfg.Dataset.Path),
		cfg.Dataset.InputDir, cfg.Dataset.InputPattern, dedupOptions(cfg)...)
	rep, err := job.Run()
	if err != nil {
		return fmt.Errorf("build dataset: %w", err)
	}
	rep.Print(out)
	return nil
}

func runTag(cfg *config.Config, lex *config.Lexicon, cmd TagCmd, out io.Writer) error {
	inputDir, outputDir := cfg.Dataset.RawDir, cfg.Dataset.TaggedDir
	if cmd.InputDir != "" {
		inputDir = cmd.InputDir
	}
	if cmd.OutputDir != "" {
		outputDir = cmd.OutputDir
	}

	rep, err := pipeline.NewTagJob(lex, inputDir, outputDir).Run()
	if err != nil {
		return fmt.Errorf("tag files: %w", err)
	}
	rep.Print(out)
	return nil
}

func runServer(ctx context.Context, cfg *config.Config, lex *config.Lexicon, cmd ServerCmd, debug bool) error {
	if cmd.Listen != "" {
		cfg.Server.Listen = cmd.Listen
	}
	interval := cfg.Harvest.Interval
	if cmd.Interval > 0 {
		interval = cmd.Interval
	}

	repos := openRepositories(ctx, cfg)
	if repos != nil {
		defer closeRepositories(repos)
	}

	m := metrics.New()
	h, closeFn, err := makeHarvester(ctx, cfg, lex, repos, m)
	if err != nil {
		return err
	}
	defer closeFn()

	store := dataset.NewStore(cfg.Dataset.Path)
	if ds, err := store.Load(); err == nil {
		m.DatasetSize(len(ds.Articles))
	}

	sched := scheduler.NewScheduler(h, interval)
	sched.Start(ctx)
	defer sched.Stop()

	params := server.Params{
		Config:    cfg,
		Articles:  store,
		Feedback:  feedback.NewStore(cfg.Dataset.FeedbackPath),
		Harvester: sched,
		Metrics:   m,
	}
	if repos != nil {
		params.Runs = repos.Run
	}

	if err := server.New(params, revision, debug).Run(ctx); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}

func runNewsletter(ctx context.Context, cfg *config.Config, cmd NewsletterCmd, out io.Writer) error {
	llmCfg := cfg.GetLLMConfig()
	if cmd.OutputDir != "" {
		llmCfg.OutputDir = cmd.OutputDir
	}
	if cmd.TopN > 0 {
		llmCfg.TopN = cmd.TopN
	}

	ds, err := dataset.NewStore(cfg.Dataset.Path).Load()
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	nl, err := llm.NewGenerator(llmCfg).Generate(ctx, ds.Articles)
	if err != nil {
		return fmt.Errorf("generate newsletter: %w", err)
	}
	mdPath, htmlPath, err := llm.Save(nl, llmCfg.OutputDir)
	if err != nil {
		return fmt.Errorf("save newsletter: %w", err)
	}

	kind := "fallback"
	if nl.AI {
		kind = "ai"
	}
	fmt.Fprintf(out, "newsletter %s (%s, %d articles)\n  %s\n  %s\n", nl.Date.Format("2006-01-02"), kind,
		len(nl.Articles), mdPath, htmlPath)
	return nil
}

func makeProcessor(cfg *config.Config, lex *config.Lexicon) *pipeline.Processor {
	return pipeline.NewProcessor(pipeline.Params{
		Lexicon:       lex,
		Detector:      content.NewLanguageDetector(),
		MinTextLength: cfg.Harvest.MinTextLength,
		Language:      cfg.Harvest.Language,
		MinScore:      cfg.Scoring.MinScore,
		Sources:       cfg.Sources,
	})
}

func dedupOptions(cfg *config.Config) []dedup.Option {
	return []dedup.Option{dedup.WithMetric(dedup.Metric(cfg.Dedup.Metric)), dedup.WithThreshold(cfg.Dedup.Threshold)}
}

// makeHarvester wires sources and the optional sinks, returned func closes the sinks
func makeHarvester(ctx context.Context, cfg *config.Config, lex *config.Lexicon, repos *repository.Repositories,
	m *metrics.Metrics) (*scheduler.Harvester, func(), error) {
	sources, err := scheduler.NewSources(cfg.Sources, cfg.Harvest)
	if err != nil {
		return nil, nil, fmt.Errorf("make sources: %w", err)
	}

	p := scheduler.Params{
		Sources:    sources,
		Processor:  makeProcessor(cfg, lex),
		Store:      dataset.NewStore(cfg.Dataset.Path),
		MaxWorkers: cfg.Harvest.MaxWorkers,
		BatchSize:  cfg.Harvest.BatchSize,
		Dedup:      dedupOptions(cfg),
	}
	if repos != nil {
		p.Runs = repos.Run
	}
	if m != nil {
		p.Metrics = m
	}

	if cfg.S3.Enabled {
		up, err := storage.NewS3Uploader(ctx, cfg.S3)
		if err != nil {
			return nil, nil, fmt.Errorf("make s3 uploader: %w", err)
		}
		p.Uploader = up
	}

	closeFn := func() {}
	if cfg.Kafka.Enabled {
		pub, err := publish.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return nil, nil, fmt.Errorf("make kafka publisher: %w", err)
		}
		p.Publisher = pub
		closeFn = func() {
			if err := pub.Close(); err != nil {
				log.Printf("[WARN] %v", err)
			}
		}
	}

	return scheduler.NewHarvester(p), closeFn, nil
}

// openRepositories opens run history and prunes old runs. Run history is optional,
// failures are logged and nil is returned.
func openRepositories(ctx context.Context, cfg *config.Config) *repository.Repositories {
	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		log.Printf("[WARN] run history disabled: %v", err)
		return nil
	}

	before := time.Now().AddDate(0, 0, -cfg.Database.HistoryDays)
	n, err := repos.Run.DeleteRunsBefore(ctx, before)
	switch {
	case err != nil:
		log.Printf("[WARN] failed to prune run history: %v", err)
	case n > 0:
		log.Printf("[INFO] pruned %d runs older than %d days", n, cfg.Database.HistoryDays)
	}
	return repos
}

func closeRepositories(repos *repository.Repositories) {
	if err := repos.Close(); err != nil {
		log.Printf("[WARN] failed to close database: %v", err)
	}
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
