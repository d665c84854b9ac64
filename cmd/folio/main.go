package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eringen/folio"
)

// version is set at build time via ldflags.
var version = "dev"

// Global is shared with every subcommand.
type Global struct {
	Ctx    context.Context
	Logger *zap.Logger
}

// CLI is the root command line.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml" type:"path"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Build   BuildCmd   `cmd:"" help:"Render the site into the output directory"`
	Serve   ServeCmd   `cmd:"" help:"Run the preview server"`
	Deploy  DeployCmd  `cmd:"" help:"Publish the output directory to the configured git branch"`
	New     NewCmd     `cmd:"" help:"Create a new site"`
	Version VersionCmd `cmd:"" help:"Print the folio version"`
}

func main() {
	// A missing .env is fine; the config file and environment still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error: load .env: %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("folio"),
		kong.Description("A personal blog and portfolio site generator."),
		kong.UsageOnError(),
	)

	logger, err := newLogger(cli.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = kctx.Run(&Global{Ctx: ctx, Logger: logger}, &cli)
	if err != nil {
		logger.Error("command failed", zap.String("command", kctx.Command()), zap.Error(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// openApp loads the config file and creates an app with the CLI logger.
func openApp(g *Global, root *CLI) (*folio.App, error) {
	cfg, err := folio.LoadConfig(root.Config)
	if err != nil {
		return nil, err
	}
	return folio.New(cfg, folio.WithLogger(g.Logger)), nil
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override the output directory"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	app, err := openApp(g, root)
	if err != nil {
		return err
	}
	defer app.Close()
	if b.Output != "" {
		app.Config.Build.OutputDir = b.Output
	}
	report, err := app.Build(g.Ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Built %d pages, %d assets, %d static files into %s in %s\n",
		report.Pages, report.Assets, report.Static, app.Config.Build.OutputDir, report.Duration.Round(time.Millisecond))
	return nil
}

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr  string `help:"Override the listen address"`
	Watch bool   `short:"w" help:"Reindex when content or static files change"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	app, err := openApp(g, root)
	if err != nil {
		return err
	}
	defer app.Close()
	if s.Addr != "" {
		app.Config.Server.Addr = s.Addr
	}
	if err := app.Open(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(g.Ctx)
	defer cancel()
	watchErr := make(chan error, 1)
	if s.Watch {
		go func() { watchErr <- app.Watch(ctx) }()
	} else {
		close(watchErr)
	}

	err = app.Serve(ctx)
	cancel()
	if werr := <-watchErr; werr != nil && err == nil {
		err = werr
	}
	return err
}

// DeployCmd implements the 'deploy' command.
type DeployCmd struct {
	SkipBuild bool `help:"Publish the output directory as it is, without building first"`
}

func (d *DeployCmd) Run(g *Global, root *CLI) error {
	app, err := openApp(g, root)
	if err != nil {
		return err
	}
	defer app.Close()
	if !d.SkipBuild {
		if _, err := app.Build(g.Ctx); err != nil {
			return err
		}
	}
	report, err := app.Deploy(g.Ctx)
	if err != nil {
		return err
	}
	switch {
	case report.UpToDate:
		fmt.Printf("%s is already up to date\n", report.Branch)
	default:
		fmt.Printf("Published %s (%s)\n", report.Branch, report.Commit)
	}
	return nil
}

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("folio %s\n", version)
	return nil
}
