// Package cli implements the news command line: list, sync and serve.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/lysyi3m/news-cli/app/cfg"
	"github.com/lysyi3m/news-cli/app/feed"
	"github.com/lysyi3m/news-cli/app/news"
	"github.com/lysyi3m/news-cli/app/storage"
)

const defaultCommand = "list"

type commandLine struct {
	cfg.Options `group:"Global Options"`

	List  ListCommand  `command:"list" alias:"ls" description:"List news headlines from cache or RSS feeds (default)"`
	Sync  SyncCommand  `command:"sync" description:"Refresh feed cache now"`
	Serve ServeCommand `command:"serve" description:"Serve headlines over HTTP and keep today's cache warm"`
}

// App runs one invocation of the command line.
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	Env    cfg.Env

	// Now and Getter default to the wall clock and an HTTP client.
	Now    func() time.Time
	Getter feed.Getter
}

func New() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    cfg.OSEnv(),
		Now:    time.Now,
	}
}

// Run parses args (without the program name) and executes the selected
// command. Help output is not an error.
func (a *App) Run(ctx context.Context, args []string) error {
	var opts commandLine

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "news"
	parser.ShortDescription = "Global and Japan news CLI with OPML-based RSS feeds"
	parser.CommandHandler = func(_ flags.Commander, rest []string) error {
		return a.dispatch(ctx, parser.Active, &opts, rest)
	}

	if _, err := parser.ParseArgs(withDefaultCommand(parser, args)); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(a.Stdout, flagsErr.Message)
			return nil
		}
		return err
	}

	return nil
}

// withDefaultCommand prepends the list command unless args already name a
// command or only ask for the top-level help.
func withDefaultCommand(parser *flags.Parser, args []string) []string {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		return args
	}

	for _, arg := range args {
		if arg == "--" {
			break
		}
		if parser.Find(arg) != nil {
			return args
		}
	}

	return append([]string{defaultCommand}, args...)
}

func (a *App) dispatch(ctx context.Context, active *flags.Command, opts *commandLine, args []string) error {
	if opts.Version {
		fmt.Fprintf(a.Stdout, "news %s\n", cfg.GetVersion())
		return nil
	}

	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	c, err := cfg.Load(opts.Options, a.Env)
	if err != nil {
		return err
	}

	if err := cfg.ApplyTimezone(c.Timezone); err != nil {
		return err
	}

	name := defaultCommand
	if active != nil {
		name = active.Name
	}

	a.setupLogging(c.Debug, name == "serve")

	loader := a.newLoader(c)

	switch name {
	case "sync":
		return a.runSync(ctx, c, loader, &opts.Sync)
	case "serve":
		return a.runServe(ctx, c, loader, &opts.Serve)
	default:
		return a.runList(ctx, c, loader, &opts.List)
	}
}

// setupLogging sends structured logs to stderr. Stdout only carries
// rendered output.
func (a *App) setupLogging(debug, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(a.Stderr, &slog.HandlerOptions{Level: level})))
}

func (a *App) newLoader(c *cfg.Cfg) *news.Loader {
	getter := a.Getter
	if getter == nil {
		getter = feed.NewHTTPGetter(c.FetchTimeout, c.UserAgent)
	}

	loader := news.NewLoader(storage.NewStore(c.CacheDir), feed.ReadSources, feed.NewFetcher(getter, feed.NewParser()))
	if a.Now != nil {
		loader.Now = a.Now
	}
	return loader
}
