// Package main provides the CLI entry point for framepick.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framepick/pkg/adapters/eventlog"
	"github.com/user/framepick/pkg/adapters/execrunner"
	"github.com/user/framepick/pkg/adapters/logger"
	"github.com/user/framepick/pkg/adapters/osfilesystem"
	"github.com/user/framepick/pkg/adapters/progress"
	"github.com/user/framepick/pkg/adapters/yamlprefs"
	"github.com/user/framepick/pkg/batch"
	"github.com/user/framepick/pkg/config"
	"github.com/user/framepick/pkg/pipeline"
	"github.com/user/framepick/pkg/ports"
	"github.com/user/framepick/pkg/preferences"
	"github.com/user/framepick/pkg/probe"
	"github.com/user/framepick/pkg/sampler"
	"github.com/user/framepick/pkg/summarizer"
	"github.com/user/framepick/pkg/toolchain"
)

var version = "dev"

// Exit codes
const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var coder cli.ExitCoder
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(exitFailure)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "framepick",
		Usage:   l10n.T("Extract random still frames from videos"),
		Version: version,
		Description: l10n.T("framepick extracts randomly chosen still frames from each queued video " +
			"using ffmpeg and ffprobe."),
		Commands: []*cli.Command{
			extractCommand(),
			toolsCommand(),
		},
		ExitErrHandler: func(c *cli.Context, err error) {},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     l10n.T("Extract random frames from one or more videos"),
		ArgsUsage: "VIDEO...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Category: l10n.T("Output"),
				Usage: l10n.T("Output directory (default: the last one used)")},
			&cli.StringFlag{Name: "naming", Category: l10n.T("Output"),
				Usage: l10n.T("File naming scheme (coded, timestamped)")},
			&cli.StringFlag{Name: "summary", Category: l10n.T("Output"),
				Usage: l10n.T("Write a Markdown summary of the run to this file")},
			&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Category: l10n.T("Extraction"),
				Usage: l10n.T("Number of random frames per video (default: 300)")},
			&cli.IntFlag{Name: "quality", Aliases: []string{"q"}, Category: l10n.T("Extraction"),
				Usage: l10n.T("JPEG quality (1-31, lower is better)")},
			&cli.StringFlag{Name: "bin-dir", Category: l10n.T("Toolchain"),
				Usage: l10n.T("Folder containing ffmpeg and ffprobe (saved on success)")},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Category: l10n.T("Configuration"),
				Usage: l10n.T("YAML configuration file")},
			&cli.StringFlag{Name: "prefs", Category: l10n.T("Configuration"),
				Usage: l10n.T("Preferences file (default: framepick.yaml)")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Category: l10n.T("Logging"),
				Usage: l10n.T("Log level (debug, info, warn, error)")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Category: l10n.T("Logging"),
				Usage: l10n.T("Suppress all log output")},
			&cli.BoolFlag{Name: "progress", Category: l10n.T("Logging"),
				Usage: l10n.T("Show a progress bar per video when attached to a terminal")},
		},
		Action: runExtract,
	}
}

func toolsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: l10n.T("Check where ffmpeg and ffprobe are found"),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bin-dir",
				Usage: l10n.T("Folder containing ffmpeg and ffprobe (saved on success)")},
			&cli.StringFlag{Name: "prefs",
				Usage: l10n.T("Preferences file (default: framepick.yaml)")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"},
				Usage: l10n.T("Log level (debug, info, warn, error)")},
		},
		Action: runTools,
	}
}

// loadConfig merges defaults, the optional config file and explicit flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("output") {
		cfg.OutputDir = c.String("output")
	}
	if c.IsSet("naming") {
		cfg.Naming = c.String("naming")
	}
	if c.IsSet("frames") {
		cfg.Frames = c.Int("frames")
	}
	if c.IsSet("quality") {
		cfg.Quality = c.Int("quality")
	}
	if c.IsSet("bin-dir") {
		cfg.BinDir = c.String("bin-dir")
	}
	if c.IsSet("prefs") {
		cfg.PrefsPath = c.String("prefs")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("progress") {
		cfg.Progress = c.Bool("progress")
	}
	if c.Bool("quiet") {
		cfg.LogLevel = ports.LevelQuiet.String()
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.Config) ports.Logger {
	if cfg.Level() == ports.LevelQuiet {
		return logger.NewNoop()
	}
	return logger.NewConsole(cfg.Level())
}

// runExtract executes the extract command.
func runExtract(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err, exitUsage)
	}
	log := newLogger(cfg)

	fs := osfilesystem.New()
	prefs := yamlprefs.New(cfg.PrefsPath, fs)
	runner := execrunner.New()

	session, err := preferences.LoadSession(prefs)
	if err != nil {
		log.Warn(l10n.F("Could not read the preferences file: %s", err))
	}
	outputRoot := cfg.OutputDir
	if outputRoot == "" {
		outputRoot = session.OutputDir
	}

	ctx := c.Context
	res := toolchain.NewLocator(runner, fs, prefs).Resolve(ctx, cfg.BinDir)
	if !res.Paths.Complete() {
		toolchain.Announce(eventlog.New(log), res)
		return cli.Exit(batch.ErrToolsUnresolved, exitFailure)
	}

	stage := sampler.New(runner, probe.New(runner), fs,
		sampler.WithNaming(cfg.NamingScheme()),
		sampler.WithQuality(cfg.Quality),
	)
	br := batch.New(stage)
	if err := br.Queue().Enqueue(c.Args().Slice()...); err != nil {
		return err
	}

	sink := eventlog.Multi{eventlog.New(log)}
	if cfg.Progress && logger.IsTerminal(os.Stderr) {
		sink = append(sink, progress.New(os.Stderr, cfg.Frames))
	}

	req := batch.Request{
		OutputRoot: outputRoot,
		FrameCount: cfg.Frames,
		Tools:      res.Paths,
		ToolCheck:  &res,
	}
	events, reports, err := br.Start(ctx, req)
	if err != nil {
		return cli.Exit(err, exitUsage)
	}

	release := stopOnSignal(br)
	for e := range events {
		sink.Emit(e)
	}
	report := <-reports
	release()

	saveSession(log, prefs, fs, c.Args().Slice(), outputRoot)

	if path := c.String("summary"); path != "" {
		if err := writeSummary(fs, path, report, cfg, outputRoot, res.Paths); err != nil {
			log.Error(l10n.F("Could not write the summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", path))
		}
	}

	if failed := failedVideos(report); failed > 0 {
		return cli.Exit(l10n.F("%d of %d videos could not be processed.", failed, len(report.Videos)), exitFailure)
	}
	return nil
}

// stopOnSignal turns SIGINT and SIGTERM into a stop request; the current
// video ends at its next frame boundary. The returned func releases the
// handler.
func stopOnSignal(br *batch.Runner) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			br.Stop()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigCh)
		close(done)
	}
}

func saveSession(log ports.Logger, prefs ports.PreferenceStore, fs ports.FileSystem, videos []string, outputRoot string) {
	s := preferences.Session{OutputDir: outputRoot}
	if abs, err := fs.Abs(outputRoot); err == nil {
		s.OutputDir = abs
	}
	if n := len(videos); n > 0 {
		s.LastVideo = videos[n-1]
	}
	if err := preferences.SaveSession(prefs, s); err != nil {
		log.Warn(l10n.F("Could not save the preferences file: %s", err))
	}
}

func writeSummary(fs ports.FileSystem, path string, report batch.Report, cfg config.Config, outputRoot string, tools pipeline.Toolchain) error {
	summary := summarizer.NewBuilder().
		WithSettings(summarizer.Settings{
			OutputRoot:     outputRoot,
			FramesPerVideo: cfg.Frames,
			Naming:         string(cfg.NamingScheme()),
			Quality:        cfg.Quality,
			Transcoder:     tools.Transcoder,
			Probe:          tools.Probe,
		}).
		WithReport(report).
		Build()

	w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(summarizer.WithVersion(version)), fs)
	return w.Write(filepath.Clean(path), summary)
}

// failedVideos counts videos that produced no extraction at all.
func failedVideos(report batch.Report) int {
	n := 0
	for _, v := range report.Videos {
		switch v.Status {
		case pipeline.StatusMissing, pipeline.StatusProbeFailed, pipeline.StatusFailed:
			n++
		}
	}
	return n
}

// runTools executes the tools command.
func runTools(c *cli.Context) error {
	cfg := config.Defaults()
	if c.IsSet("prefs") {
		cfg.PrefsPath = c.String("prefs")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	log := newLogger(cfg)

	fs := osfilesystem.New()
	runner := execrunner.New()
	res := toolchain.NewLocator(runner, fs, yamlprefs.New(cfg.PrefsPath, fs)).Resolve(c.Context, c.String("bin-dir"))
	toolchain.Announce(eventlog.New(log), res)

	if !res.Paths.Complete() {
		return cli.Exit(batch.ErrToolsUnresolved, exitFailure)
	}
	fmt.Fprintf(c.App.Writer, "ffmpeg:  %s\nffprobe: %s\n", res.Paths.Transcoder, res.Paths.Probe)
	return nil
}
