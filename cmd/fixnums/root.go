package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/fixnums/internal/config"
	"github.com/Nomadcxx/fixnums/internal/logging"
	"github.com/Nomadcxx/fixnums/internal/naming"
	"github.com/Nomadcxx/fixnums/internal/organizer"
	"github.com/Nomadcxx/fixnums/internal/scanner"
	"github.com/Nomadcxx/fixnums/internal/ui"
)

// flagValues receives the command line flags. Only flags the user actually
// set override the config file.
type flagValues struct {
	delimiter string
	camelCase bool
	logFile   string
	template  string
	purge     []string
	overwrite bool
	outputDir string
	copy      bool
	strict    bool
	dryRun    bool
	verbose   bool
	noColor   bool
	epad      int
	spad      int
	showName  string
	season    string
}

func (a *app) rootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "fixnums [flags] [files...]",
		Short: "Rename TV episode files into a consistent layout",
		Long: `fixnums finds the season and episode numbers in messy TV episode file
names, cleans up the show and episode names, and moves every file to a name
built from a template.

Without file arguments every playable file in the current directory is
processed. Files are handled one at a time, in order; a file that cannot be
renamed is reported and skipped.

Template placeholders:
  {show_name} {episode_name} {season} {episode} {sep}
{sep} is the path separator, so templates can create folders.

Examples:
  fixnums
  fixnums -x Show.Name.S01E02.Great.Episode.HDTV.x264-LOL.mkv
  fixnums -w "{show_name} S{season}E{episode}" --spad 2 -o ~/TV *.mkv
  fixnums inspect *.mkv`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRename(cmd, args)
		},
	}

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	originalHelpFunc := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		a.helpShown = true
		originalHelpFunc(cmd, args)
	})
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err, usage: cmd.UsageString()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ~/.config/fixnums/config.toml)")
	pf.StringVarP(&a.flags.delimiter, "delimiter", "d", defaults.Delimiter, "replaces spaces in the new name")
	pf.BoolVarP(&a.flags.camelCase, "camelcase", "c", defaults.CamelCase, "capitalize every word (--camelcase=false to disable)")
	pf.StringVarP(&a.flags.logFile, "logfile", "l", defaults.LogFile, `outcome log file ("NONE" disables, default stdout)`)
	pf.StringVarP(&a.flags.template, "writeformat", "w", defaults.Template, "template for the new name")
	pf.StringArrayVarP(&a.flags.purge, "purge", "p", nil, "extra text to strip from names (repeatable)")
	pf.BoolVarP(&a.flags.overwrite, "overwrite", "D", false, "replace files that already exist at the destination")
	pf.StringVarP(&a.flags.outputDir, "outputdir", "o", "", "directory new names are relative to (default: current directory)")
	pf.BoolVarP(&a.flags.copy, "saferename", "r", false, "copy instead of move, keeping the original")
	pf.BoolVarP(&a.flags.strict, "strict", "s", false, "skip files missing any field the template uses")
	pf.BoolVarP(&a.flags.dryRun, "dryrun", "x", false, "only log what would be done")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	pf.IntVar(&a.flags.epad, "epad", defaults.EpisodePad, fmt.Sprintf("minimum episode digits (max %d)", config.MaxPad))
	pf.IntVar(&a.flags.spad, "spad", defaults.SeasonPad, fmt.Sprintf("minimum season digits (max %d)", config.MaxPad))
	pf.StringVar(&a.flags.showName, "showname", "", "use this show name for every file")
	pf.StringVar(&a.flags.season, "season", "", "use this season number for every file")

	root.AddCommand(a.inspectCmd())
	root.AddCommand(a.watchCmd())
	root.AddCommand(a.configCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig reads the config file and applies the flags the user set.
func (a *app) loadConfig(cmd *cobra.Command) (config.Config, error) {
	loaded, err := config.Load(a.cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	cfg := *loaded

	changed := cmd.Flags().Changed
	if changed("delimiter") {
		cfg.Delimiter = a.flags.delimiter
	}
	if changed("camelcase") {
		cfg.CamelCase = a.flags.camelCase
	}
	if changed("logfile") {
		cfg.LogFile = a.flags.logFile
	}
	if changed("writeformat") {
		cfg.Template = a.flags.template
	}
	cfg.StripTokens = append(cfg.StripTokens, a.flags.purge...)
	if changed("overwrite") {
		cfg.Overwrite = a.flags.overwrite
	}
	if changed("outputdir") {
		cfg.OutputDir = a.flags.outputDir
	}
	if changed("saferename") {
		cfg.Copy = a.flags.copy
	}
	if changed("strict") {
		cfg.Strict = a.flags.strict
	}
	if changed("dryrun") {
		cfg.DryRun = a.flags.dryRun
	}
	if a.flags.verbose {
		cfg.Logging.Level = "debug"
	}
	if changed("epad") {
		cfg.EpisodePad = a.flags.epad
	}
	if changed("spad") {
		cfg.SeasonPad = a.flags.spad
	}
	if changed("showname") {
		cfg.ShowName = a.flags.showName
	}
	if changed("season") {
		cfg.Season = a.flags.season
	}

	return cfg.Finalize()
}

// setup loads the configuration and builds the collaborators every command
// needs. Configuration errors surface here, before any file is touched.
func (a *app) setup(cmd *cobra.Command) (config.Config, *naming.Inferencer, *logging.Logger, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, err
	}
	if a.flags.noColor {
		ui.DisableColors()
	}

	inf, err := naming.NewInferencer(cfg)
	if err != nil {
		return cfg, nil, nil, err
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, NoColor: a.flags.noColor}, a.stderr)
	return cfg, inf, logger, nil
}

func (a *app) newOrganizer(cfg config.Config, sink *logging.Sink, logger *logging.Logger) *organizer.Organizer {
	return organizer.NewOrganizer(
		organizer.WithFs(a.fs),
		organizer.WithCopy(cfg.Copy),
		organizer.WithDryRun(cfg.DryRun),
		organizer.WithOverwrite(cfg.Overwrite),
		organizer.WithOutputDir(cfg.OutputDir),
		organizer.WithSink(sink),
		organizer.WithLogger(logger),
	)
}

func (a *app) openSink(cfg config.Config) *logging.Sink {
	return logging.OpenSink(logging.SinkConfig{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}, a.stdout)
}

// inputFiles returns the playable files named in args, or those in the
// current directory when args is empty.
func (a *app) inputFiles(cfg config.Config, args []string, logger *logging.Logger) ([]string, error) {
	if len(args) == 0 {
		return scanner.Discover(a.fs, ".", cfg.Extensions)
	}

	files, skipped := scanner.Filter(args, cfg.Extensions)
	for _, s := range skipped {
		logger.Debug("cli", "Skipping non-playable file", logging.F("file", s))
	}
	return files, nil
}

func (a *app) runRename(cmd *cobra.Command, args []string) error {
	cfg, inf, logger, err := a.setup(cmd)
	if err != nil {
		return err
	}

	files, err := a.inputFiles(cfg, args, logger)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Info("cli", "No playable files found", logging.F("extensions", cfg.Extensions))
		return nil
	}

	sink := a.openSink(cfg)
	defer sink.Close()
	if !cfg.LogEnabled() {
		logger.Debug("cli", "Outcome log disabled")
	}

	results := make([]*naming.Result, 0, len(files))
	for _, f := range files {
		r := inf.Infer(f)
		if !r.OK {
			logger.Debug("naming", "Cannot infer name", logging.F("file", f), logging.F("error", r.Err))
		}
		results = append(results, r)
	}

	start := time.Now()
	org := a.newOrganizer(cfg, sink, logger)
	summary := organizer.Summarize(org.Process(results))

	logger.Info("cli", "Batch complete",
		logging.F("action", cfg.Action()),
		logging.F("files", ui.FormatCount(summary.Total())),
		logging.F("done", summary.Done),
		logging.F("skipped", summary.Identical+summary.Exists+summary.CannotRename),
		logging.F("failed", summary.Failed),
		logging.F("size", ui.FormatBytes(summary.Bytes)),
		logging.F("took", ui.FormatDuration(time.Since(start))),
		logging.F("dry_run", cfg.DryRun))
	if !summary.OK() {
		logger.Warn("cli", "Some files could not be moved", logging.F("summary", summary.String()))
	}

	return nil
}
