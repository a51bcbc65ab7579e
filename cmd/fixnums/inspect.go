package main

import (
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/fixnums/internal/logging"
	"github.com/Nomadcxx/fixnums/internal/naming"
	"github.com/Nomadcxx/fixnums/internal/ui"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [files...]",
		Short: "Show what would be inferred for each file, without touching it",
		Long: `Show the fields inferred from each file name and the name it would get.
Nothing is moved and the outcome log is not written.

Examples:
  fixnums inspect
  fixnums inspect -w "{show_name} {season}x{episode}" show.s01e02.mkv`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, inf, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}

			files, err := a.inputFiles(cfg, args, logger)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				ui.InfoMsg("No playable files found")
				return nil
			}

			logger.Debug("inspect", "Using template", logging.F("template", inf.Template().String()))
			tbl, failed := inspectTable(inf, files)
			ui.Section("Inferred names")
			tbl.Render()
			if failed > 0 {
				ui.WarningMsg("%s of %s files cannot be renamed", ui.FormatCount(failed), ui.FormatCount(len(files)))
			}
			return nil
		},
	}
}

func inspectTable(inf *naming.Inferencer, files []string) (*ui.Table, int) {
	failed := 0
	tbl := ui.NewTable("File", "Rule", "Show", "Season", "Episode", "Episode Name", "New Name")
	for _, f := range files {
		r := inf.Infer(f)

		newName := r.NewName
		if !r.OK {
			newName = "cannot rename: " + r.Err.Error()
			failed++
		}

		tbl.AddRow(
			f,
			ui.OrDash(r.Pattern),
			ui.OrDash(r.ShowName),
			ui.OrDash(r.Season),
			ui.OrDash(r.Episode),
			ui.OrDash(r.EpisodeName),
			newName,
		)
	}
	return tbl, failed
}
