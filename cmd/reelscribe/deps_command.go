package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"reelscribe/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that yt-dlp, ffmpeg, and whisper-cli are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg))

			columns := []column{
				{header: "Dependency", align: text.AlignLeft},
				{header: "Available", align: text.AlignLeft},
				{header: "Path", align: text.AlignLeft},
				{header: "Used for", align: text.AlignLeft},
			}
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				location := status.Path
				if !status.Available {
					location = status.Detail
				}
				rows = append(rows, []string{status.Name, yesNo(status.Available), location, status.Description})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns, rows))

			dirs := deps.CheckDirectories(cfg)
			dirRows := make([][]string, 0, len(dirs))
			for _, status := range dirs {
				detail := "read/write ok"
				if !status.Available {
					detail = status.Detail
				}
				dirRows = append(dirRows, []string{status.Name, yesNo(status.Available), status.Path, detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{
				{header: "Directory", align: text.AlignLeft},
				{header: "Usable", align: text.AlignLeft},
				{header: "Path", align: text.AlignLeft},
				{header: "Detail", align: text.AlignLeft},
			}, dirRows))

			if missing := deps.Missing(append(statuses, dirs...)); len(missing) > 0 {
				return fmt.Errorf("%d required dependencies missing", len(missing))
			}
			return nil
		},
	}
}
