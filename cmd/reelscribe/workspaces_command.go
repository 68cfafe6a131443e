package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"reelscribe/internal/staging"
)

func newWorkspacesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces",
		Short: "List job workspaces left in the temp directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			list, err := staging.List(cfg.Paths.TempDir)
			if err != nil {
				return fmt.Errorf("list workspaces: %w", err)
			}
			if len(list) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No workspaces in %s\n", cfg.Paths.TempDir)
				return nil
			}

			columns := []column{
				{header: "Job", align: text.AlignLeft},
				{header: "Transcript", align: text.AlignLeft},
				{header: "Size", align: text.AlignRight},
				{header: "Modified", align: text.AlignRight},
				{header: "Path", align: text.AlignLeft},
			}
			now := time.Now()
			rows := make([][]string, 0, len(list))
			var total int64
			for _, ws := range list {
				total += ws.Size
				rows = append(rows, []string{
					shortID(ws.JobID),
					yesNo(ws.Complete),
					humanize.Bytes(uint64(ws.Size)),
					humanize.RelTime(ws.ModTime, now, "ago", "from now"),
					ws.Path,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(columns, rows))
			fmt.Fprintf(out, "%d workspaces, %s total\n", len(list), humanize.Bytes(uint64(total)))
			return nil
		},
	}
}
