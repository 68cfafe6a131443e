package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"reelscribe/internal/api"
	"reelscribe/internal/jobs"
)

func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var wait bool
	var jsonOut bool
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "submit <url>",
		Short: "Queue a media URL for transcription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Submit(cmd.Context(), args[0])
			if err != nil {
				return wrapAPIError(err)
			}
			if !wait {
				if jsonOut {
					return writeJSON(cmd, resp)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %s\n", resp.JobID)
				return nil
			}

			job, err := waitForJob(cmd, client, resp.JobID, interval, !jsonOut)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, job)
			}
			if jobs.IsFailed(job.Status) {
				return fmt.Errorf("job %s %s", job.ID, job.Status)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transcript: %s\n", job.TranscriptPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until the job finishes")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "Polling interval for --wait")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func waitForJob(cmd *cobra.Command, client *api.Client, id string, interval time.Duration, echo bool) (api.Job, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last string
	for {
		job, err := client.Job(cmd.Context(), id)
		if err != nil {
			return api.Job{}, wrapAPIError(err)
		}
		if echo && job.Status != last {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", shortID(id), job.Status)
			last = job.Status
		}
		if jobs.IsTerminal(job.Status) {
			return job, nil
		}
		select {
		case <-cmd.Context().Done():
			return api.Job{}, cmd.Context().Err()
		case <-ticker.C:
		}
	}
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "jobs [id]",
		Short: "List jobs or show one job",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				job, err := client.Job(cmd.Context(), args[0])
				if errors.Is(err, api.ErrJobNotFound) {
					return fmt.Errorf("job %s not found", args[0])
				}
				if err != nil {
					return wrapAPIError(err)
				}
				if jsonOut {
					return writeJSON(cmd, job)
				}
				printJob(cmd, job)
				return nil
			}

			list, err := client.Jobs(cmd.Context())
			if err != nil {
				return wrapAPIError(err)
			}
			if jsonOut {
				return writeJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderJobsTable(list, time.Now()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func renderJobsTable(list []api.Job, now time.Time) string {
	columns := []column{
		{header: "ID", align: text.AlignLeft},
		{header: "Status", align: text.AlignLeft},
		{header: "Age", align: text.AlignRight},
		{header: "URL", align: text.AlignLeft},
	}
	rows := make([][]string, 0, len(list))
	for _, job := range list {
		rows = append(rows, []string{shortID(job.ID), job.Status, age(job.CreatedAt, now), job.URL})
	}
	return renderTable(columns, rows)
}

func printJob(cmd *cobra.Command, job api.Job) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:         %s\n", job.ID)
	fmt.Fprintf(out, "URL:        %s\n", job.URL)
	fmt.Fprintf(out, "Status:     %s\n", job.Status)
	if job.ResultPath != nil {
		fmt.Fprintf(out, "Audio:      %s\n", *job.ResultPath)
	}
	if job.TranscriptPath != "" {
		fmt.Fprintf(out, "Transcript: %s\n", job.TranscriptPath)
	}
	if job.CreatedAt != "" {
		fmt.Fprintf(out, "Created:    %s\n", job.CreatedAt)
	}
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the daemon is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.apiClient()
			if err != nil {
				return err
			}
			health, err := client.Health(cmd.Context())
			if err != nil {
				return wrapAPIError(err)
			}
			if jsonOut {
				return writeJSON(cmd, health)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Status:        %s\n", health.Status)
			fmt.Fprintf(out, "Version:       %s\n", health.Version)
			fmt.Fprintf(out, "Model cached:  %s\n", yesNo(health.ModelsLoaded))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func age(timestamp string, now time.Time) string {
	parsed, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return "-"
	}
	return humanize.RelTime(parsed, now, "ago", "from now")
}
