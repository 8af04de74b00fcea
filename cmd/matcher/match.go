package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gcbaptista/go-job-matcher/internal/matcher"
	"github.com/gcbaptista/go-job-matcher/internal/normalize"
	"github.com/gcbaptista/go-job-matcher/store"
)

func newMatchCmd(v *viper.Viper, load func() (*runtime, error)) *cobra.Command {
	var jobsPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a jobs file against the candidate pool and print the report as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := load()
			if err != nil {
				return err
			}
			defer rt.logger.Sync()

			data, err := os.ReadFile(jobsPath)
			if err != nil {
				return fmt.Errorf("reading jobs file: %w", err)
			}
			raw, err := normalize.ParseRawJobs(data)
			if err != nil {
				return err
			}

			candidates, err := store.NewFileSource(rt.cfg.CandidatesPath).Candidates(cmd.Context())
			if err != nil {
				return err
			}

			pipeline, err := matcher.NewPipeline(rt.cfg.Matcher, matcher.WithLogger(rt.logger))
			if err != nil {
				return err
			}
			report, err := pipeline.Match(cmd.Context(), raw, candidates)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(report)
		},
	}

	cmd.Flags().StringVar(&jobsPath, "jobs", "", "jobs JSON file (array or object keyed by id)")
	cmd.Flags().IntP("top-k", "k", 0, "candidates kept per job (default 3)")
	_ = cmd.MarkFlagRequired("jobs")
	_ = v.BindPFlag("matcher.top_k", cmd.Flags().Lookup("top-k"))
	return cmd
}
