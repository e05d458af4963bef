package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/services"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var artifactFile, repoFile, after string

	cmd := &cobra.Command{
		Use:   "check [REPO]...",
		Short: "Check that artifacts can be retrieved",
		Long: `Trace every artifact of the given repositories, of the repositories listed in
--rfile and of the artifacts listed in --afile. A trace simulates a download
without transferring the file or counting it as a download.`,
		Example: `  # Check every artifact of two repositories
  jfintegrity check libs-release libs-snapshot

  # Only artifacts modified after a date, with 20 workers
  jfintegrity check libs-release --after 2023-01-01 -t 20

  # Artifacts and repositories read from files
  jfintegrity check --afile artifacts.txt --rfile repos.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeCheck(cmd, opts, args, artifactFile, repoFile, after)
		},
	}

	cmd.Flags().StringVar(&artifactFile, "afile", "", "file with one artifact path per line")
	cmd.Flags().StringVar(&repoFile, "rfile", "", "file with one repository name per line")
	cmd.Flags().StringVar(&after, "after", "", "only list artifacts modified after this ISO-8601 date")

	return cmd
}

func executeCheck(cmd *cobra.Command, opts *rootOptions, repos []string, artifactFile, repoFile, after string) error {
	if len(repos) == 0 && artifactFile == "" && repoFile == "" {
		return fmt.Errorf("%w: nothing to check, give REPO arguments, --afile or --rfile", entities.ErrConfiguration)
	}

	var cutoff *time.Time
	if after != "" {
		t, err := services.ParseTimestamp(after)
		if err != nil {
			return fmt.Errorf("%w: --after: %w", entities.ErrConfiguration, err)
		}
		cutoff = &t
	}

	cfg, logger, err := loadConfig(cmd, opts, "")
	if err != nil {
		return err
	}
	//nolint:errcheck // Best effort flush on exit
	defer logger.Close()

	ctx := cmd.Context()
	a, err := connect(ctx, cmd, opts, cfg, logger)
	if err != nil {
		return err
	}

	report, err := a.orchestrator.Check(ctx, entities.WorkSetRequest{
		Repos:        repos,
		ArtifactFile: artifactFile,
		RepoFile:     repoFile,
		After:        cutoff,
	})
	if err != nil {
		return err
	}

	return a.finish(context.WithoutCancel(ctx), report)
}
