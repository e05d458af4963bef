// Package main provides the jfintegrity CLI for checking and pruning Artifactory artifacts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

// rootOptions holds the persistent flags shared by every subcommand
type rootOptions struct {
	threads     int
	verbose     bool
	accessToken string
	url         string
	configFile  string
	outputDir   string
	logFile     string
	timeout     time.Duration
	jsonOutput  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jfintegrity",
		Short: "Artifactory artifact integrity checker and pruner",
		Long: `jfintegrity checks that artifacts stored in a JFrog Artifactory server can
still be retrieved, and deletes artifacts named in a list.

Each artifact is processed by a pool of workers. Results are written to one
file per category in the output directory:

  check:  traceable_artifacts, untraceable_artifacts, trace_failure_artifacts
  delete: deleted_artifacts, not_deleted_artifacts, folder_artifacts

Credentials are read from flags, JFROG_URL / JFROG_ACCESS_TOKEN (a .env file is
honored), .jfintegrity.yml, the legacy .url / .access_token files, or prompted for.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("jfintegrity {{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.IntVarP(&opts.threads, "threads", "t", 0, "number of worker threads (default 10)")
	flags.BoolVarP(&opts.verbose, "verbose", "V", false, "enable debug logging")
	flags.StringVar(&opts.accessToken, "access-token", "", "Artifactory access token")
	flags.StringVar(&opts.url, "url", "", "Artifactory server URL, e.g. https://example.jfrog.io")
	flags.StringVar(&opts.configFile, "config", "", "config file (default .jfintegrity.yml when present)")
	flags.StringVar(&opts.outputDir, "output-dir", "", "directory for report files (default current directory)")
	flags.StringVar(&opts.logFile, "log-file", "", "file receiving JSON log entries (default log)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "timeout per HTTP request (default 60s)")
	flags.BoolVar(&opts.jsonOutput, "json-output", false, "also write summary.json")

	cmd.AddCommand(newCheckCmd(opts), newDeleteCmd(opts))
	return cmd
}
