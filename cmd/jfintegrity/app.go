package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ochairo/jfintegrity/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/jfintegrity/internal/domain-orchestrators"
	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
	gatewayports "github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
	"github.com/ochairo/jfintegrity/internal/domain/services"
	"github.com/ochairo/jfintegrity/internal/external-adapters/config"
	"github.com/ochairo/jfintegrity/internal/external-adapters/s3archive"
	"github.com/ochairo/jfintegrity/internal/external-adapters/yaml"
	"github.com/ochairo/jfintegrity/internal/external-adapters/zaplog"
)

// app carries the wiring of one command invocation
type app struct {
	cfg          *entities.Config
	logger       *zaplog.Logger
	orchestrator *orchestrators.AuditOrchestrator
	writer       *gateways.ReportWriter
	archive      gatewayports.ReportArchive
	jsonOutput   bool
	out          io.Writer
}

// loadConfig resolves settings and builds the logger; nothing touches the network yet
func loadConfig(cmd *cobra.Command, opts *rootOptions, keyring string) (*entities.Config, *zaplog.Logger, error) {
	resolver := config.NewResolver(
		yaml.NewConfigRepository(opts.configFile),
		config.WithPrompter(config.NewTerminalPrompter()),
	)

	cfg, err := resolver.Resolve(cmd.Context(), config.Overrides{
		URL:         opts.url,
		AccessToken: opts.accessToken,
		Threads:     opts.threads,
		Timeout:     opts.timeout,
		OutputDir:   opts.outputDir,
		LogFile:     opts.logFile,
		Keyring:     keyring,
	})
	if err != nil {
		return nil, nil, err
	}

	logger, err := zaplog.New(zaplog.Options{
		Verbose: opts.verbose,
		LogFile: cfg.LogFile,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", entities.ErrConfiguration, err)
	}

	return cfg, logger, nil
}

// connect checks the server and wires the audit core against it
func connect(ctx context.Context, cmd *cobra.Command, opts *rootOptions, cfg *entities.Config, logger *zaplog.Logger) (*app, error) {
	client := gateways.NewHTTPArtifactoryGateway(cfg.URL, cfg.AccessToken, cfg.Timeout, logger)
	if !client.TestConnection(ctx) {
		return nil, fmt.Errorf("could not reach %s, check your URL", cfg.URL)
	}

	gateway, err := gateways.NewCachingGateway(client, 0)
	if err != nil {
		return nil, err
	}

	orchestrator := orchestrators.NewAuditOrchestrator(
		gateway,
		services.NewWorkSetService(gateway, logger),
		services.NewClassificationService(gateway, logger),
		logger,
		orchestrators.AuditOrchestratorConfig{Workers: cfg.Threads},
	)

	a := &app{
		cfg:          cfg,
		logger:       logger,
		orchestrator: orchestrator,
		writer:       gateways.NewReportWriter(cfg.OutputDir),
		jsonOutput:   opts.jsonOutput,
		out:          cmd.OutOrStdout(),
	}

	if cfg.Archive.Enabled() {
		archive, err := s3archive.New(cfg.Archive)
		if err != nil {
			logger.Warn("report archive disabled", interfaces.Err(err))
		} else {
			a.archive = archive
		}
	}

	return a, nil
}

// finish persists the report, archives it when configured and prints the summary
func (a *app) finish(ctx context.Context, report *entities.AuditReport) error {
	files, err := a.writer.Write(report)
	if err != nil {
		return err
	}

	if a.jsonOutput {
		summary, err := a.writer.WriteSummary(report)
		if err != nil {
			return err
		}
		files = append(files, summary)
	}

	if a.archive != nil {
		if err := a.archive.PutAll(ctx, report.RunID, files); err != nil {
			a.logger.Warn("failed to archive reports", interfaces.F("run_id", report.RunID), interfaces.Err(err))
		} else {
			a.logger.Info("reports archived", interfaces.F("run_id", report.RunID),
				interfaces.F("bucket", a.cfg.Archive.Bucket), interfaces.F("files", len(files)))
		}
	}

	fmt.Fprintln(a.out, report.GetSummary())
	return nil
}
