package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ochairo/jfintegrity/internal/domain-adapters/gateways"
	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
	gatewayports "github.com/ochairo/jfintegrity/internal/domain/interfaces/gateways"
)

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var signature, keyring string

	cmd := &cobra.Command{
		Use:   "delete DEL_FILE",
		Short: "Delete the artifacts listed in a file",
		Long: `Delete every artifact listed in DEL_FILE, one path per line. Paths that are
folders, or whose type cannot be determined, are never deleted.

With --keyring the list must carry a detached OpenPGP signature made by a key
from the keyring (DEL_FILE.asc unless --signature is given).`,
		Example: `  # Delete artifacts named in a list
  jfintegrity delete old_artifacts.txt

  # Require a signed list
  jfintegrity delete old_artifacts.txt --keyring trusted.asc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeDelete(cmd, opts, args[0], signature, keyring)
		},
	}

	cmd.Flags().StringVar(&signature, "signature", "", "detached signature of DEL_FILE (default DEL_FILE.asc)")
	cmd.Flags().StringVar(&keyring, "keyring", "", "trusted public keyring, file path or http(s) URL")

	return cmd
}

func executeDelete(cmd *cobra.Command, opts *rootOptions, deleteFile, signature, keyring string) error {
	cfg, logger, err := loadConfig(cmd, opts, keyring)
	if err != nil {
		return err
	}
	//nolint:errcheck // Best effort flush on exit
	defer logger.Close()

	ctx := cmd.Context()
	if err := verifyDeleteList(ctx, gateways.NewGPGVerifier(), cfg, logger, deleteFile, signature); err != nil {
		return err
	}

	a, err := connect(ctx, cmd, opts, cfg, logger)
	if err != nil {
		return err
	}

	report, err := a.orchestrator.Delete(ctx, deleteFile)
	if err != nil {
		return err
	}

	return a.finish(context.WithoutCancel(ctx), report)
}

// verifyDeleteList enforces the configured signature policy before any DELETE is sent
func verifyDeleteList(
	ctx context.Context,
	verifier gatewayports.SignatureVerifier,
	cfg *entities.Config,
	logger interfaces.Logger,
	deleteFile, signature string,
) error {
	if cfg.Delete.Keyring == "" {
		if cfg.Delete.RequireSignature {
			return fmt.Errorf("%w: signed delete lists are required, configure a keyring", entities.ErrConfiguration)
		}
		if signature != "" {
			return fmt.Errorf("%w: --signature needs --keyring", entities.ErrConfiguration)
		}
		return nil
	}

	if signature == "" {
		signature = deleteFile + ".asc"
	}

	fingerprint, err := verifier.VerifyList(ctx, deleteFile, signature, cfg.Delete.Keyring)
	if err != nil {
		return fmt.Errorf("%w: delete list %s: %w", entities.ErrConfiguration, deleteFile, err)
	}

	logger.Info("delete list signature verified", interfaces.F("file", deleteFile), interfaces.F("signer", fingerprint))
	return nil
}
