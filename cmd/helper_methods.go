package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sealbox-dev/sealbox/internal/configs"
	"github.com/sealbox-dev/sealbox/internal/crypto"
	serrors "github.com/sealbox-dev/sealbox/internal/errors"
	"github.com/sealbox-dev/sealbox/internal/ui"
	"github.com/sealbox-dev/sealbox/internal/vault"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
// This ensures consistent output formatting across all commands.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	err := s.Color("cyan")
	if err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		Logger.Debugf("Starting spinner in non-verbose mode")
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		// Restore log output first.
		if !verbose && !debug {
			Logger.Debugf("Restoring log output")
			log.SetOutput(os.Stdout)
		}

		// Ensure final message ends with a newline.
		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			Logger.Debugf("Stopping spinner")
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// failSpinner records a failure as the spinner's final message and logs the
// underlying error for debug runs.
func failSpinner(s *spinner.Spinner, message string, err error) {
	Logger.Errorf("%s: %v", message, err)
	s.FinalMSG = ui.Error.Sprint("✗") + " " + message + "\n" +
		ui.Error.Sprint("Error: ") + err.Error()
}

// reportVaultError turns the common setup failures into actionable final
// messages instead of raw errors.
func reportVaultError(s *spinner.Spinner, err error) {
	switch {
	case errors.Is(err, serrors.ErrVaultNotInitialized):
		s.FinalMSG = color.RedString("✗") + " Sealbox has not been initialized\n" +
			color.CyanString("→") + " Run " + color.YellowString("sealbox vault init") + " first"
	case errors.Is(err, serrors.ErrNoMasterKey):
		s.FinalMSG = color.RedString("✗") + " No master key could be found\n" +
			color.CyanString("→") + " Set " + color.YellowString(configs.MasterKeyEnv) + " or check your key source in " + color.YellowString(".sealbox/config.toml")
	case errors.Is(err, serrors.ErrInvalidMasterKey):
		s.FinalMSG = color.RedString("✗") + " The configured master key is malformed\n" +
			color.RedString("Error: ") + err.Error()
	default:
		failSpinner(s, "Failed to open the vault", err)
	}
}

// vaultContext bundles everything a vault command needs: the project config,
// the crypto service built from the resolved master key, and the open store.
type vaultContext struct {
	config *configs.ProjectConfig
	svc    *crypto.Service
	store  *vault.Store
}

// Close releases the vault database handle.
func (v *vaultContext) Close() {
	if v.store != nil {
		if err := v.store.Close(); err != nil {
			Logger.Warnf("Failed to close vault: %v", err)
		}
	}
}

// openVault loads the project settings and config, resolves the master key,
// constructs the crypto service, and opens the vault store. Callers must
// Close the returned context. Commands that only need the service and not
// the store should still go through here: the config carries the vault UUID
// the key resolution depends on.
func openVault() (*vaultContext, error) {
	if err := configs.InitProjectSettings(); err != nil {
		return nil, fmt.Errorf("failed to init project settings: %w", err)
	}
	if configs.ProjectSealboxSettings.ProjectPath == "" {
		return nil, serrors.ErrVaultNotInitialized
	}

	config, err := configs.LoadProjectConfig()
	if err != nil {
		return nil, err
	}

	if config.Vault.KeySource == configs.KeySourceFile && config.Vault.KeyFile != "" {
		if info, err := os.Stat(config.Vault.KeyFile); err == nil && info.Mode().Perm()&0077 != 0 {
			Logger.WarnfAlways("Master key file %s has mode %o; tighten it to 0600", config.Vault.KeyFile, info.Mode().Perm())
		}
	}

	masterKey, err := configs.ResolveMasterKey(config)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(masterKey)

	svc, err := crypto.NewService(masterKey)
	if err != nil {
		return nil, err
	}

	store, err := vault.Open(configs.ProjectSealboxSettings.ProjectVaultPath)
	if err != nil {
		return nil, err
	}

	return &vaultContext{config: config, svc: svc, store: store}, nil
}
