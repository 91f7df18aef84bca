package cmd

import (
	"fmt"

	"github.com/sealbox-dev/sealbox/internal/configs"
	logger "github.com/sealbox-dev/sealbox/internal/logging"
	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the sealbox configuration",
	Long:  `Shows the resolved project configuration and paths.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
	},
}

func init() {
	ConfigCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	ConfigCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	ConfigCmd.AddCommand(configShowCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows the project configuration and paths",
	Long: `Prints the project paths and the contents of .sealbox/config.toml.

Secret material is never shown; only where the master key lives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")

		if err := configs.InitProjectSettings(); err != nil {
			fmt.Println(ui.Error.Sprint("✗") + " Failed to load project settings: " + err.Error())
			return nil
		}

		settings := configs.ProjectSealboxSettings
		if settings.ProjectPath == "" {
			fmt.Println(color.RedString("✗") + " No sealbox project found in this directory or any parent")
			fmt.Println(color.CyanString("→") + " Run " + ui.Code.Sprint("sealbox vault init") + " to create one")
			return nil
		}

		config, err := configs.LoadProjectConfig()
		if err != nil {
			fmt.Println(ui.Error.Sprint("✗") + " Failed to load project config: " + err.Error())
			return nil
		}

		fmt.Println(ui.Highlight.Sprint(settings.ProjectName))
		fmt.Println("  Project root: " + ui.Path.Sprint(settings.ProjectPath))
		fmt.Println("  Config:       " + ui.Path.Sprint(settings.ProjectConfigPath))
		fmt.Println("  Vault:        " + ui.Path.Sprint(settings.ProjectVaultPath))
		fmt.Println("  Audit log:    " + ui.Path.Sprint(settings.ProjectAuditPath))
		fmt.Println()
		fmt.Println("  Vault name:   " + config.Vault.Name)
		fmt.Println("  Vault UUID:   " + ui.Muted.Sprint(config.Vault.UUID))
		fmt.Println("  Key source:   " + config.Vault.KeySource)
		if config.Vault.KeySource == configs.KeySourceFile {
			fmt.Println("  Key file:     " + ui.Path.Sprint(config.Vault.KeyFile))
		}
		if !config.Vault.CreatedAt.IsZero() {
			fmt.Println("  Created:      " + ui.Muted.Sprint(config.Vault.CreatedAt.Format("2006-01-02 15:04:05")))
		}
		return nil
	},
}
