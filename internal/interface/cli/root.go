package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/app/config"
	infraConfig "github.com/EffortlessMetrics/flow-studio-dev-sub002/internal/infra/config"
)

// globalConfig holds the loaded configuration for all commands
var globalConfig config.Config

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "swarmlint",
		Short:         "Consistency validator for declarative agent swarm configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load configuration before any command runs
			// Priority: setting.json > defaults
			baseDir := ".swarmlint"
			if home := os.Getenv("SWARMLINT_HOME"); home != "" {
				baseDir = home
			}

			cfg, err := infraConfig.LoadSettings(baseDir)
			if err != nil {
				// Continue with defaults if loading fails
				cfg = config.NewAppConfig(
					".swarmlint", "git", 5,
					false, false,
					"warn",
					"default", "",
				)
			}
			globalConfig = cfg

			InitGlobalLogger(cfg.StderrLevel())
			InitializeLoggers(GetLogger())
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}
