package cmd

import (
	"os"

	"github.com/bodyfit-ai/bodyfit/internal/config"
	"github.com/bodyfit-ai/bodyfit/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions is shared by every subcommand once PersistentPreRunE has run
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	cfg        config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.Default()}

	cmd := &cobra.Command{
		Use:   "bodyfit",
		Short: "AI body measurement demo with size recommendations",
		Long: `BodyFit AI serves a small web app where visitors upload a full-body photo,
run a (simulated) body measurement analysis and get clothing size
recommendations across common brands.

Settings come from defaults, an optional YAML file (--config), BODYFIT_*
environment variables (a .env file is loaded if present) and flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = opts.logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = opts.logFormat
			}
			opts.cfg = cfg

			return logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text or json)")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSizesCmd(opts))

	return cmd
}
