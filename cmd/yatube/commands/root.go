package commands

import (
	"fmt"
	"os"

	"yatube/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const AppVersion = "1.0.0"

var (
	// Global flags
	debug      bool
	jsonOutput bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yatube",
	Short: "Yatube - a small blogging and social network",
	Long: `Yatube lets people publish posts, gather them into groups,
comment on each other's work, follow authors and like posts.

Configuration is read from .env, settings.toml and YATUBE_* environment variables.`,
	Version:       AppVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("debug") {
			loaded.Debug = debug
		}
		cfg = loaded

		if jsonOutput {
			log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		}
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if cfg.Debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Verbose logging and gin debug mode")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json-log", false, "Log JSON lines instead of console output")
}
