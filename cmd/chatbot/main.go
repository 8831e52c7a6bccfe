// Command chatbot serves and queries the movie / TV show recommendation
// chatbot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ahmadluay9/movie-recommendation-chatbot/config"
	"github.com/ahmadluay9/movie-recommendation-chatbot/internal/logging"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "chatbot",
	Short:         "Movie / TV show recommendation chatbot",
	Long:          `Recommends movies in theaters and shows airing today by answering free-text questions against the current TMDB listings.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			if err := os.Setenv(config.PathEnvVar, configPath); err != nil {
				return err
			}
		}
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Init(cfg.Logging)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default config.yaml, or $CONFIG_PATH)")
	rootCmd.AddCommand(serveCmd, fetchCmd, chatCmd, cacheCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
