package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmadluay9/movie-recommendation-chatbot/handlers"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chatbot version %s\n", handlers.BuildVersion())
	},
}
