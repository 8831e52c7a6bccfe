package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmadluay9/movie-recommendation-chatbot/services/index"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the embedding cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached embedding vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		embedder, err := index.NewEmbedder(cmd.Context(), cfg.Index, cfg.LLM)
		if err != nil {
			return err
		}
		cleared, err := index.ClearCache(embedder)
		if err != nil {
			return err
		}
		if !cleared {
			fmt.Fprintf(cmd.OutOrStdout(), "embedder %s does not use a cache\n", embedder.Name())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared embedding cache in %s\n", cfg.Index.CacheDir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}
