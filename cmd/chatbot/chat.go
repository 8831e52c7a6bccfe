package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat <movie|tv>",
	Short: "Ask for recommendations interactively",
	Long:  `Reads one question per line and prints the recommendation with poster links. An empty line or "exit" ends the session.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "resume an earlier session id")
}

func runChat(cmd *cobra.Command, args []string) error {
	app, err := newApplication(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	out := cmd.OutOrStdout()
	session := chatSession
	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" || question == "exit" || question == "quit" {
			return nil
		}

		result, err := app.recommend.Recommend(cmd.Context(), models.RecommendRequest{
			User:      args[0],
			Query:     question,
			SessionID: session,
		})
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		session = result.SessionID

		fmt.Fprintln(out, result.Result)
		for _, u := range result.PosterURLs {
			fmt.Fprintln(out, "poster:", u)
		}
		fmt.Fprintln(out)
	}
}
