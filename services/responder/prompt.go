package responder

import (
	"strings"

	"github.com/ahmadluay9/movie-recommendation-chatbot/models"
)

// promptTemplate is sent verbatim with the three placeholders filled in.
const promptTemplate = `You are a movie recommender system.
From the following context and chat history about movies or TV shows, help users to find movie or tv shows that match their preferences.
For example, if the user requests a Movie/ TV show recommendation, recommend only 1 newly released or aired movie / tv shows with the following format:
Here are our recommendation:
1.  - Title:
    - Release Date / First Aired:
    - Genre:
    - Popularity:
    - Overview:
    - Poster Path:

You shouldn't change the language of the question, just reformulate it. If it is not needed to reformulate the question or it is not a question, just output the same text.

{context}

{chat_history}

Last Message: {question}
Your Response: `

// renderPrompt fills the template in a single pass, so placeholder-looking
// text inside the values is left alone.
func renderPrompt(context, history, question string) string {
	return strings.NewReplacer(
		"{context}", context,
		"{chat_history}", history,
		"{question}", question,
	).Replace(promptTemplate)
}

// formatHistory renders prior turns one per line as "Human: ..." and
// "AI: ...".
func formatHistory(history []models.ChatMessage) string {
	var b strings.Builder
	for _, msg := range history {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString("Human: ")
		case models.RoleAssistant:
			b.WriteString("AI: ")
		default:
			continue
		}
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
