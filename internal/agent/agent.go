// Package agent turns a transcript plus an extracted moment into a
// structured calendar action by way of a text-generation round trip.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go/v3"
)

const instructionTemplate = `
You are a helpful calendar assistant that can process voice commands in Hindi and English.
You can understand and extract date/time information from natural language.

Examples:
- "I have a meeting tomorrow at 3 PM"
- "Mujhe kal subah 10 baje doctor appointment set karna hai"

Extract the following information:
1. Event type (meeting, appointment, etc.)
2. Date and time (in ISO format)
3. Any additional details
`

// Interpreter delegates to a chat-completion model and classifies the
// free-text reply with the rule tables in rules.go. The completion call is
// blocking and can take seconds.
type Interpreter struct {
	client openai.Client
	model  openai.ChatModel
	logger *slog.Logger
}

func New(client openai.Client, model string, logger *slog.Logger) *Interpreter {
	m := openai.ChatModel(model)
	if m == "" {
		m = openai.ChatModelGPT5Nano
	}
	return &Interpreter{client: client, model: m, logger: logger}
}

// Interpret builds the prompt for one command and classifies the generated
// reply. Callers must short-circuit before calling when no moment was
// extracted; moment is assumed to be set.
func (i *Interpreter) Interpret(ctx context.Context, command string, moment time.Time) (Action, error) {
	resp, err := i.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instructionTemplate),
			openai.UserMessage(buildPrompt(command, moment)),
		},
		Model: i.model,
	})
	if err != nil {
		return Action{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Action{}, errors.New("no choices in response")
	}

	reply := resp.Choices[0].Message.Content
	if reply == "" {
		return Action{}, errors.New("empty message content")
	}
	i.logger.Debug("generated reply", "reply", reply)

	return Classify(reply, moment), nil
}

func buildPrompt(command string, moment time.Time) string {
	return fmt.Sprintf("Command: %s\nParsed Date: %s", command, moment.Format(time.RFC3339))
}
