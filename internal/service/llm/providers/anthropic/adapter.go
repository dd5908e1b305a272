package anthropic

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	domainllm "chathistory/internal/domain/services/llm"
)

// convertToAnthropicMessages converts domain messages to Anthropic SDK
// format, preserving order exactly.
func convertToAnthropicMessages(messages []domainllm.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for i, msg := range messages {
		block := anthropic.NewTextBlock(msg.Text)

		switch msg.Role {
		case "user":
			result = append(result, anthropic.NewUserMessage(block))
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(block))
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, nil
}

// extractResponseText concatenates the text blocks of an Anthropic
// response.
func extractResponseText(msg *anthropic.Message) string {
	var out string
	for _, content := range msg.Content {
		if content.Type == "text" {
			out += content.Text
		}
	}
	return out
}
