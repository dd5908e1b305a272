package gemini

import (
	"fmt"

	"google.golang.org/genai"

	domainllm "chathistory/internal/domain/services/llm"
)

// geminiRoles is the explicit mapping from the stored role vocabulary to
// Gemini's. The assistant side is called "model" in the Gemini API.
// Content.Role is a plain string in the SDK, so the constants are converted.
var geminiRoles = map[string]string{
	"user":      string(genai.RoleUser),
	"assistant": string(genai.RoleModel),
}

// convertToGenaiContents converts domain messages to the Gemini SDK format,
// preserving order exactly.
func convertToGenaiContents(messages []domainllm.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))

	for i, msg := range messages {
		role, ok := geminiRoles[msg.Role]
		if !ok {
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}

		contents = append(contents, &genai.Content{
			Role: role,
			Parts: []*genai.Part{
				{Text: msg.Text},
			},
		})
	}

	return contents, nil
}
