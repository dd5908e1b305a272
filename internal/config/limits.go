package config

// Input limits enforced at the service layer.
const (
	// MaxMessageLength caps a single chat message's content.
	MaxMessageLength = 32_000

	// MaxConversationTitleLength caps explicit conversation titles.
	MaxConversationTitleLength = 255

	// TitleSnippetLength is how many characters of the first user message
	// become the conversation title (before the ellipsis marker).
	TitleSnippetLength = 50
)
