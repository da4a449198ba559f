package conversation

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single conversation turn, immutable once appended.
type Message struct {
	Role    string
	Content string
}
