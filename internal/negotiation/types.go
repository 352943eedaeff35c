package negotiation

// Role identifies who authored a message in a negotiation conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles accepted by the chat service.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message is a single role-tagged turn of the conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Context describes the product being negotiated over.
// Values are taken as supplied; a negative or zero price is not rejected.
type Context struct {
	ProductID   string
	ProductName string
	ListPrice   float64
}
