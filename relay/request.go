package relay

// Message roles understood by the upstream chat API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a chat request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the body accepted by the relay and forwarded upstream unchanged.
type Request struct {
	Model         string    `json:"model"`
	Messages      []Message `json:"messages"`
	Temperature   float64   `json:"temperature"`
	CourseName    string    `json:"course_name"`
	Stream        bool      `json:"stream"`
	APIKey        string    `json:"api_key"`
	RetrievalOnly bool      `json:"retrieval_only"`
}

// HasCredential reports whether both the namespace and the key are present.
func (r Request) HasCredential() bool {
	return r.CourseName != "" && r.APIKey != ""
}
