package discord

// WebhookMessage is the payload accepted by a Discord webhook.
type WebhookMessage struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

// Embed is a rich message block.
type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Embed colors used for review activity.
const (
	ColorGreen  = 0x2ecc71 // addition
	ColorOrange = 0xe67e22 // modification
	ColorRed    = 0xe74c3c // deletion
)
