package discord

import (
	"unicode/utf8"

	"github.com/goccy/go-json"
)

type InteractionType int

const (
	InteractionPing               InteractionType = 1
	InteractionApplicationCommand InteractionType = 2
)

type ResponseType int

const (
	ResponsePong                     ResponseType = 1
	ResponseChannelMessageWithSource ResponseType = 4
)

// MaxContentLength is Discord's limit for a message body.
const MaxContentLength = 2000

type Interaction struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Type          InteractionType `json:"type"`
	Data          *CommandData    `json:"data,omitempty"`
	GuildID       string          `json:"guild_id,omitempty"`
	ChannelID     string          `json:"channel_id,omitempty"`
	Member        *Member         `json:"member,omitempty"`
}

type CommandData struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Type    int      `json:"type"`
	Options []Option `json:"options,omitempty"`
}

type Option struct {
	Name  string          `json:"name"`
	Type  int             `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type Member struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

type Response struct {
	Type ResponseType  `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

type ResponseData struct {
	Content string `json:"content"`
	Flags   int    `json:"flags"`
}

func Pong() Response {
	return Response{Type: ResponsePong}
}

// Message replies in the channel the command was used in. Content past
// Discord's limit is cut.
func Message(content string) Response {
	if len(content) > MaxContentLength {
		content = truncate(content, MaxContentLength)
	}
	return Response{
		Type: ResponseChannelMessageWithSource,
		Data: &ResponseData{Content: content},
	}
}

func truncate(s string, limit int) string {
	const ellipsis = "…"
	cut := limit - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
