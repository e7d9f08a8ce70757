package relay

import (
	"time"

	"github.com/google/uuid"
)

// Event names on the wire. Client-to-server events arrive through the hub
// dispatcher; server-to-client events are queued on client send buffers.
const (
	EventPresenceJoin = "presence:join"
	EventPrefsSet     = "prefs:set"
	EventMessageSend  = "message:send"

	EventPresenceState = "presence:state"
	EventPrefsSync     = "prefs:sync"
	EventMessageNew    = "message:new"
)

// Message is one send event. It is immutable once constructed; recipients
// receive per-recipient renderings, never the record itself.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	OriginalText   string
	OriginalLang   string
	CreatedAt      time.Time
}

// NewMessage constructs a message with a fresh id and the current time.
func NewMessage(conversationID, senderID, text, lang string) *Message {
	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		OriginalText:   text,
		OriginalLang:   lang,
		CreatedAt:      time.Now().UTC(),
	}
}

// RenderFor produces the payload delivered to one recipient. All renderings
// of a message share its id; rendered_for and text distinguish the copies.
func (m *Message) RenderFor(recipientID, text string) map[string]interface{} {
	return map[string]interface{}{
		"id":             m.ID,
		"conversationId": m.ConversationID,
		"senderId":       m.SenderID,
		"original_text":  m.OriginalText,
		"original_lang":  m.OriginalLang,
		"created_at":     m.CreatedAt.Format(time.RFC3339),
		"rendered_for":   recipientID,
		"text":           text,
	}
}
