package websocket

// Message is the JSON envelope exchanged over a connection. Type carries the
// event name (e.g. "message:send", "presence:state"); Data holds the
// event-specific payload.
type Message struct {
	Type           string                 `json:"type"`
	ConversationID string                 `json:"conversationId,omitempty"`
	UserID         string                 `json:"userId,omitempty"`
	Data           map[string]interface{} `json:"data,omitempty"`
}
