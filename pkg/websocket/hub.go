package websocket

import (
	"sync"

	"go.uber.org/zap"
)

// MessageHandler processes one inbound message from a client.
type MessageHandler func(client *Client, msg *Message)

// DisconnectFunc is invoked after a client has been unregistered, with the
// conversations the client was removed from.
type DisconnectFunc func(client *Client, conversations []string)

// Hub tracks connected clients and conversation membership, and dispatches
// inbound messages to registered handlers. Registration runs through the Run
// loop; all maps are guarded for concurrent reads.
type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan *Message

	mu            sync.RWMutex
	clients       map[string]*Client            // connection id -> client
	conversations map[string]map[string]*Client // conversation id -> members by connection id
	memberships   map[string]map[string]bool    // connection id -> conversation ids

	handlers     map[string]MessageHandler
	onDisconnect DisconnectFunc
	logger       *zap.Logger
}

// NewHub creates a hub ready to Run.
func NewHub() *Hub {
	return &Hub{
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		Broadcast:     make(chan *Message, 256),
		clients:       make(map[string]*Client),
		conversations: make(map[string]map[string]*Client),
		memberships:   make(map[string]map[string]bool),
		handlers:      make(map[string]MessageHandler),
		logger:        zap.NewNop(),
	}
}

// SetLogger replaces the hub's logger. Call before Run.
func (h *Hub) SetLogger(logger *zap.Logger) {
	h.logger = logger
}

// OnDisconnect sets the callback invoked after a client is unregistered.
// Call before Run.
func (h *Hub) OnDisconnect(fn DisconnectFunc) {
	h.onDisconnect = fn
}

// Run processes register/unregister/broadcast events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Debug("client registered",
				zap.String("client_id", client.ID),
				zap.String("user_id", client.UserID),
			)

		case client := <-h.Unregister:
			affected := h.removeClient(client)
			if h.onDisconnect != nil {
				h.onDisconnect(client, affected)
			}

		case msg := <-h.Broadcast:
			if msg.ConversationID != "" {
				h.SendToConversation(msg.ConversationID, msg)
			} else {
				h.SendToAll(msg)
			}
		}
	}
}

// removeClient takes the client out of every conversation it belongs to and
// closes its send channel. Returns the affected conversation ids.
func (h *Hub) removeClient(client *Client) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return nil
	}

	var affected []string
	for convID := range h.memberships[client.ID] {
		delete(h.conversations[convID], client.ID)
		if len(h.conversations[convID]) == 0 {
			delete(h.conversations, convID)
		}
		affected = append(affected, convID)
	}
	delete(h.memberships, client.ID)
	delete(h.clients, client.ID)
	client.closeSend()

	return affected
}

// RegisterHandler binds a handler to an event type.
func (h *Hub) RegisterHandler(msgType string, handler MessageHandler) {
	h.handlers[msgType] = handler
}

// HandleMessage dispatches an inbound message to its handler. Unknown event
// types are ignored.
func (h *Hub) HandleMessage(client *Client, msg *Message) {
	handler, ok := h.handlers[msg.Type]
	if !ok {
		h.logger.Debug("no handler for message type",
			zap.String("type", msg.Type),
			zap.String("user_id", client.UserID),
		)
		return
	}
	handler(client, msg)
}

// AddClientToConversation adds a registered client to a conversation,
// creating the conversation when it does not exist yet.
func (h *Hub) AddClientToConversation(clientID, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[clientID]
	if !ok {
		return
	}

	if h.conversations[conversationID] == nil {
		h.conversations[conversationID] = make(map[string]*Client)
	}
	h.conversations[conversationID][clientID] = client

	if h.memberships[clientID] == nil {
		h.memberships[clientID] = make(map[string]bool)
	}
	h.memberships[clientID][conversationID] = true
}

// RemoveClientFromConversation removes a client from one conversation. Empty
// conversations are dropped.
func (h *Hub) RemoveClientFromConversation(clientID, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conversations[conversationID], clientID)
	if len(h.conversations[conversationID]) == 0 {
		delete(h.conversations, conversationID)
	}
	delete(h.memberships[clientID], conversationID)
}

// GetClient returns a client by connection id.
func (h *Hub) GetClient(clientID string) (*Client, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[clientID]
	return client, ok
}

// GetClientsInConversation returns a snapshot of the conversation's members.
// Unknown conversations yield an empty slice.
func (h *Hub) GetClientsInConversation(conversationID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.conversations[conversationID]
	snapshot := make([]*Client, 0, len(members))
	for _, client := range members {
		snapshot = append(snapshot, client)
	}
	return snapshot
}

// ConversationsOf returns the conversations a client currently belongs to.
func (h *Hub) ConversationsOf(clientID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.memberships[clientID]))
	for convID := range h.memberships[clientID] {
		ids = append(ids, convID)
	}
	return ids
}

// SendToUser queues a message for every connection of the given user.
func (h *Hub) SendToUser(userID string, msg *Message) {
	h.mu.RLock()
	var targets []*Client
	for _, client := range h.clients {
		if client.UserID == userID {
			targets = append(targets, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.SendMessage(msg)
	}
}

// SendToConversation queues a message for every member of a conversation.
func (h *Hub) SendToConversation(conversationID string, msg *Message) {
	for _, client := range h.GetClientsInConversation(conversationID) {
		client.SendMessage(msg)
	}
}

// SendToAll queues a message for every connected client.
func (h *Hub) SendToAll(msg *Message) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.SendMessage(msg)
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetConversationCount returns the number of conversations with at least one
// member.
func (h *Hub) GetConversationCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conversations)
}
