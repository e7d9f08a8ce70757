package relay

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/richxcame/chat-relay/internal/language"
	"github.com/richxcame/chat-relay/internal/preferences"
	"github.com/richxcame/chat-relay/internal/translation"
	ws "github.com/richxcame/chat-relay/pkg/websocket"
)

// Service implements the relay's event semantics on top of the hub: joining
// conversations, storing per-peer translation preferences, and fanning
// messages out with one rendered copy per recipient.
type Service struct {
	hub        *ws.Hub
	prefs      preferences.Store
	translator translation.Translator
	detector   language.Detector
	logger     *zap.Logger
}

// NewService wires the relay handlers into the hub. The hub dispatches
// presence:join, prefs:set and message:send to the service; disconnects
// trigger a presence re-broadcast for every conversation the client was in.
func NewService(hub *ws.Hub, prefs preferences.Store, translator translation.Translator, detector language.Detector, logger *zap.Logger) *Service {
	s := &Service{
		hub:        hub,
		prefs:      prefs,
		translator: translator,
		detector:   detector,
		logger:     logger,
	}

	hub.RegisterHandler(EventPresenceJoin, s.handleJoin)
	hub.RegisterHandler(EventPrefsSet, s.handleSetPrefs)
	hub.RegisterHandler(EventMessageSend, s.handleSend)
	hub.OnDisconnect(s.handleDisconnect)

	return s
}

// handleJoin adds the connection to a conversation and re-broadcasts
// presence. Requests without a conversation id are dropped silently.
func (s *Service) handleJoin(client *ws.Client, msg *ws.Message) {
	conversationID := msg.ConversationID
	if conversationID == "" {
		conversationID = stringField(msg.Data, "conversationId")
	}
	if conversationID == "" {
		return
	}

	s.hub.AddClientToConversation(client.ID, conversationID)

	s.logger.Info("user joined conversation",
		zap.String("user_id", client.UserID),
		zap.String("conversation_id", conversationID),
	)

	s.broadcastPresence(conversationID)
}

// handleSetPrefs upserts the sender's preference toward a peer and echoes
// the stored value back to the setter only.
func (s *Service) handleSetPrefs(client *ws.Client, msg *ws.Message) {
	peerID := stringField(msg.Data, "peerId")
	if peerID == "" {
		return
	}

	autoTranslate := boolField(msg.Data, "autoTranslate")
	targetLang := stringField(msg.Data, "targetLang")

	stored, err := s.prefs.Set(context.Background(), client.UserID, peerID, autoTranslate, targetLang)
	if err != nil {
		s.logger.Error("failed to store preference",
			zap.String("viewer", client.UserID),
			zap.String("peer", peerID),
			zap.Error(err),
		)
		return
	}

	prefsUpdatesTotal.Inc()

	client.SendMessage(&ws.Message{
		Type: EventPrefsSync,
		Data: map[string]interface{}{
			"peerId":        peerID,
			"autoTranslate": stored.AutoTranslate,
			"targetLang":    stored.TargetLang,
		},
	})
}

// handleSend runs the fan-out: one goroutine per recipient resolves that
// recipient's preference toward the sender, conditionally translates, and
// queues a rendered copy. A failure for one recipient never blocks the rest.
func (s *Service) handleSend(client *ws.Client, msg *ws.Message) {
	conversationID := msg.ConversationID
	if conversationID == "" {
		conversationID = stringField(msg.Data, "conversationId")
	}
	text := stringField(msg.Data, "text")
	if conversationID == "" || text == "" {
		return
	}

	members := s.hub.GetClientsInConversation(conversationID)
	if len(members) == 0 {
		return
	}

	originalLang := stringField(msg.Data, "sourceLang")
	if originalLang == "" {
		originalLang = s.detector.Detect(text)
	}

	message := NewMessage(conversationID, client.UserID, text, originalLang)
	messagesRelayedTotal.Inc()

	var wg sync.WaitGroup
	for _, recipient := range members {
		wg.Add(1)
		go func(recipient *ws.Client) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("delivery panic",
						zap.String("message_id", message.ID),
						zap.Any("panic", r),
					)
				}
			}()
			s.deliverTo(recipient, message)
		}(recipient)
	}
	wg.Wait()
}

// deliverTo renders the message for one recipient and queues it. Recipients
// that lost their session are skipped.
func (s *Service) deliverTo(recipient *ws.Client, message *Message) {
	if recipient.UserID == "" {
		deliveriesTotal.WithLabelValues("skipped").Inc()
		return
	}

	outText := message.OriginalText

	pref, err := s.prefs.Get(context.Background(), recipient.UserID, message.SenderID)
	if err != nil {
		s.logger.Warn("preference lookup failed, using default",
			zap.String("viewer", recipient.UserID),
			zap.String("peer", message.SenderID),
			zap.Error(err),
		)
		pref = preferences.DefaultPreference()
	}

	if pref.AutoTranslate {
		translated, err := s.translator.Translate(context.Background(), message.OriginalText, message.OriginalLang, pref.TargetLang)
		if err != nil {
			translationsTotal.WithLabelValues("failed").Inc()
			s.logger.Warn("translation failed, delivering original text",
				zap.String("message_id", message.ID),
				zap.String("target", pref.TargetLang),
				zap.Error(err),
			)
		} else {
			if translated != message.OriginalText {
				translationsTotal.WithLabelValues("translated").Inc()
			} else {
				translationsTotal.WithLabelValues("passthrough").Inc()
			}
			outText = translated
		}
	} else {
		translationsTotal.WithLabelValues("passthrough").Inc()
	}

	delivered := recipient.SendMessage(&ws.Message{
		Type:           EventMessageNew,
		ConversationID: message.ConversationID,
		Data:           message.RenderFor(recipient.UserID, outText),
	})
	if delivered {
		deliveriesTotal.WithLabelValues("delivered").Inc()
	} else {
		deliveriesTotal.WithLabelValues("dropped").Inc()
	}
}

// handleDisconnect re-broadcasts presence for every conversation the client
// belonged to.
func (s *Service) handleDisconnect(client *ws.Client, conversations []string) {
	connectedClients.Dec()

	for _, conversationID := range conversations {
		s.broadcastPresence(conversationID)
	}

	s.logger.Info("client disconnected",
		zap.String("user_id", client.UserID),
		zap.Int("conversations", len(conversations)),
	)
}

// broadcastPresence sends the current member user ids to everyone in the
// conversation. Connections without a resolved user are left out.
func (s *Service) broadcastPresence(conversationID string) {
	members := s.hub.GetClientsInConversation(conversationID)

	usersOnline := make([]string, 0, len(members))
	for _, member := range members {
		if member.UserID != "" {
			usersOnline = append(usersOnline, member.UserID)
		}
	}

	s.hub.SendToConversation(conversationID, &ws.Message{
		Type:           EventPresenceState,
		ConversationID: conversationID,
		Data: map[string]interface{}{
			"usersOnline": usersOnline,
		},
	})
}

func stringField(data map[string]interface{}, key string) string {
	if data == nil {
		return ""
	}
	value, _ := data[key].(string)
	return value
}

// boolField coerces a payload value to a boolean the way a loose client
// would expect: false, 0, "" and absent values are false, everything else
// is true.
func boolField(data map[string]interface{}, key string) bool {
	if data == nil {
		return false
	}
	switch value := data[key].(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value != ""
	case nil:
		return false
	default:
		return true
	}
}
