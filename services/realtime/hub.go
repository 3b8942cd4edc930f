package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"choreify/models"
	"choreify/services/identity"

	"github.com/olahol/melody"
	"go.uber.org/zap"
)

const (
	keySessionID = "session_id"
	keySnapshot  = "snapshot"
)

// EventInitialSession is the first message on a new connection.
const EventInitialSession = "INITIAL_SESSION"

// Message is the JSON pushed to browsers when their auth state changes.
type Message struct {
	Type    string              `json:"type"`
	Session *models.SessionView `json:"session"`
}

// Hub pushes session changes to the websocket connections of that session.
type Hub struct {
	m      *melody.Melody
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 512
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &Hub{m: m, logger: logger}

	m.HandleConnect(func(s *melody.Session) {
		sendSnapshot(s, logger)
		id, _ := s.Get(keySessionID)
		logger.Debug("Session feed connected", zap.Any("sessionID", id))
	})
	m.HandleDisconnect(func(s *melody.Session) {
		id, _ := s.Get(keySessionID)
		logger.Debug("Session feed disconnected", zap.Any("sessionID", id))
	})
	m.HandleError(func(s *melody.Session, err error) {
		logger.Warn("Session feed error", zap.Error(err))
	})

	return h
}

// conn is the part of a melody session the connect handler uses.
type conn interface {
	Get(key string) (interface{}, bool)
	Write(msg []byte) error
}

func sendSnapshot(c conn, logger *zap.Logger) {
	snap, ok := c.Get(keySnapshot)
	if !ok {
		return
	}
	data, ok := snap.([]byte)
	if !ok {
		return
	}
	if err := c.Write(data); err != nil {
		logger.Warn("Failed to send initial session", zap.Error(err))
	}
}

// Serve upgrades the request and sends current as the initial state. Only
// a resolved session is subscribed to later events; a nil current gets the
// snapshot and nothing else.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, current *models.Session) error {
	snapshot, err := encode(EventInitialSession, current)
	if err != nil {
		return err
	}
	keys := map[string]interface{}{keySnapshot: snapshot}
	if current != nil && current.ID != "" {
		keys[keySessionID] = current.ID
	}
	return h.m.HandleRequestWithKeys(w, r, keys)
}

// Publish forwards an applied auth event to the connections of its session.
// It has the shape of a session.Listener.
func (h *Hub) Publish(ev identity.Event, s *models.Session) {
	if ev.SessionID == "" {
		return
	}
	msg, err := encode(string(ev.Type), s)
	if err != nil {
		h.logger.Error("Failed to encode session event", zap.Error(err))
		return
	}
	err = h.m.BroadcastFilter(msg, func(q *melody.Session) bool {
		id, exists := q.Get(keySessionID)
		return exists && id == ev.SessionID
	})
	if err != nil {
		h.logger.Warn("Failed to broadcast session event", zap.String("sessionID", ev.SessionID), zap.Error(err))
	}
}

// Close disconnects every client.
func (h *Hub) Close() error {
	return h.m.Close()
}

func encode(eventType string, s *models.Session) ([]byte, error) {
	msg := Message{Type: eventType}
	if s != nil {
		view := s.View()
		msg.Session = &view
	}
	return json.Marshal(msg)
}
