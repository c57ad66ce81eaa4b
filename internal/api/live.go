package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/terra-clan/challenge-hub/internal/challenge"
	"github.com/terra-clan/challenge-hub/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveMessage is the event pushed over the announcement feed
type LiveMessage struct {
	Type         string               `json:"type"`
	ChallengeID  string               `json:"challengeId,omitempty"`
	Announcement *models.Announcement `json:"announcement,omitempty"`
	Data         string               `json:"data,omitempty"`
}

// liveHub fans announcement events out to websocket subscribers per
// challenge. Slow subscribers are dropped rather than blocking the engine.
type liveHub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan LiveMessage]struct{}
}

func newLiveHub() *liveHub {
	return &liveHub{
		subscribers: make(map[string]map[chan LiveMessage]struct{}),
	}
}

func (h *liveHub) Subscribe(challengeID string) chan LiveMessage {
	ch := make(chan LiveMessage, 16)

	h.mu.Lock()
	if h.subscribers[challengeID] == nil {
		h.subscribers[challengeID] = make(map[chan LiveMessage]struct{})
	}
	h.subscribers[challengeID][ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

func (h *liveHub) Unsubscribe(challengeID string, ch chan LiveMessage) {
	h.mu.Lock()
	if subs := h.subscribers[challengeID]; subs != nil {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.subscribers, challengeID)
		}
	}
	h.mu.Unlock()
}

// Broadcast delivers an announcement to all subscribers of its challenge.
// It satisfies challenge.AnnouncementListener.
func (h *liveHub) Broadcast(challengeID string, a models.Announcement) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := LiveMessage{
		Type:         "announcement",
		ChallengeID:  challengeID,
		Announcement: &a,
	}

	for ch := range h.subscribers[challengeID] {
		select {
		case ch <- msg:
		default:
			slog.Warn("dropping live event for slow subscriber", "challenge_id", challengeID)
		}
	}
}

// handleChallengeLiveWS streams announcement events for a challenge over a
// websocket. The token may arrive in the usual headers or, because browser
// websocket clients cannot set headers, in a token query parameter.
func (s *Server) handleChallengeLiveWS(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "id")
	if challengeID == "" {
		http.Error(w, "challenge id required", http.StatusBadRequest)
		return
	}

	token := extractToken(r)
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		http.Error(w, "authentication token required", http.StatusUnauthorized)
		return
	}

	userID, err := s.tokens.Verify(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	if _, err := s.engine.Get(r.Context(), challengeID); err != nil {
		if errors.Is(err, challenge.ErrNotFound) {
			http.Error(w, "challenge not found", http.StatusNotFound)
			return
		}
		slog.Error("failed to get challenge", "error", err, "id", challengeID)
		http.Error(w, "failed to get challenge", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("live feed connected", "challenge_id", challengeID, "user_id", userID)

	events := s.hub.Subscribe(challengeID)
	defer s.hub.Unsubscribe(challengeID, events)

	if err := sendLiveMessage(conn, LiveMessage{
		Type: "connected",
		Data: "subscribed to challenge announcements",
	}); err != nil {
		return
	}

	// Reader goroutine detects client disconnect; inbound payloads are
	// ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			slog.Info("live feed disconnected", "challenge_id", challengeID, "user_id", userID)
			return
		case msg := <-events:
			if err := sendLiveMessage(conn, msg); err != nil {
				return
			}
		}
	}
}

func sendLiveMessage(conn *websocket.Conn, msg LiveMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal live message", "error", err)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send live message", "error", err)
		return err
	}
	return nil
}
