package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/challenge-hub/internal/models"
)

func dialLive(t *testing.T, env *testEnv, challengeID, token string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(env.ts.URL, "http://", "ws://", 1) +
		"/api/challenges/" + challengeID + "/live?token=" + token

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readLive(t *testing.T, conn *websocket.Conn) LiveMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg LiveMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestLiveAnnouncementFeed(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	var created models.Challenge
	status, _ := env.do(t, "POST", "/api/challenges", alice, createPayload(), &created)
	require.Equal(t, http.StatusOK, status)

	conn := dialLive(t, env, created.ID, bob)

	hello := readLive(t, conn)
	assert.Equal(t, "connected", hello.Type)

	status, _ = env.do(t, "POST", "/api/challenges/"+created.ID+"/announcements", alice,
		models.AnnouncementRequest{Title: "Kickoff", Content: "We are live"}, nil)
	require.Equal(t, http.StatusOK, status)

	event := readLive(t, conn)
	assert.Equal(t, "announcement", event.Type)
	assert.Equal(t, created.ID, event.ChallengeID)
	require.NotNil(t, event.Announcement)
	assert.Equal(t, "Kickoff", event.Announcement.Title)
}

func TestLiveFeedAuth(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.register(t, "Alice", "alice@example.com")

	var created models.Challenge
	status, _ := env.do(t, "POST", "/api/challenges", alice, createPayload(), &created)
	require.Equal(t, http.StatusOK, status)

	wsBase := strings.Replace(env.ts.URL, "http://", "ws://", 1)

	t.Run("MissingToken", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsBase+"/api/challenges/"+created.ID+"/live", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("BadToken", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsBase+"/api/challenges/"+created.ID+"/live?token=cht_bogus", nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("UnknownChallenge", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsBase+"/api/challenges/no-such-id/live?token="+alice, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
