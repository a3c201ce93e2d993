package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type testMessagingSuite struct {
	BaseSuite
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, &testMessagingSuite{})
}

type authResponse struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type conversationView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type messageView struct {
	ID             uint64 `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Content        string `json:"content"`
	ClientID       string `json:"clientId"`
}

func (s *testMessagingSuite) register(name string) authResponse {
	var auth authResponse
	status := s.PostJSON("/v1/auth/register", "", map[string]string{
		"email":    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		"username": name,
		"password": "Str0ng!passw0rd",
	}, &auth)
	s.Require().Equal(http.StatusCreated, status)
	s.Require().NotEmpty(auth.Token)
	return auth
}

func (s *testMessagingSuite) TestFullMessagingFlow() {
	alice := s.register("alice")
	bob := s.register("bob")
	mallory := s.register("mallory")

	var conversation conversationView

	// --- STEP 1: CONVERSATION CREATION ---
	s.Run("Step 1: Alice creates a conversation with Bob", func() {
		s.Step("Create conversation over REST")
		status := s.PostJSON("/v1/conversations", alice.Token, map[string]any{
			"participantUserIds": []string{bob.UserID},
		}, &conversation)
		s.Require().Equal(http.StatusCreated, status)
		s.Require().NotEmpty(conversation.ID)
	})

	// --- STEP 2: LIVE FAN-OUT ---
	s.Run("Step 2: Broadcast reaches Bob and Alice's second device", func() {
		s.Step("Connect three sessions and send one message")
		aliceFirst := s.Dial(alice.Token)
		defer func() { _ = aliceFirst.Close() }()
		aliceSecond := s.Dial(alice.Token)
		defer func() { _ = aliceSecond.Close() }()
		bobConn := s.Dial(bob.Token)
		defer func() { _ = bobConn.Close() }()

		clientID := uuid.NewString()
		s.Require().NoError(aliceFirst.WriteJSON(map[string]any{
			"type": "send_message",
			"payload": map[string]any{
				"conversationId": conversation.ID,
				"content":        "hello bob",
				"clientId":       clientID,
			},
		}))

		for name, conn := range map[string]*websocket.Conn{
			"alice#1": aliceFirst, "alice#2": aliceSecond, "bob": bobConn,
		} {
			frameType, payload := s.ReadFrame(conn, 5*time.Second)
			s.Require().Equal("message", frameType, "session %s", name)
			var view messageView
			s.Require().NoError(json.Unmarshal(payload, &view))
			s.Require().Equal("hello bob", view.Content)
			s.Require().Equal(clientID, view.ClientID)
		}
	})

	// --- STEP 3: REJECTED SEND ---
	s.Run("Step 3: Non-member send is rejected with zero broadcasts", func() {
		s.Step("Mallory tries to post into Alice's conversation")
		malloryConn := s.Dial(mallory.Token)
		defer func() { _ = malloryConn.Close() }()
		bobConn := s.Dial(bob.Token)
		defer func() { _ = bobConn.Close() }()

		s.Require().NoError(malloryConn.WriteJSON(map[string]any{
			"type": "send_message",
			"payload": map[string]any{
				"conversationId": conversation.ID,
				"content":        "let me in",
			},
		}))

		frameType, _ := s.ReadFrame(malloryConn, 5*time.Second)
		s.Require().Equal("error", frameType)

		// Bob must see nothing: the only frame he could get is the next real one.
		s.Require().NoError(bobConn.SetReadDeadline(time.Now().Add(2 * time.Second)))
		var f map[string]json.RawMessage
		s.Require().Error(bobConn.ReadJSON(&f), "Rejected send must not fan out")
	})

	// --- STEP 4: HISTORY ON RECONNECT ---
	s.Run("Step 4: History survives reconnect with ids intact", func() {
		s.Step("Fetch the conversation after all sessions dropped")
		var payload struct {
			Messages []messageView `json:"messages"`
		}
		status := s.GetJSON("/v1/conversations/"+conversation.ID, bob.Token, &payload)
		s.Require().Equal(http.StatusOK, status)
		s.Require().NotEmpty(payload.Messages)
		for i := 1; i < len(payload.Messages); i++ {
			s.Require().Greater(payload.Messages[i].ID, payload.Messages[i-1].ID,
				"History must stay strictly ordered by server id")
		}
	})
}
