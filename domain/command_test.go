package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_DecodeCommand_SendMessage(t *testing.T) {
	req := require.New(t)

	raw := []byte(`{"type":"send_message","payload":{"conversationId":"conv-1","content":"hello","clientId":"tok-1"}}`)
	cmd, err := DecodeCommand(raw)
	req.NoError(err)

	sendCmd, ok := cmd.(SendMessageCommand)
	req.True(ok)
	req.Equal(ConversationID("conv-1"), sendCmd.ConversationID)
	req.Equal("hello", sendCmd.Content)
	req.Equal("tok-1", sendCmd.ClientID)
}

func Test_DecodeCommand_CreateConversation(t *testing.T) {
	req := require.New(t)

	raw := []byte(`{"type":"create_conversation","payload":{"participantUserIds":["bob","clara"],"title":"planning"}}`)
	cmd, err := DecodeCommand(raw)
	req.NoError(err)

	createCmd, ok := cmd.(CreateConversationCommand)
	req.True(ok)
	req.Equal([]UserID{"bob", "clara"}, createCmd.ParticipantUserIDs)
	req.Equal("planning", createCmd.Title)
}

func Test_DecodeCommand_Unknown_Type(t *testing.T) {
	req := require.New(t)

	// The command set is closed: unrecognized tags are rejected, not ignored
	_, err := DecodeCommand([]byte(`{"type":"delete_conversation","payload":{}}`))
	req.Error(err)
	req.Contains(err.Error(), "delete_conversation")
}

func Test_DecodeCommand_Malformed(t *testing.T) {
	req := require.New(t)

	_, err := DecodeCommand([]byte(`not json at all`))
	req.Error(err)

	_, err = DecodeCommand([]byte(`{"type":"send_message","payload":"not-an-object"}`))
	req.Error(err)
}

func Test_Channels(t *testing.T) {
	req := require.New(t)

	req.Equal(Channel("user:alice"), UserChannel("alice"))
	req.Equal(Channel("conversation:conv-1"), ConversationChannel("conv-1"))
}
