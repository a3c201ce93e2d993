package domain

import (
	"encoding/json"
	"fmt"
)

// Command is the closed set of inbound gateway commands. Dispatch is done by
// a type switch over this set, never by reflection.
type Command interface {
	isCommand()
}

type SendMessageCommand struct {
	ConversationID ConversationID `json:"conversationId" validate:"required"`
	Content        string         `json:"content" validate:"required"`
	ClientID       string         `json:"clientId,omitempty"`
}

func (SendMessageCommand) isCommand() {}

type CreateConversationCommand struct {
	ParticipantUserIDs []UserID `json:"participantUserIds" validate:"required,min=1"`
	Title              string   `json:"title,omitempty"`
}

func (CreateConversationCommand) isCommand() {}

const (
	CommandSendMessage        = "send_message"
	CommandCreateConversation = "create_conversation"
)

// envelope is the inbound frame shape: a tag plus a raw payload decoded
// according to the tag.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DecodeCommand parses one inbound frame into its command variant.
// Unknown tags are rejected so the command set stays closed.
func DecodeCommand(raw []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed command frame: %w", err)
	}
	switch env.Type {
	case CommandSendMessage:
		var cmd SendMessageCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
		}
		return cmd, nil
	case CommandCreateConversation:
		var cmd CreateConversationCommand
		if err := json.Unmarshal(env.Payload, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Type, err)
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("unknown command type %q", env.Type)
	}
}
