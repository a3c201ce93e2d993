package domain

import "fmt"

// Channel is a logical pub/sub topic scoping real-time delivery to currently
// connected sessions. Exactly two classes exist: personal channels for
// new-conversation notifications, and conversation channels for the message
// stream.
type Channel string

func UserChannel(id UserID) Channel {
	return Channel(fmt.Sprintf("user:%s", id))
}

func ConversationChannel(id ConversationID) Channel {
	return Channel(fmt.Sprintf("conversation:%s", id))
}
