package repositories

import (
	"chat-core/domain"
	"fmt"
)

// Key layout. Message keys embed the store-assigned id with 19-digit zero
// padding so a prefix scan yields strict insertion order lexicographically.
//
//	conv:{conversation_id}                 conversation row
//	member:{conversation_id}:{user_id}     participant row
//	uconv:{user_id}:{conversation_id}      membership index (empty value)
//	seq:{conversation_id}                  last assigned message id
//	msg:{conversation_id}:{id_padded}      message row
//	user:{user_id}                         user row
//	uemail:{email}                         email -> user id index
const maxPaddedID = "9999999999999999999"

func conversationKey(id domain.ConversationID) []byte {
	return []byte(fmt.Sprintf("conv:%s", id))
}

func participantKey(conv domain.ConversationID, user domain.UserID) []byte {
	return []byte(fmt.Sprintf("member:%s:%s", conv, user))
}

func participantPrefix(conv domain.ConversationID) []byte {
	return []byte(fmt.Sprintf("member:%s:", conv))
}

func membershipKey(user domain.UserID, conv domain.ConversationID) []byte {
	return []byte(fmt.Sprintf("uconv:%s:%s", user, conv))
}

func membershipPrefix(user domain.UserID) []byte {
	return []byte(fmt.Sprintf("uconv:%s:", user))
}

func sequenceKey(conv domain.ConversationID) []byte {
	return []byte(fmt.Sprintf("seq:%s", conv))
}

func messageKey(conv domain.ConversationID, id domain.MessageID) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d", conv, id))
}

func messagePrefix(conv domain.ConversationID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", conv))
}

func userKey(id domain.UserID) []byte {
	return []byte(fmt.Sprintf("user:%s", id))
}

func emailKey(email string) []byte {
	return []byte(fmt.Sprintf("uemail:%s", email))
}
