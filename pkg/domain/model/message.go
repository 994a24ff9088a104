package model

import "github.com/secmon-lab/nem0/pkg/domain/types"

// Message is one role-tagged entry of a conversation turn
type Message struct {
	Role    types.Role
	Content string
}

// Turn is an ordered exchange handed to the memory service as a unit
type Turn []Message

func SystemMessage(content string) Message {
	return Message{Role: types.RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: types.RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: types.RoleAssistant, Content: content}
}
