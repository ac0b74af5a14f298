package chat

// Conversation is the surface a front end drives. [*Controller] implements it.
type Conversation interface {
	Submit(text string) error
	Cancel()
	SetModel(id string) error
	SetShowThinking(show bool) error
	State() State
	Subscribe() (<-chan State, func())
}

// Interface compliance check.
var _ Conversation = (*Controller)(nil)
