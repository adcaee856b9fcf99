package models

// OutboundMessage is a text notification pushed to a farm contact. An empty
// To means the configured digest recipient.
type OutboundMessage struct {
	To      string `json:"to"`
	Message string `json:"message" binding:"required"`
}
