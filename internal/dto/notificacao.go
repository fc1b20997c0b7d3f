package dto

// BroadcastRequest is the message fanned out to guardians.
type BroadcastRequest struct {
	Titulo   string `json:"titulo" validate:"required,max=200"`
	Mensagem string `json:"mensagem" validate:"required,max=4000"`
	Tipo     string `json:"tipo" validate:"omitempty,max=40"`
}
