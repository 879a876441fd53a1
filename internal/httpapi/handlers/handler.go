package handlers

import "cognitoidp/internal/idp"

type Handler struct {
	idp idp.Adapter
}

func New(provider idp.Adapter) *Handler {
	return &Handler{idp: provider}
}
