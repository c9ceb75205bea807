package handler

import (
	"GoOss/config"
	"GoOss/internal/service"
)

// Handler carries the service bundle and settings into the HTTP layer.
type Handler struct {
	svc *service.Svc
	cfg *config.Config
}

// New builds a handler set around one service bundle.
func New(svc *service.Svc, cfg *config.Config) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}
