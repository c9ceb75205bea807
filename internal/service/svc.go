package service

import (
	"GoOss/config"

	"gorm.io/gorm"
)

// Svc bundles the metadata handle, id generator and settings that every core
// operation needs. Handlers hold one instance; tests build their own and can
// substitute any piece.
type Svc struct {
	db     *gorm.DB
	nextID func() uint64
	cfg    *config.Config
}

// New builds a service bundle.
func New(db *gorm.DB, nextID func() uint64, cfg *config.Config) *Svc {
	return &Svc{db: db, nextID: nextID, cfg: cfg}
}
