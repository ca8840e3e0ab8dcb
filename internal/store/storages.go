package store

import (
	"github.com/abelyaev/accountd/internal/logger"
)

// Storages aggregates every repository the service layer depends on.
// Embedding keeps call sites short: services hold one *Storages and call
// repository methods on it directly.
type Storages struct {
	UserRepository
	InviteRepository
	OutboxRepository
}

// NewStorages wires all repositories onto a shared database connection.
func NewStorages(db *DB, logger *logger.Logger) *Storages {
	logger.Debug().Msg("creating storages")

	return &Storages{
		UserRepository:   NewUserRepository(db, logger),
		InviteRepository: NewInviteRepository(db, logger),
		OutboxRepository: NewOutboxRepository(db, logger),
	}
}
