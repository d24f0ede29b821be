package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentfolio/backend/internal/domain/ledger"
	"github.com/rentfolio/backend/internal/domain/shared"
	"github.com/rentfolio/backend/internal/infrastructure/persistence/models"
)

// Migrate runs schema migration for all persistence models.
func (d *Database) Migrate() error {
	return d.DB.AutoMigrate(models.AllModels()...)
}

// EnsureHouseAccounts creates the Main and Gateway house accounts under
// their configured IDs if they do not exist yet. Existing accounts are
// left untouched so their balances survive restarts.
func (d *Database) EnsureHouseAccounts(ctx context.Context, mainID, gatewayID uuid.UUID) error {
	repo := NewGormAccountRepository(d.DB)

	for _, spec := range []struct {
		id   uuid.UUID
		name string
	}{
		{mainID, "Main"},
		{gatewayID, "Gateway"},
	} {
		_, err := repo.FindByID(ctx, spec.id)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if err := repo.Save(ctx, ledger.NewHouseAccount(spec.id, spec.name)); err != nil {
			return err
		}
	}
	return nil
}
