package repositories

import (
	"context"
	"fmt"

	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// SettingsRepository handles the site_settings key/value table
type SettingsRepository struct {
	db *sqlx.DB
}

func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db}
}

// GetAll returns every setting row
func (r *SettingsRepository) GetAll(ctx context.Context) ([]entities.Setting, error) {
	var settings []entities.Setting
	if err := r.db.SelectContext(ctx, &settings, constants.GetAllSettings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Upsert writes a single key/value pair
func (r *SettingsRepository) Upsert(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, constants.UpsertSetting, key, value)
	return err
}

// UpsertMany writes a set of key/value pairs in one transaction. Readers never
// observe some of the keys updated and others stale, which is what the sync
// status write depends on.
func (r *SettingsRepository) UpsertMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // safe even after Commit

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, constants.UpsertSetting, key, value); err != nil {
			return fmt.Errorf("upsert setting %q: %w", key, err)
		}
	}

	return tx.Commit()
}
