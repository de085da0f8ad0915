package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// VehicleRepository handles the vehicles table
type VehicleRepository struct {
	db *gormlib.DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *gormlib.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// FindByExternalID finds a vehicle by its feed external id, nil if none exists
func (r *VehicleRepository) FindByExternalID(ctx context.Context, externalID string) (*gorm.Vehicle, error) {
	var vehicle gorm.Vehicle

	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&vehicle).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &vehicle, nil
}

// ListImported returns every vehicle that came from the feed.
// Manually created vehicles (external_id IS NULL) are excluded; the sync job
// must never see them.
func (r *VehicleRepository) ListImported(ctx context.Context) ([]gorm.Vehicle, error) {
	var vehicles []gorm.Vehicle

	err := r.db.WithContext(ctx).
		Where("external_id IS NOT NULL").
		Find(&vehicles).Error

	if err != nil {
		return nil, err
	}

	return vehicles, nil
}

// ListByStatusNot returns vehicles whose status differs from the given one,
// ordered newest first. Used by the public storefront listing.
func (r *VehicleRepository) ListByStatusNot(ctx context.Context, status constants.VehicleStatus) ([]gorm.Vehicle, error) {
	var vehicles []gorm.Vehicle

	err := r.db.WithContext(ctx).
		Where("status != ?", status).
		Order("created_at DESC").
		Find(&vehicles).Error

	if err != nil {
		return nil, err
	}

	return vehicles, nil
}

// Create inserts a new vehicle row
func (r *VehicleRepository) Create(ctx context.Context, vehicle *gorm.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// UpdateFields applies a partial update to one vehicle. Callers pass only
// feed-sourced columns; manually-owned columns stay untouched.
func (r *VehicleRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	return r.db.WithContext(ctx).
		Model(&gorm.Vehicle{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Retire flips a vehicle to the RETIRED status. The row is kept so sale
// history and foreign keys stay intact.
func (r *VehicleRepository) Retire(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&gorm.Vehicle{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     constants.VehicleStatusRetired,
			"updated_at": time.Now(),
		}).Error
}
