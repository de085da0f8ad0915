package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/db/repositories"
	"github.com/lotworks/dealersync/internal/models/dtos"
	gormModels "github.com/lotworks/dealersync/internal/models/gorm"
)

// VehicleReconcileService diffs parsed feed records against the persisted
// vehicle set and applies the resulting create/update/retire mutations.
type VehicleReconcileService struct {
	repo *repositories.VehicleRepository
}

// NewVehicleReconcileService creates a new reconcile service
func NewVehicleReconcileService(repo *repositories.VehicleRepository) *VehicleReconcileService {
	return &VehicleReconcileService{repo: repo}
}

// Reconcile applies one feed snapshot to the vehicle table.
//
// Per record: create when the external id is new, skip when nothing changed,
// otherwise update only the feed-sourced columns. Imported vehicles whose
// external id is absent from the snapshot are retired, never deleted. Sold
// vehicles are never mutated, present in the feed or not. Each mutation is
// its own unit of work; a failed record is counted and the run continues, so
// a rerun on the same snapshot reconverges.
func (s *VehicleReconcileService) Reconcile(ctx context.Context, records []dtos.FeedVehicleRecord) (*dtos.SyncSummary, error) {
	existing, err := s.repo.ListImported(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load imported vehicles: %w", err)
	}

	byExternalID := make(map[string]*gormModels.Vehicle, len(existing))
	for i := range existing {
		if existing[i].ExternalID != nil {
			byExternalID[*existing[i].ExternalID] = &existing[i]
		}
	}

	summary := &dtos.SyncSummary{}
	seen := make(map[string]bool, len(records))

	for _, record := range records {
		seen[record.ExternalID] = true

		vehicle, exists := byExternalID[record.ExternalID]
		if !exists {
			if err := s.repo.Create(ctx, newVehicleFromRecord(record)); err != nil {
				log.Printf("[VehicleReconcile] Error creating vehicle %s: %v", record.ExternalID, err)
				summary.Errored++
				continue
			}
			summary.Created++
			continue
		}

		if vehicle.IsSold() {
			// Sold history is never revived or altered by import
			summary.Skipped++
			continue
		}

		if recordMatchesVehicle(record, vehicle) {
			summary.Skipped++
			continue
		}

		if err := s.repo.UpdateFields(ctx, vehicle.ID, feedFieldUpdates(record, vehicle)); err != nil {
			log.Printf("[VehicleReconcile] Error updating vehicle %s: %v", record.ExternalID, err)
			summary.Errored++
			continue
		}
		summary.Updated++
	}

	for externalID, vehicle := range byExternalID {
		if seen[externalID] {
			continue
		}
		if vehicle.IsSold() || vehicle.Status == constants.VehicleStatusRetired {
			continue
		}
		if err := s.repo.Retire(ctx, vehicle.ID); err != nil {
			log.Printf("[VehicleReconcile] Error retiring vehicle %s: %v", externalID, err)
			summary.Errored++
			continue
		}
		summary.Retired++
	}

	return summary, nil
}

// newVehicleFromRecord builds a fresh vehicle row from a feed record
func newVehicleFromRecord(record dtos.FeedVehicleRecord) *gormModels.Vehicle {
	externalID := record.ExternalID

	vehicle := &gormModels.Vehicle{
		ExternalID:   &externalID,
		Make:         record.Make,
		Model:        record.Model,
		Variant:      record.Variant,
		Year:         record.Year,
		Price:        record.Price,
		Mileage:      record.Mileage,
		Fuel:         record.Fuel,
		Transmission: record.Transmission,
		Body:         record.Body,
		VIN:          record.VIN,
		Description:  record.Description,
		Status:       constants.VehicleStatusAvailable,
		Slug:         makeSlug(record),
	}
	vehicle.SetImageURLs(record.ImageURLs)

	return vehicle
}

// feedFieldUpdates returns the column set the feed is allowed to write.
// Manually-owned columns (internal_notes, sold_price, buyer_name) never
// appear here. A retired vehicle that reappears in the feed goes back to
// AVAILABLE.
func feedFieldUpdates(record dtos.FeedVehicleRecord, vehicle *gormModels.Vehicle) map[string]interface{} {
	updates := map[string]interface{}{
		"make":         record.Make,
		"model":        record.Model,
		"variant":      record.Variant,
		"year":         record.Year,
		"price":        record.Price,
		"mileage":      record.Mileage,
		"fuel":         record.Fuel,
		"transmission": record.Transmission,
		"body":         record.Body,
		"description":  record.Description,
		"image_urls":   strings.Join(record.ImageURLs, "\n"),
	}

	if record.VIN != nil {
		updates["vin"] = *record.VIN
	}

	if vehicle.Status == constants.VehicleStatusRetired {
		updates["status"] = constants.VehicleStatusAvailable
	}

	return updates
}

// recordMatchesVehicle reports whether an update would be a no-op. Text
// fields compare case- and whitespace-normalized so feed formatting churn
// does not trigger writes; slug and timestamps are ignored.
func recordMatchesVehicle(record dtos.FeedVehicleRecord, vehicle *gormModels.Vehicle) bool {
	if vehicle.Status == constants.VehicleStatusRetired {
		// Reappearing in the feed must revive the listing
		return false
	}

	if record.Year != vehicle.Year ||
		record.Price != vehicle.Price ||
		record.Mileage != vehicle.Mileage ||
		record.Fuel != vehicle.Fuel ||
		record.Transmission != vehicle.Transmission ||
		record.Body != vehicle.Body {
		return false
	}

	if !textEqual(record.Make, vehicle.Make) ||
		!textEqual(record.Model, vehicle.Model) ||
		!textEqual(record.Variant, vehicle.Variant) ||
		!textEqual(record.Description, vehicle.Description) {
		return false
	}

	recordVIN := ""
	if record.VIN != nil {
		recordVIN = *record.VIN
	}
	vehicleVIN := ""
	if vehicle.VIN != nil {
		vehicleVIN = *vehicle.VIN
	}
	if !textEqual(recordVIN, vehicleVIN) {
		return false
	}

	return strings.Join(record.ImageURLs, "\n") == vehicle.ImageURLs
}

// textEqual compares two text fields ignoring case and whitespace runs
func textEqual(a, b string) bool {
	return normalizeText(a) == normalizeText(b)
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// makeSlug derives a storefront URL slug. Internally generated, excluded
// from feed comparison.
func makeSlug(record dtos.FeedVehicleRecord) string {
	parts := []string{record.Make, record.Model, fmt.Sprintf("%d", record.Year), record.ExternalID}

	slug := strings.ToLower(strings.Join(parts, "-"))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, slug)

	return strings.Trim(slug, "-")
}
