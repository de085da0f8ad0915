package services

import (
	"context"
	"testing"

	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/db/repositories"
	"github.com/lotworks/dealersync/internal/models/dtos"
	gormModels "github.com/lotworks/dealersync/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&gormModels.Vehicle{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func feedRecord(externalID string) dtos.FeedVehicleRecord {
	return dtos.FeedVehicleRecord{
		ExternalID:   externalID,
		Make:         "Toyota",
		Model:        "Corolla",
		Variant:      "1.8 Hybrid",
		Year:         2021,
		Price:        18500,
		Mileage:      42000,
		Fuel:         constants.FuelHybrid,
		Transmission: constants.TransmissionAutomatic,
		Body:         constants.BodyHatchback,
		Description:  "One owner",
		ImageURLs:    []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	}
}

func mustFindByExternalID(t *testing.T, repo *repositories.VehicleRepository, externalID string) *gormModels.Vehicle {
	t.Helper()
	vehicle, err := repo.FindByExternalID(context.Background(), externalID)
	if err != nil {
		t.Fatalf("Lookup for %s failed: %v", externalID, err)
	}
	if vehicle == nil {
		t.Fatalf("Expected vehicle %s to exist", externalID)
	}
	return vehicle
}

func TestReconcile_CreatesNewVehicles(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewVehicleRepository(db)
	service := NewVehicleReconcileService(repo)

	records := []dtos.FeedVehicleRecord{feedRecord("EXT-1"), feedRecord("EXT-2"), feedRecord("EXT-3")}

	summary, err := service.Reconcile(context.Background(), records)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Created != 3 || summary.Updated != 0 || summary.Skipped != 0 || summary.Retired != 0 {
		t.Errorf("Unexpected summary: %+v", summary)
	}

	vehicle := mustFindByExternalID(t, repo, "EXT-1")
	if vehicle.Status != constants.VehicleStatusAvailable {
		t.Errorf("Expected new vehicle to be AVAILABLE, got %s", vehicle.Status)
	}
	if vehicle.Slug == "" {
		t.Error("Expected a slug to be generated")
	}
	if urls := vehicle.ImageURLList(); len(urls) != 2 || urls[0] != "https://cdn.example.com/a.jpg" {
		t.Errorf("Expected image URLs in feed order, got %v", urls)
	}
}

func TestReconcile_SameSnapshotIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	service := NewVehicleReconcileService(repositories.NewVehicleRepository(db))

	records := []dtos.FeedVehicleRecord{feedRecord("EXT-1"), feedRecord("EXT-2")}

	if _, err := service.Reconcile(context.Background(), records); err != nil {
		t.Fatalf("First reconcile failed: %v", err)
	}

	summary, err := service.Reconcile(context.Background(), records)
	if err != nil {
		t.Fatalf("Second reconcile failed: %v", err)
	}
	if summary.Created != 0 || summary.Updated != 0 || summary.Retired != 0 {
		t.Errorf("Expected a pure skip run, got %+v", summary)
	}
	if summary.Skipped != 2 {
		t.Errorf("Expected 2 skipped, got %d", summary.Skipped)
	}
}

func TestReconcile_TextFormattingChurnIsSkipped(t *testing.T) {
	db := setupTestDB(t)
	service := NewVehicleReconcileService(repositories.NewVehicleRepository(db))

	if _, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1")}); err != nil {
		t.Fatalf("Seed reconcile failed: %v", err)
	}

	churned := feedRecord("EXT-1")
	churned.Make = "  TOYOTA "
	churned.Description = "One   owner"

	summary, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{churned})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Skipped != 1 || summary.Updated != 0 {
		t.Errorf("Expected case/whitespace churn to be skipped, got %+v", summary)
	}
}

func TestReconcile_UpdatesFeedFieldsOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewVehicleRepository(db)
	service := NewVehicleReconcileService(repo)

	if _, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1")}); err != nil {
		t.Fatalf("Seed reconcile failed: %v", err)
	}

	// Dealer staff annotate the vehicle by hand
	seeded := mustFindByExternalID(t, repo, "EXT-1")
	db.Model(seeded).Update("internal_notes", "scratch on rear bumper")

	changed := feedRecord("EXT-1")
	changed.Price = 17900
	changed.Mileage = 43500

	summary, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{changed})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Updated != 1 {
		t.Errorf("Expected 1 update, got %+v", summary)
	}

	vehicle := mustFindByExternalID(t, repo, "EXT-1")
	if vehicle.Price != 17900 || vehicle.Mileage != 43500 {
		t.Errorf("Expected feed fields updated, got price=%f mileage=%d", vehicle.Price, vehicle.Mileage)
	}
	if vehicle.InternalNotes != "scratch on rear bumper" {
		t.Errorf("Expected internal notes preserved, got %q", vehicle.InternalNotes)
	}
}

func TestReconcile_RetiresMissingVehicles(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewVehicleRepository(db)
	service := NewVehicleReconcileService(repo)

	if _, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1"), feedRecord("EXT-2")}); err != nil {
		t.Fatalf("Seed reconcile failed: %v", err)
	}

	summary, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Retired != 1 {
		t.Errorf("Expected 1 retired, got %+v", summary)
	}

	// Retired, not deleted: still queryable by its external id
	vehicle := mustFindByExternalID(t, repo, "EXT-2")
	if vehicle.Status != constants.VehicleStatusRetired {
		t.Errorf("Expected EXT-2 to be RETIRED, got %s", vehicle.Status)
	}

	missing, err := repo.FindByExternalID(context.Background(), "EXT-404")
	if err != nil {
		t.Fatalf("Expected no error for an unknown external id, got %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for an unknown external id, got %+v", missing)
	}
}

func TestReconcile_RetiredVehicleRevivesOnReappearance(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewVehicleRepository(db)
	service := NewVehicleReconcileService(repo)

	if _, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1")}); err != nil {
		t.Fatalf("Seed reconcile failed: %v", err)
	}
	if _, err := service.Reconcile(context.Background(), nil); err != nil {
		t.Fatalf("Retire pass failed: %v", err)
	}

	summary, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Updated != 1 {
		t.Errorf("Expected revival to count as update, got %+v", summary)
	}

	vehicle := mustFindByExternalID(t, repo, "EXT-1")
	if vehicle.Status != constants.VehicleStatusAvailable {
		t.Errorf("Expected revived vehicle to be AVAILABLE, got %s", vehicle.Status)
	}
}

func TestReconcile_SoldVehiclesAreNeverTouched(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewVehicleRepository(db)
	service := NewVehicleReconcileService(repo)

	if _, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1"), feedRecord("EXT-2")}); err != nil {
		t.Fatalf("Seed reconcile failed: %v", err)
	}

	soldPrice := 18000.0
	buyer := "J. Smith"
	db.Model(&gormModels.Vehicle{}).
		Where("external_id = ?", "EXT-1").
		Updates(map[string]interface{}{"status": constants.VehicleStatusSold, "sold_price": soldPrice, "buyer_name": buyer})
	db.Model(&gormModels.Vehicle{}).
		Where("external_id = ?", "EXT-2").
		Update("status", constants.VehicleStatusSold)

	// EXT-1 still in the feed with new data, EXT-2 gone from it
	changed := feedRecord("EXT-1")
	changed.Price = 1

	summary, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{changed})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Updated != 0 || summary.Retired != 0 {
		t.Errorf("Expected sold vehicles untouched, got %+v", summary)
	}

	present := mustFindByExternalID(t, repo, "EXT-1")
	if present.Price != 18500 || present.Status != constants.VehicleStatusSold {
		t.Errorf("Sold vehicle was mutated: price=%f status=%s", present.Price, present.Status)
	}
	if present.SoldPrice == nil || *present.SoldPrice != soldPrice {
		t.Errorf("Expected sale record preserved, got %v", present.SoldPrice)
	}

	absent := mustFindByExternalID(t, repo, "EXT-2")
	if absent.Status != constants.VehicleStatusSold {
		t.Errorf("Expected absent sold vehicle to stay SOLD, got %s", absent.Status)
	}
}

func TestReconcile_ManualVehiclesAreInvisible(t *testing.T) {
	db := setupTestDB(t)
	service := NewVehicleReconcileService(repositories.NewVehicleRepository(db))

	manual := gormModels.Vehicle{
		Make:   "Custom",
		Model:  "Build",
		Status: constants.VehicleStatusAvailable,
	}
	db.Create(&manual)

	summary, err := service.Reconcile(context.Background(), []dtos.FeedVehicleRecord{feedRecord("EXT-1")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Created != 1 || summary.Retired != 0 {
		t.Errorf("Expected manual vehicle ignored, got %+v", summary)
	}

	var reloaded gormModels.Vehicle
	if err := db.First(&reloaded, manual.ID).Error; err != nil {
		t.Fatalf("Manual vehicle disappeared: %v", err)
	}
	if reloaded.Status != constants.VehicleStatusAvailable {
		t.Errorf("Expected manual vehicle untouched, got %s", reloaded.Status)
	}
}
