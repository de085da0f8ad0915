package gorm

import (
	"strings"
	"time"

	"github.com/lotworks/dealersync/internal/constants"
)

// Vehicle represents a vehicle on the dealership lot.
// Feed-sourced fields are overwritten by the sync job; manually-owned fields
// (internal notes, sale records) are never touched by it. Vehicles without an
// ExternalID were created by hand in the admin dashboard and are invisible to
// the sync job entirely.
type Vehicle struct {
	ID         uint    `gorm:"column:id;primaryKey;autoIncrement"`
	ExternalID *string `gorm:"column:external_id;uniqueIndex;type:varchar(64)"`

	// Feed-sourced fields
	Make         string                     `gorm:"column:make;type:varchar(64)"`
	Model        string                     `gorm:"column:model;type:varchar(64)"`
	Variant      string                     `gorm:"column:variant;type:varchar(128)"`
	Year         int                        `gorm:"column:year"`
	Price        float64                    `gorm:"column:price"`
	Mileage      int                        `gorm:"column:mileage"`
	Fuel         constants.FuelType         `gorm:"column:fuel;type:varchar(16)"`
	Transmission constants.TransmissionType `gorm:"column:transmission;type:varchar(16)"`
	Body         constants.BodyStyle        `gorm:"column:body;type:varchar(16)"`
	VIN          *string                    `gorm:"column:vin;type:varchar(17)"`
	Description  string                     `gorm:"column:description;type:text"`
	ImageURLs    string                     `gorm:"column:image_urls;type:text"` // newline-joined, feed order preserved

	// Manually-owned fields, never written by the sync job
	InternalNotes string   `gorm:"column:internal_notes;type:text"`
	SoldPrice     *float64 `gorm:"column:sold_price"`
	BuyerName     *string  `gorm:"column:buyer_name;type:varchar(128)"`

	Status    constants.VehicleStatus `gorm:"column:status;type:varchar(16);default:AVAILABLE"`
	Slug      string                  `gorm:"column:slug;type:varchar(255)"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// IsSold reports whether the vehicle is in the terminal sold state
func (v *Vehicle) IsSold() bool {
	return v.Status == constants.VehicleStatusSold
}

// SetImageURLs stores an ordered image URL list in the backing column
func (v *Vehicle) SetImageURLs(urls []string) {
	v.ImageURLs = strings.Join(urls, "\n")
}

// ImageURLList returns the stored image URLs in feed order
func (v *Vehicle) ImageURLList() []string {
	if v.ImageURLs == "" {
		return nil
	}
	return strings.Split(v.ImageURLs, "\n")
}
