package dtos

import "github.com/lotworks/dealersync/internal/constants"

// FeedVehicleRecord is one normalized entry from the external vehicle feed.
// It exists only for the duration of a single sync run.
type FeedVehicleRecord struct {
	ExternalID   string
	Make         string
	Model        string
	Variant      string
	Year         int
	Price        float64
	Mileage      int
	Fuel         constants.FuelType
	Transmission constants.TransmissionType
	Body         constants.BodyStyle
	VIN          *string
	Description  string
	ImageURLs    []string
}
