package dtos

// APIResponse is the standard envelope for admin API endpoints
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// VehicleListItem is the public storefront projection of a vehicle
type VehicleListItem struct {
	ID           uint     `json:"id"`
	Slug         string   `json:"slug"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Variant      string   `json:"variant,omitempty"`
	Year         int      `json:"year"`
	Price        float64  `json:"price"`
	Mileage      int      `json:"mileage"`
	Fuel         string   `json:"fuel"`
	Transmission string   `json:"transmission"`
	Body         string   `json:"body"`
	Status       string   `json:"status"`
	ImageURLs    []string `json:"image_urls"`
}
