package entities

import "time"

// Setting is one key/value row in the site_settings table
type Setting struct {
	ID           int       `db:"id"`
	SettingKey   string    `db:"setting_key"`
	SettingValue string    `db:"setting_value"`
	UpdatedAt    time.Time `db:"updated_at"`
}
