package constants

const (
	GetAllSettings = `
	SELECT id, setting_key, setting_value, updated_at FROM site_settings
	`

	UpsertSetting = `
	INSERT INTO site_settings (setting_key, setting_value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (setting_key)
	DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()
	`
)
