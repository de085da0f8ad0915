package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lotworks/dealersync/internal/common"
	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/db/repositories"
	"github.com/lotworks/dealersync/internal/models/dtos"
	"github.com/lotworks/dealersync/internal/models/entities"
)

// Admin-settable setting keys. The sync status keys are deliberately not
// listed; they are written only by the sync job.
const (
	ConfigKeyDealershipName = "dealership_name"
	ConfigKeyCurrency       = "currency"
)

var AllowedSettingKeys = []string{
	constants.SettingFeedURL,
	constants.SettingFeedSyncIntervalMin,
	ConfigKeyDealershipName,
	ConfigKeyCurrency,
}

// ListAllowedSettingKeys returns the keys admins may set
func ListAllowedSettingKeys() []string { return AllowedSettingKeys }

// IsValidSettingKey reports whether a key is admin-settable
func IsValidSettingKey(k string) bool {
	for _, allowed := range AllowedSettingKeys {
		if allowed == k {
			return true
		}
	}
	return false
}

// FeedConfig is the sync job's slice of the settings table
type FeedConfig struct {
	URL      string
	Interval time.Duration
}

// Enabled reports whether scheduled syncing should run at all
func (c FeedConfig) Enabled() bool {
	return c.URL != "" && c.Interval > 0
}

// SettingsRepo is the persistence surface the service needs from the
// settings repository
type SettingsRepo interface {
	GetAll(ctx context.Context) ([]entities.Setting, error)
	Upsert(ctx context.Context, key string, value string) error
	UpsertMany(ctx context.Context, values map[string]string) error
}

var _ SettingsRepo = (*repositories.SettingsRepository)(nil)

// SettingsService serves the site_settings table: tenant configuration for
// admin endpoints, feed configuration for the sync job, and the persisted
// sync status. Config reads are cached; status reads always hit the database
// so polling clients see fresh outcomes.
type SettingsService struct {
	repo  SettingsRepo
	cache common.CacheInterface
}

func NewSettingsService(r SettingsRepo, c common.CacheInterface) *SettingsService {
	return &SettingsService{repo: r, cache: c}
}

func settingsCacheKey() string {
	return string(constants.CachePrefixSettings) + "all"
}

// ListPossibleKeys exposes the allowed keys to API callers
func (s *SettingsService) ListPossibleKeys() []string { return ListAllowedSettingKeys() }

// SetSetting validates and upserts one admin-settable key, then returns the
// updated map
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) (map[string]string, error) {
	if !IsValidSettingKey(key) {
		return nil, fmt.Errorf("%q is not a valid setting key", key)
	}

	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return nil, fmt.Errorf("failed to set setting: %w", err)
	}

	s.cache.Delete(settingsCacheKey())

	return s.GetAllSettings(ctx)
}

// GetAllSettings returns every admin-settable key/value pair (cached)
func (s *SettingsService) GetAllSettings(ctx context.Context) (map[string]string, error) {
	ttl := 10 * time.Minute

	val, err := s.cache.GetOrSet(settingsCacheKey(), ttl, func() (any, error) {
		rows, err := s.repo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		m := make(map[string]string, len(rows))
		for _, r := range rows {
			if IsValidSettingKey(r.SettingKey) {
				m[r.SettingKey] = r.SettingValue
			}
		}
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	cfgs, ok := val.(map[string]string)
	if !ok {
		// Redis round-trips maps as map[string]interface{}
		generic, genericOk := val.(map[string]interface{})
		if !genericOk {
			return nil, errors.New("cache type assertion for settings map failed")
		}
		cfgs = make(map[string]string, len(generic))
		for k, v := range generic {
			if str, isStr := v.(string); isStr {
				cfgs[k] = str
			}
		}
	}
	return cfgs, nil
}

// GetFeedConfig reads the feed URL and sync interval for the sync job.
// An empty URL or missing interval disables scheduled syncing.
func (s *SettingsService) GetFeedConfig(ctx context.Context) (FeedConfig, error) {
	cfgs, err := s.GetAllSettings(ctx)
	if err != nil {
		return FeedConfig{}, err
	}

	cfg := FeedConfig{URL: cfgs[constants.SettingFeedURL]}

	if raw := cfgs[constants.SettingFeedSyncIntervalMin]; raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return FeedConfig{}, fmt.Errorf("invalid %s value %q", constants.SettingFeedSyncIntervalMin, raw)
		}
		cfg.Interval = time.Duration(minutes) * time.Minute
	}

	return cfg, nil
}

// ReadSyncStatus returns the persisted outcome of the last sync run.
// Never cached: the admin dashboard polls this.
func (s *SettingsService) ReadSyncStatus(ctx context.Context) (*dtos.SyncStatus, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.SettingKey] = r.SettingValue
	}

	status := &dtos.SyncStatus{
		Status:  m[constants.SettingLastSyncStatus],
		Message: m[constants.SettingLastSyncMessage],
	}

	if raw := m[constants.SettingLastSyncAt]; raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			status.LastSyncAt = &ts
		}
	}
	if raw := m[constants.SettingLastSyncCount]; raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			status.Count = n
		}
	}

	return status, nil
}

// WriteSyncStatus replaces all four status keys in one transaction so a
// polling reader never sees a half-written status.
func (s *SettingsService) WriteSyncStatus(ctx context.Context, status dtos.SyncStatus) error {
	lastSyncAt := ""
	if status.LastSyncAt != nil {
		lastSyncAt = status.LastSyncAt.UTC().Format(time.RFC3339)
	}

	return s.repo.UpsertMany(ctx, map[string]string{
		constants.SettingLastSyncAt:      lastSyncAt,
		constants.SettingLastSyncStatus:  status.Status,
		constants.SettingLastSyncMessage: status.Message,
		constants.SettingLastSyncCount:   strconv.Itoa(status.Count),
	})
}
