package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/lotworks/dealersync/internal/common"
	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/db/repositories"
	"github.com/lotworks/dealersync/internal/models/dtos"
)

// ListVehicles serves the public storefront listing. Retired vehicles are
// excluded; results are cached briefly since the table only changes on sync
// runs and manual edits. Takes the in-memory cache: the projection is not
// JSON-round-trip safe through Redis.
func ListVehicles(repo *repositories.VehicleRepository, cache *common.CacheService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		cacheKey := string(constants.CachePrefixVehicleList) + "public"

		val, err := cache.GetOrSet(cacheKey, 1*time.Minute, func() (any, error) {
			vehicles, err := repo.ListByStatusNot(r.Context(), constants.VehicleStatusRetired)
			if err != nil {
				return nil, err
			}

			items := make([]dtos.VehicleListItem, 0, len(vehicles))
			for i := range vehicles {
				v := &vehicles[i]
				items = append(items, dtos.VehicleListItem{
					ID:           v.ID,
					Slug:         v.Slug,
					Make:         v.Make,
					Model:        v.Model,
					Variant:      v.Variant,
					Year:         v.Year,
					Price:        v.Price,
					Mileage:      v.Mileage,
					Fuel:         string(v.Fuel),
					Transmission: string(v.Transmission),
					Body:         string(v.Body),
					Status:       string(v.Status),
					ImageURLs:    v.ImageURLList(),
				})
			}
			return items, nil
		})
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to load vehicles")
			return
		}

		items, ok := val.([]dtos.VehicleListItem)
		if !ok {
			common.RespondError(w, initTime, errors.New("cache type assertion for vehicle list failed"), "")
			return
		}

		common.RespondSuccess(w, initTime, "Vehicles retrieved", items)
	}
}
