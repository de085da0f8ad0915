package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSettings    CachePrefix = "SETTINGS_"
	CachePrefixVehicleList CachePrefix = "VEHICLE_LIST_"
)
