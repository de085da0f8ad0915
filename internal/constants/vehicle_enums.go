package constants

import "strings"

type (
	FuelType         string
	TransmissionType string
	BodyStyle        string
	VehicleStatus    string
)

const (
	FuelPetrol   FuelType = "PETROL"
	FuelDiesel   FuelType = "DIESEL"
	FuelHybrid   FuelType = "HYBRID"
	FuelElectric FuelType = "ELECTRIC"
	FuelLPG      FuelType = "LPG"
	FuelOther    FuelType = "OTHER"

	TransmissionManual    TransmissionType = "MANUAL"
	TransmissionAutomatic TransmissionType = "AUTOMATIC"
	TransmissionUnknown   TransmissionType = "UNKNOWN"

	BodySedan       BodyStyle = "SEDAN"
	BodyHatchback   BodyStyle = "HATCHBACK"
	BodyEstate      BodyStyle = "ESTATE"
	BodySUV         BodyStyle = "SUV"
	BodyCoupe       BodyStyle = "COUPE"
	BodyConvertible BodyStyle = "CONVERTIBLE"
	BodyVan         BodyStyle = "VAN"
	BodyPickup      BodyStyle = "PICKUP"
	BodyOther       BodyStyle = "OTHER"

	VehicleStatusAvailable VehicleStatus = "AVAILABLE"
	VehicleStatusReserved  VehicleStatus = "RESERVED"
	VehicleStatusSold      VehicleStatus = "SOLD"
	VehicleStatusRetired   VehicleStatus = "RETIRED"
)

// Feed vocabulary maps. The feed provider's terms are not under our control,
// so the mapping lives in data tables rather than switch statements; unmapped
// values fall back to OTHER/UNKNOWN instead of failing the record.

var fuelVocabulary = map[string]FuelType{
	"petrol":       FuelPetrol,
	"gasoline":     FuelPetrol,
	"benzin":       FuelPetrol,
	"diesel":       FuelDiesel,
	"hybrid":       FuelHybrid,
	"phev":         FuelHybrid,
	"electric":     FuelElectric,
	"ev":           FuelElectric,
	"lpg":          FuelLPG,
	"autogas":      FuelLPG,
}

var transmissionVocabulary = map[string]TransmissionType{
	"manual":         TransmissionManual,
	"man":            TransmissionManual,
	"automatic":      TransmissionAutomatic,
	"auto":           TransmissionAutomatic,
	"dsg":            TransmissionAutomatic,
	"cvt":            TransmissionAutomatic,
	"semi-automatic": TransmissionAutomatic,
}

var bodyVocabulary = map[string]BodyStyle{
	"sedan":       BodySedan,
	"saloon":      BodySedan,
	"limousine":   BodySedan,
	"hatchback":   BodyHatchback,
	"estate":      BodyEstate,
	"wagon":       BodyEstate,
	"kombi":       BodyEstate,
	"suv":         BodySUV,
	"crossover":   BodySUV,
	"offroad":     BodySUV,
	"coupe":       BodyCoupe,
	"convertible": BodyConvertible,
	"cabriolet":   BodyConvertible,
	"van":         BodyVan,
	"minivan":     BodyVan,
	"pickup":      BodyPickup,
}

// MapFuelType maps a feed fuel term to an internal fuel type
func MapFuelType(raw string) FuelType {
	if v, ok := fuelVocabulary[normalizeTerm(raw)]; ok {
		return v
	}
	return FuelOther
}

// MapTransmissionType maps a feed transmission term to an internal transmission type
func MapTransmissionType(raw string) TransmissionType {
	if v, ok := transmissionVocabulary[normalizeTerm(raw)]; ok {
		return v
	}
	return TransmissionUnknown
}

// MapBodyStyle maps a feed body term to an internal body style
func MapBodyStyle(raw string) BodyStyle {
	if v, ok := bodyVocabulary[normalizeTerm(raw)]; ok {
		return v
	}
	return BodyOther
}

func normalizeTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
