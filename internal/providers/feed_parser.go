package providers

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/models/dtos"
)

// feedVehicleXML mirrors one <vehicle> element of the provider feed. The
// element and attribute names here are the provider's vocabulary; swapping
// feed providers means replacing this file, not the sync job.
type feedVehicleXML struct {
	ID           string   `xml:"id,attr"`
	ExternalID   string   `xml:"external_id"`
	Make         string   `xml:"make"`
	Model        string   `xml:"model"`
	Variant      string   `xml:"variant"`
	Year         string   `xml:"year"`
	Price        string   `xml:"price"`
	Mileage      string   `xml:"mileage"`
	Fuel         string   `xml:"fuel"`
	Transmission string   `xml:"transmission"`
	Body         string   `xml:"body"`
	VIN          string   `xml:"vin"`
	Description  string   `xml:"description"`
	Images       []string `xml:"images>image"`
}

// ParseFeed converts a raw feed document into normalized vehicle records.
//
// Individual entries that cannot be used (missing external id, garbage
// numerics) are skipped and tallied; only a document that is not well-formed
// XML fails the whole parse. Duplicate external ids within one snapshot keep
// the last occurrence so downstream upserts never hit duplicate keys.
func ParseFeed(data []byte) ([]dtos.FeedVehicleRecord, int, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var (
		records []dtos.FeedVehicleRecord
		index   = make(map[string]int) // external id -> position in records
		skipped int
		sawRoot bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, &ProviderError{
				Code:    constants.ErrCodeFeedMalformed,
				Message: constants.GetErrorMessage(constants.ErrCodeFeedMalformed),
				Err:     err,
			}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			sawRoot = true
			continue
		}

		if start.Name.Local != "vehicle" {
			if err := decoder.Skip(); err != nil {
				return nil, skipped, &ProviderError{
					Code:    constants.ErrCodeFeedMalformed,
					Message: constants.GetErrorMessage(constants.ErrCodeFeedMalformed),
					Err:     err,
				}
			}
			continue
		}

		var entry feedVehicleXML
		if err := decoder.DecodeElement(&entry, &start); err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return nil, skipped, &ProviderError{
					Code:    constants.ErrCodeFeedMalformed,
					Message: constants.GetErrorMessage(constants.ErrCodeFeedMalformed),
					Err:     err,
				}
			}
			skipped++
			continue
		}

		record, ok := normalizeEntry(entry)
		if !ok {
			skipped++
			continue
		}

		if pos, seen := index[record.ExternalID]; seen {
			records[pos] = record
			continue
		}
		index[record.ExternalID] = len(records)
		records = append(records, record)
	}

	if !sawRoot {
		return nil, skipped, &ProviderError{
			Code:    constants.ErrCodeFeedMalformed,
			Message: constants.GetErrorMessage(constants.ErrCodeFeedMalformed),
		}
	}

	return records, skipped, nil
}

// normalizeEntry maps one raw feed entry to the internal record shape.
// Returns false when the entry is unusable.
func normalizeEntry(entry feedVehicleXML) (dtos.FeedVehicleRecord, bool) {
	externalID := strings.TrimSpace(entry.ID)
	if externalID == "" {
		externalID = strings.TrimSpace(entry.ExternalID)
	}
	if externalID == "" {
		return dtos.FeedVehicleRecord{}, false
	}

	year, ok := parseIntField(entry.Year)
	if !ok {
		return dtos.FeedVehicleRecord{}, false
	}
	mileage, ok := parseIntField(entry.Mileage)
	if !ok {
		return dtos.FeedVehicleRecord{}, false
	}
	price, ok := parseFloatField(entry.Price)
	if !ok {
		return dtos.FeedVehicleRecord{}, false
	}

	record := dtos.FeedVehicleRecord{
		ExternalID:   externalID,
		Make:         strings.TrimSpace(entry.Make),
		Model:        strings.TrimSpace(entry.Model),
		Variant:      strings.TrimSpace(entry.Variant),
		Year:         year,
		Price:        price,
		Mileage:      mileage,
		Fuel:         constants.MapFuelType(entry.Fuel),
		Transmission: constants.MapTransmissionType(entry.Transmission),
		Body:         constants.MapBodyStyle(entry.Body),
		Description:  strings.TrimSpace(entry.Description),
	}

	if vin := strings.TrimSpace(entry.VIN); vin != "" {
		record.VIN = &vin
	}

	for _, img := range entry.Images {
		if url := strings.TrimSpace(img); url != "" {
			record.ImageURLs = append(record.ImageURLs, url)
		}
	}

	return record, true
}

// parseIntField parses an optional numeric field; empty maps to zero,
// non-empty garbage marks the entry unusable.
func parseIntField(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFloatField(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
