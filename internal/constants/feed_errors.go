package constants

// Feed Provider Error Codes
// These constants define specific error scenarios for the external vehicle feed

const (
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeFeedTimeout       = "FEED_TIMEOUT"
	ErrCodeFeedHTTPStatus    = "FEED_HTTP_STATUS"
	ErrCodeFeedTooLarge      = "FEED_TOO_LARGE"
	ErrCodeFeedMalformed     = "FEED_MALFORMED"
	ErrCodeFeedURLMissing    = "FEED_URL_MISSING"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
)

// Human-readable messages corresponding to error codes

var FeedErrorMessages = map[string]string{
	ErrCodeNetworkError:      "Unable to connect to the vehicle feed. Please check the feed URL and network",
	ErrCodeFeedTimeout:       "The vehicle feed took too long to respond",
	ErrCodeFeedHTTPStatus:    "The vehicle feed returned a non-success HTTP status",
	ErrCodeFeedTooLarge:      "The vehicle feed response exceeded the maximum allowed size",
	ErrCodeFeedMalformed:     "The vehicle feed document is not well-formed XML",
	ErrCodeFeedURLMissing:    "No feed URL is configured. Set feed_url in the dealership settings",
	ErrCodeInvalidDataFormat: "The data format is invalid",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := FeedErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
