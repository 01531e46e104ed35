package dictionary

import "errors"

var (
	// ErrNoAPIKey is returned when the secret store holds no API key.
	ErrNoAPIKey = errors.New("dictionary: no api key")
	// ErrRequest covers URL construction and transport failures.
	ErrRequest = errors.New("dictionary: request failed")
	// ErrResponse is returned for non-2xx replies or unreadable bodies.
	ErrResponse = errors.New("dictionary: bad response")
	// ErrDecode is returned when the body is not a list of entries. The API
	// answers unknown words with a list of suggested spellings instead.
	ErrDecode = errors.New("dictionary: cannot decode response")
	// ErrNoResults is returned for an empty entry list.
	ErrNoResults = errors.New("dictionary: no results")
)

// Kind names the failure class of err, for status pages and metric labels.
// Unknown errors yield "Unknown".
func Kind(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, ErrNoAPIKey):
		return "NoApiKey"
	case errors.Is(err, ErrRequest):
		return "RequestError"
	case errors.Is(err, ErrResponse):
		return "ResponseError"
	case errors.Is(err, ErrDecode):
		return "DeserializeError"
	case errors.Is(err, ErrNoResults):
		return "NoResults"
	default:
		return "Unknown"
	}
}
