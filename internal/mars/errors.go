package mars

import "errors"

var (
	// ErrRateLimited is returned when NASA answered HTTP 429.
	ErrRateLimited = errors.New("rate limited by remote service")
	// ErrNetwork covers timeouts, connectivity problems and unexpected HTTP statuses.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse is returned when the remote JSON has an unexpected shape.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrDataUnavailable means the weather feed contained no valid sols.
	ErrDataUnavailable = errors.New("no weather data available")
	// ErrNoPhotos means the photo query matched nothing.
	ErrNoPhotos = errors.New("no photos found")

	ErrUnknownRover  = errors.New("unknown rover")
	ErrUnknownCamera = errors.New("unknown camera for rover")
)

// Outcome is the user-facing classification of a fetch result.
type Outcome string

const (
	OutcomeOK                Outcome = "ok"
	OutcomeRateLimited       Outcome = "rate_limited"
	OutcomeDataUnavailable   Outcome = "data_unavailable"
	OutcomeNoPhotos          Outcome = "no_photos"
	OutcomeNetworkError      Outcome = "network_error"
	OutcomeMalformedResponse Outcome = "malformed_response"
	OutcomeBadRequest        Outcome = "bad_request"
)

// Classify maps any error from the service to exactly one Outcome.
// Errors it does not recognize are treated as network errors.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrRateLimited):
		return OutcomeRateLimited
	case errors.Is(err, ErrDataUnavailable):
		return OutcomeDataUnavailable
	case errors.Is(err, ErrNoPhotos):
		return OutcomeNoPhotos
	case errors.Is(err, ErrMalformedResponse):
		return OutcomeMalformedResponse
	case errors.Is(err, ErrUnknownRover), errors.Is(err, ErrUnknownCamera):
		return OutcomeBadRequest
	default:
		return OutcomeNetworkError
	}
}

// Empty reports whether the outcome is a valid, displayable "nothing to show" state.
func (o Outcome) Empty() bool {
	return o == OutcomeDataUnavailable || o == OutcomeNoPhotos
}

// Message is the text shown to the user for o.
func (o Outcome) Message() string {
	switch o {
	case OutcomeOK:
		return ""
	case OutcomeRateLimited:
		return "Rate limit exceeded. Please wait a moment before refreshing."
	case OutcomeDataUnavailable:
		return "Weather data unavailable. The InSight mission ended in December 2022."
	case OutcomeNoPhotos:
		return "No photos available for this rover and filter."
	case OutcomeBadRequest:
		return "Unsupported rover or camera."
	default:
		// Malformed responses are shown the same way as network failures.
		return "Data unavailable. NASA servers might be slow or unreachable; please try again later."
	}
}
