package dto

// ErrorsResponse is the validation failure envelope: field paths (possibly
// indexed into lines, e.g. "lines.0.debit_amount") mapped to one or more
// messages, with entry-level messages collected under "entry". Local and
// server-side validation failures share this one shape.
type ErrorsResponse struct {
	Errors map[string][]string `json:"errors"`
}

// NewErrorsResponse wraps a field error map in the wire envelope.
func NewErrorsResponse(errs map[string][]string) ErrorsResponse {
	return ErrorsResponse{Errors: errs}
}
