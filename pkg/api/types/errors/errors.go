package errors

// ErrorMessage is the error payload the API server responds with.
type ErrorMessage struct {
	Detail string `json:"detail,omitempty"`
	Code   string `json:"code,omitempty"`
}
