// Package types holds the wire envelopes shared by every endpoint.
package types

// SuccessEnvelope wraps all 2xx payloads under a data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the machine-readable error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
