package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskdeck/internal/domain"
)

// DefaultMaxBodyBytes is the largest request body accepted by DecodePayload.
const DefaultMaxBodyBytes int64 = 1_000_000

// Request body errors.
var (
	ErrBodyTooLarge = errors.New("request body too large")
	ErrInvalidJSON  = errors.New("request body is not a JSON object")
)

// Client-facing messages for the request body errors.
const (
	MsgBodyTooLarge = "Body too large"
	MsgInvalidJSON  = "Invalid JSON body"
)

// BodyErrorMessage returns the client message for a DecodePayload error.
func BodyErrorMessage(err error) string {
	if errors.Is(err, ErrBodyTooLarge) {
		return MsgBodyTooLarge
	}
	return MsgInvalidJSON
}

// Global validator instance for reuse
var validate = validator.New()

// DecodePayload reads a JSON object from the request body.
// An empty body decodes to an empty payload. Bodies over maxBytes fail with
// ErrBodyTooLarge; anything that is not a single JSON object fails with
// ErrInvalidJSON. Numbers are kept as json.Number.
func DecodePayload(r *http.Request, maxBytes int64) (domain.Payload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	if r.Body == nil {
		return domain.Payload{}, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, ErrInvalidJSON
	}
	if int64(len(raw)) > maxBytes {
		return nil, ErrBodyTooLarge
	}
	if len(raw) == 0 {
		return domain.Payload{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil || payload == nil {
		return nil, ErrInvalidJSON
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrInvalidJSON
	}

	return domain.Payload(payload), nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v any) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
