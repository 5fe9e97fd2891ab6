package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		maxBytes int64
		want     domain.Payload
		wantErr  error
	}{
		{
			name: "object",
			body: `{"content":"Buy milk","priority":2,"dueDate":null}`,
			want: domain.Payload{"content": "Buy milk", "priority": json.Number("2"), "dueDate": nil},
		},
		{
			name: "empty body",
			body: "",
			want: domain.Payload{},
		},
		{
			name:    "whitespace only",
			body:    "   ",
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "trailing comma",
			body:    `{"content":"x",}`,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "array",
			body:    `[{"content":"x"}]`,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "null",
			body:    `null`,
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "trailing data",
			body:    `{"a":1}{"b":2}`,
			wantErr: ErrInvalidJSON,
		},
		{
			name:     "too large",
			body:     `{"content":"` + strings.Repeat("x", 64) + `"}`,
			maxBytes: 32,
			wantErr:  ErrBodyTooLarge,
		},
		{
			name:     "exactly at limit",
			body:     `{"a":"bc"}`,
			maxBytes: 10,
			want:     domain.Payload{"a": "bc"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(tc.body))

			got, err := DecodePayload(req, tc.maxBytes)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBodyErrorMessage(t *testing.T) {
	assert.Equal(t, "Body too large", BodyErrorMessage(ErrBodyTooLarge))
	assert.Equal(t, "Invalid JSON body", BodyErrorMessage(ErrInvalidJSON))
}

type loginLike struct {
	Username string `validate:"required"`
}

type selfValidating struct{ err error }

func (s selfValidating) Validate() error { return s.err }

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(loginLike{Username: "admin"}))
	assert.Error(t, ValidateRequest(loginLike{}))

	assert.NoError(t, ValidateRequest(selfValidating{}))
	assert.ErrorIs(t, ValidateRequest(selfValidating{err: ErrInvalidJSON}), ErrInvalidJSON)
}
