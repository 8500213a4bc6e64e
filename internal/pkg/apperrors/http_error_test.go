package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_SetExpectedStatusAndCode(t *testing.T) {
	cases := []struct {
		name   string
		err    *HTTPError
		status int
		code   ErrorCode
	}{
		{"InvalidInput", InvalidInput("bad"), http.StatusBadRequest, ErrInvalidRequest},
		{"Unauthorized", Unauthorized("no token"), http.StatusUnauthorized, ErrUnauthorized},
		{"Forbidden", Forbidden("nope"), http.StatusForbidden, ErrForbidden},
		{"NotFound", NotFound("missing"), http.StatusNotFound, ErrNotFound},
		{"PayloadTooLarge", PayloadTooLarge("too big"), http.StatusRequestEntityTooLarge, ErrPayloadTooLarge},
		{"AuthorizationDenied", AuthorizationDenied("denied"), http.StatusForbidden, ErrAuthorizationDenied},
		{"Integrity", Integrity("checksum mismatch"), http.StatusInternalServerError, ErrIntegrity},
		{"RateLimitExceeded", RateLimitExceeded(30), http.StatusTooManyRequests, ErrRateLimitExceeded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.status, tc.err.StatusCode)
			assert.Equal(t, tc.code, tc.err.Code)
		})
	}
}

func TestInvalidStatusTransition_MessageNamesBothStates(t *testing.T) {
	err := InvalidStatusTransition("denied", "approved")
	assert.Contains(t, err.Message, "denied")
	assert.Contains(t, err.Message, "approved")
	assert.Equal(t, ErrInvalidStatusTransition, err.Code)
}

func TestWrap_UnwrapReturnsUnderlyingError(t *testing.T) {
	cause := errors.New("boom")
	err := InternalError("failed to do thing", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "failed to do thing")
}

func TestHTTPError_ErrorWithoutWrappedErr(t *testing.T) {
	err := NotFound("gallery not found")
	assert.Equal(t, "NOT_FOUND: gallery not found", err.Error())
}
