package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition_AllowedFromOpen(t *testing.T) {
	for action, want := range map[RequestAction]RequestStatus{
		ActionCancel:  RequestCancelled,
		ActionApprove: RequestApproved,
		ActionDeny:    RequestDenied,
	} {
		got, err := ValidateTransition(RequestOpen, action)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestValidateTransition_OpenRejectsClose(t *testing.T) {
	_, err := ValidateTransition(RequestOpen, ActionClose)
	require.Error(t, err)
}

func TestValidateTransition_ApprovedOnlyAllowsClose(t *testing.T) {
	got, err := ValidateTransition(RequestApproved, ActionClose)
	require.NoError(t, err)
	assert.Equal(t, RequestClosed, got)

	_, err = ValidateTransition(RequestApproved, ActionApprove)
	require.Error(t, err)
}

func TestValidateTransition_TerminalStatesRejectEverything(t *testing.T) {
	for _, status := range []RequestStatus{RequestCancelled, RequestClosed} {
		for _, action := range []RequestAction{ActionCancel, ActionApprove, ActionDeny, ActionClose} {
			_, err := ValidateTransition(status, action)
			assert.Error(t, err, "status=%s action=%s", status, action)
		}
	}
}
