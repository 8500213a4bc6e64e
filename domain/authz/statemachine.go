package authz

import "github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"

// RequestStatus is a UserRequest lifecycle state (spec §3/§4.7).
type RequestStatus string

const (
	RequestOpen      RequestStatus = "open"
	RequestApproved  RequestStatus = "approved"
	RequestDenied    RequestStatus = "denied"
	RequestCancelled RequestStatus = "cancelled"
	RequestClosed    RequestStatus = "closed"
)

// RequestAction is a status-machine action that produces exactly one
// target status.
type RequestAction string

const (
	ActionCancel  RequestAction = "cancel"
	ActionApprove RequestAction = "approve"
	ActionDeny    RequestAction = "deny"
	ActionClose   RequestAction = "close"
)

var actionTarget = map[RequestAction]RequestStatus{
	ActionCancel:  RequestCancelled,
	ActionApprove: RequestApproved,
	ActionDeny:    RequestDenied,
	ActionClose:   RequestClosed,
}

// allowed[from] is the set of actions permitted from that status, per the
// table in spec §4.7.
var allowed = map[RequestStatus]map[RequestAction]bool{
	RequestOpen:      {ActionCancel: true, ActionApprove: true, ActionDeny: true},
	RequestApproved:  {ActionClose: true},
	RequestDenied:    {ActionClose: true},
	RequestCancelled: {},
	RequestClosed:    {},
}

// ValidateTransition checks whether action is permitted from from, per
// spec §4.7's status table. On success it returns the resulting status; on
// failure it returns an InvalidStatusTransition error.
func ValidateTransition(from RequestStatus, action RequestAction) (RequestStatus, error) {
	target := actionTarget[action]
	if allowed[from][action] {
		return target, nil
	}
	return "", apperrors.InvalidStatusTransition(string(from), string(target))
}
