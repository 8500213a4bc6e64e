package authz

import "github.com/julianstephens/photo-gallery-sub001/internal/pkg/apperrors"

// AuthContext is the session context produced by the external OAuth
// collaborator (spec §3/§4.7). It never persists server-side beyond the
// request; it is decoded fresh from the upstream session assertion.
type AuthContext struct {
	UserID       string
	IsAdmin      bool
	IsSuperAdmin bool
	GuildIDs     map[string]struct{}
}

// HasGuild reports whether guildId is one of the context's guilds.
func (c AuthContext) HasGuild(guildID string) bool {
	_, ok := c.GuildIDs[guildID]
	return ok
}

// RequestView is the subset of a UserRequest the capability predicates
// need. domain/request's UserRequest satisfies this without authz
// depending on that package.
type RequestView interface {
	OwnerID() string
	RequestGuildID() string
	StatusString() string
}

// AuthorizationError is the typed failure spec §4.7 names: message, action,
// optional resourceId, surfaced as 403 AUTHORIZATION_ERROR.
type AuthorizationError struct {
	Message    string
	Action     string
	ResourceID string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// HTTPError converts the authorization failure into the app's standard
// error envelope.
func (e *AuthorizationError) HTTPError() *apperrors.HTTPError {
	details := map[string]string{"action": e.Action}
	if e.ResourceID != "" {
		details["resourceId"] = e.ResourceID
	}
	return apperrors.NewWithDetails(403, apperrors.ErrAuthorizationDenied, e.Message, details)
}

func denied(action, resourceID string) *AuthorizationError {
	return &AuthorizationError{
		Message:    "you do not have permission to perform this action",
		Action:     action,
		ResourceID: resourceID,
	}
}

// CanCreateRequest: admin of that guild.
func CanCreateRequest(ctx AuthContext, guildID string) bool {
	return ctx.IsAdmin && ctx.HasGuild(guildID)
}

// CanViewRequest: owner OR superAdmin OR admin of r.guildId.
func CanViewRequest(ctx AuthContext, r RequestView) bool {
	if ctx.UserID == r.OwnerID() || ctx.IsSuperAdmin {
		return true
	}
	return ctx.IsAdmin && ctx.HasGuild(r.RequestGuildID())
}

// CanCancelRequest: owner AND r.status == open.
func CanCancelRequest(ctx AuthContext, r RequestView) bool {
	return ctx.UserID == r.OwnerID() && r.StatusString() == "open"
}

// CanCommentOnRequest: viewer AND r.status == open.
func CanCommentOnRequest(ctx AuthContext, r RequestView) bool {
	return CanViewRequest(ctx, r) && r.StatusString() == "open"
}

// CanChangeRequestStatus: superAdmin.
func CanChangeRequestStatus(ctx AuthContext, r RequestView) bool {
	return ctx.IsSuperAdmin
}

// CanDeleteRequest: superAdmin.
func CanDeleteRequest(ctx AuthContext, r RequestView) bool {
	return ctx.IsSuperAdmin
}

// CanListRequests: admin.
func CanListRequests(ctx AuthContext) bool {
	return ctx.IsAdmin
}

// RequiresGuildMembership resolves guildId from whatever source the caller
// extracted it from (query, body, route, header, upload metadata) and
// checks it against ctx.GuildIDs.
func RequiresGuildMembership(ctx AuthContext, guildID string) error {
	if !ctx.HasGuild(guildID) {
		return denied("requiresGuildMembership", guildID)
	}
	return nil
}

// RequireCreateRequest is the guard form used by handlers: returns an
// AuthorizationError rather than a bool, so handlers can return it directly.
func RequireCreateRequest(ctx AuthContext, guildID string) error {
	if !CanCreateRequest(ctx, guildID) {
		return denied("createRequest", guildID)
	}
	return nil
}

func RequireViewRequest(ctx AuthContext, r RequestView, resourceID string) error {
	if !CanViewRequest(ctx, r) {
		return denied("viewRequest", resourceID)
	}
	return nil
}

func RequireCancelRequest(ctx AuthContext, r RequestView, resourceID string) error {
	if !CanCancelRequest(ctx, r) {
		return denied("cancelRequest", resourceID)
	}
	return nil
}

func RequireCommentOnRequest(ctx AuthContext, r RequestView, resourceID string) error {
	if !CanCommentOnRequest(ctx, r) {
		return denied("commentOnRequest", resourceID)
	}
	return nil
}

func RequireChangeRequestStatus(ctx AuthContext, r RequestView, resourceID string) error {
	if !CanChangeRequestStatus(ctx, r) {
		return denied("changeRequestStatus", resourceID)
	}
	return nil
}

func RequireDeleteRequest(ctx AuthContext, r RequestView, resourceID string) error {
	if !CanDeleteRequest(ctx, r) {
		return denied("deleteRequest", resourceID)
	}
	return nil
}

func RequireListRequests(ctx AuthContext) error {
	if !CanListRequests(ctx) {
		return denied("listRequests", "")
	}
	return nil
}
