package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeRequestView struct {
	owner, guildID, status string
}

func (f fakeRequestView) OwnerID() string        { return f.owner }
func (f fakeRequestView) RequestGuildID() string { return f.guildID }
func (f fakeRequestView) StatusString() string   { return f.status }

func TestCanCreateRequest_RequiresAdminAndGuildMembership(t *testing.T) {
	admin := AuthContext{UserID: "u1", IsAdmin: true, GuildIDs: map[string]struct{}{"g1": {}}}
	assert.True(t, CanCreateRequest(admin, "g1"))
	assert.False(t, CanCreateRequest(admin, "g2"))

	nonAdmin := AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{"g1": {}}}
	assert.False(t, CanCreateRequest(nonAdmin, "g1"))
}

func TestCanViewRequest_OwnerOrSuperAdminOrGuildAdmin(t *testing.T) {
	r := fakeRequestView{owner: "u1", guildID: "g1", status: "open"}

	owner := AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{}}
	assert.True(t, CanViewRequest(owner, r))

	superAdmin := AuthContext{UserID: "root", IsSuperAdmin: true, GuildIDs: map[string]struct{}{}}
	assert.True(t, CanViewRequest(superAdmin, r))

	guildAdmin := AuthContext{UserID: "admin", IsAdmin: true, GuildIDs: map[string]struct{}{"g1": {}}}
	assert.True(t, CanViewRequest(guildAdmin, r))

	stranger := AuthContext{UserID: "stranger", GuildIDs: map[string]struct{}{}}
	assert.False(t, CanViewRequest(stranger, r))
}

func TestCanCancelRequest_OnlyOwnerAndOnlyWhileOpen(t *testing.T) {
	open := fakeRequestView{owner: "u1", guildID: "g1", status: "open"}
	closed := fakeRequestView{owner: "u1", guildID: "g1", status: "closed"}
	owner := AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{}}

	assert.True(t, CanCancelRequest(owner, open))
	assert.False(t, CanCancelRequest(owner, closed))

	other := AuthContext{UserID: "someone-else", GuildIDs: map[string]struct{}{}}
	assert.False(t, CanCancelRequest(other, open))
}

func TestCanCommentOnRequest_RequiresViewerAndOpenStatus(t *testing.T) {
	open := fakeRequestView{owner: "u1", guildID: "g1", status: "open"}
	closed := fakeRequestView{owner: "u1", guildID: "g1", status: "closed"}
	owner := AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{}}

	assert.True(t, CanCommentOnRequest(owner, open))
	assert.False(t, CanCommentOnRequest(owner, closed))
}

func TestCanChangeRequestStatusAndCanDeleteRequest_SuperAdminOnly(t *testing.T) {
	r := fakeRequestView{owner: "u1", guildID: "g1", status: "open"}
	admin := AuthContext{UserID: "admin", IsAdmin: true, GuildIDs: map[string]struct{}{"g1": {}}}
	superAdmin := AuthContext{UserID: "root", IsSuperAdmin: true}

	assert.False(t, CanChangeRequestStatus(admin, r))
	assert.True(t, CanChangeRequestStatus(superAdmin, r))
	assert.False(t, CanDeleteRequest(admin, r))
	assert.True(t, CanDeleteRequest(superAdmin, r))
}

func TestRequiresGuildMembership(t *testing.T) {
	ctx := AuthContext{UserID: "u1", GuildIDs: map[string]struct{}{"g1": {}}}
	assert.NoError(t, RequiresGuildMembership(ctx, "g1"))

	err := RequiresGuildMembership(ctx, "g2")
	assert.Error(t, err)
	assert.Equal(t, 403, err.(*AuthorizationError).HTTPError().StatusCode)
}
