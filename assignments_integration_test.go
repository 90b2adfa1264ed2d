package grantkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegrationAssignLifecycle tests grant, query and revoke
func TestIntegrationAssignLifecycle(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.MustAddRole(h.UniqueName("editor"))
	userID := h.CreateTestUser("user")

	assignment, err := h.manager.Assign(h.ctx, role, userID)
	require.NoError(t, err)
	require.NotNil(t, assignment)
	assert.Equal(t, userID, assignment.UserID)
	assert.Equal(t, role.Name, assignment.RoleName)
	assert.False(t, assignment.CreatedAt.IsZero())

	has, err := h.manager.HasAssignment(h.ctx, role.Name, userID)
	require.NoError(t, err)
	assert.True(t, has)

	count, err := h.manager.CountAssignments(h.ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	revoked, err := h.manager.Revoke(h.ctx, role, userID)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Revoking again reports the grant absent.
	revoked, err = h.manager.Revoke(h.ctx, role, userID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

// TestIntegrationAssignDuplicate tests that double assignment surfaces the
// store's uniqueness violation
func TestIntegrationAssignDuplicate(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.MustAddRole(h.UniqueName("editor"))
	userID := h.CreateTestUser("user")
	h.MustAssign(role, userID)

	_, err := h.manager.Assign(h.ctx, role, userID)
	assert.Error(t, err, "duplicate grants are a caller error, no silent upsert")
}

// TestIntegrationGetAssignmentAbsent tests that missing grants are not errors
func TestIntegrationGetAssignmentAbsent(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.MustAddRole(h.UniqueName("editor"))

	assignment, err := h.manager.GetAssignment(h.ctx, role.Name, h.CreateTestUser("nobody"))
	require.NoError(t, err)
	assert.Nil(t, assignment)
}

// TestIntegrationAssignMultiple tests the batched bulk grant
func TestIntegrationAssignMultiple(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	editor := h.MustAddRole(h.UniqueName("editor"))
	writer := h.MustAddRole(h.UniqueName("writer"))
	userID := h.CreateTestUser("user")

	err := h.manager.AssignMultiple(h.ctx, []*Assignment{
		{UserID: userID, RoleName: editor.Name},
		{UserID: userID, RoleName: writer.Name},
	})
	require.NoError(t, err)

	assignments, err := h.manager.GetAssignments(h.ctx, userID)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
	assert.Contains(t, assignments, editor.Name)
	assert.Contains(t, assignments, writer.Name)

	names, err := h.manager.GetAssignedRoleNames(h.ctx, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{editor.Name, writer.Name}, names)
}

// TestIntegrationRevokeAll tests removing every grant a user holds
func TestIntegrationRevokeAll(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	editor := h.MustAddRole(h.UniqueName("editor"))
	writer := h.MustAddRole(h.UniqueName("writer"))
	userID := h.CreateTestUser("user")
	h.MustAssign(editor, userID)
	h.MustAssign(writer, userID)

	revoked, err := h.manager.RevokeAll(h.ctx, userID)
	require.NoError(t, err)
	assert.True(t, revoked)

	count, err := h.manager.CountAssignments(h.ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	revoked, err = h.manager.RevokeAll(h.ctx, userID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

// TestIntegrationAuditTrail tests that grants and revocations are logged
func TestIntegrationAuditTrail(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.MustAddRole(h.UniqueName("editor"))
	userID := h.CreateTestUser("user")
	actorID := h.CreateTestUser("admin")

	ctx := WithActorID(h.ctx, actorID)
	_, err := h.manager.Assign(ctx, role, userID)
	require.NoError(t, err)
	_, err = h.manager.Revoke(ctx, role, userID)
	require.NoError(t, err)

	entries, err := h.manager.GetAuditLog(h.ctx, NewAuditLogFilter().WithTargetUser(userID))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, string(AuditActionRevoked), entries[0].Action)
	assert.Equal(t, string(AuditActionAssigned), entries[1].Action)
	for _, e := range entries {
		assert.Equal(t, actorID, e.ActorID)
		assert.Equal(t, role.Name, e.ItemName)
	}

	// Action filter narrows to one entry.
	entries, err = h.manager.GetAuditLog(h.ctx, NewAuditLogFilter().
		WithTargetUser(userID).
		WithAction(AuditActionAssigned))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, string(AuditActionAssigned), entries[0].Action)
}

// TestIntegrationAuditDisabled tests the WithoutAuditLog option
func TestIntegrationAuditDisabled(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	quiet := NewManager(NewRuleRegistry(), h.manager.db, WithoutAuditLog())

	role := h.MustAddRole(h.UniqueName("editor"))
	userID := h.CreateTestUser("user")

	_, err := quiet.Assign(h.ctx, role, userID)
	require.NoError(t, err)

	entries, err := h.manager.GetAuditLog(h.ctx, NewAuditLogFilter().WithTargetUser(userID))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
