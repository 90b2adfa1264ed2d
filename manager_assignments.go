package grantkit

import (
	"context"
)

// ============================================================================
// ASSIGNMENT OPERATIONS
// ============================================================================

// Assign grants a role to a user. The user identifier is an opaque token this
// layer never validates. Assigning the same pair twice is a caller error: the
// store's uniqueness violation propagates unmodified, with no pre-check here.
// Callers wanting idempotence ask GetAssignment or HasAssignment first.
//
// Example:
//
//	assignment, err := manager.Assign(ctx, editorRole, "42")
func (m *Manager) Assign(ctx context.Context, role *Item, userID string) (*Assignment, error) {
	assignment, err := m.assignments.assign(ctx, role.Name, userID)
	if err != nil {
		return nil, err
	}

	_ = m.logAudit(ctx, &AuditEntry{
		ActorID:      GetActorID(ctx),
		Action:       AuditActionAssigned,
		TargetUserID: userID,
		ItemName:     role.Name,
		IPAddress:    GetIPAddress(ctx),
		UserAgent:    GetUserAgent(ctx),
		RequestID:    GetRequestID(ctx),
	})

	return assignment, nil
}

// AssignMultiple grants many user→role pairs in a single batched insert
// inside one transaction. More efficient than calling Assign per pair.
func (m *Manager) AssignMultiple(ctx context.Context, assignments []*Assignment) error {
	return m.Transaction(ctx, func(ctx context.Context, tm *Manager) error {
		if err := tm.assignments.batchAssign(ctx, assignments); err != nil {
			return err
		}

		for _, a := range assignments {
			_ = tm.logAudit(ctx, &AuditEntry{
				ActorID:      GetActorID(ctx),
				Action:       AuditActionAssigned,
				TargetUserID: a.UserID,
				ItemName:     a.RoleName,
				IPAddress:    GetIPAddress(ctx),
				UserAgent:    GetUserAgent(ctx),
				RequestID:    GetRequestID(ctx),
			})
		}
		return nil
	})
}

// Revoke removes a user's grant on a role, reporting whether it existed.
func (m *Manager) Revoke(ctx context.Context, role *Item, userID string) (bool, error) {
	revoked, err := m.assignments.revoke(ctx, role.Name, userID)
	if err != nil {
		return false, err
	}

	if revoked {
		_ = m.logAudit(ctx, &AuditEntry{
			ActorID:      GetActorID(ctx),
			Action:       AuditActionRevoked,
			TargetUserID: userID,
			ItemName:     role.Name,
			IPAddress:    GetIPAddress(ctx),
			UserAgent:    GetUserAgent(ctx),
			RequestID:    GetRequestID(ctx),
		})
	}

	return revoked, nil
}

// RevokeAll removes every grant held by a user, reporting whether any existed.
func (m *Manager) RevokeAll(ctx context.Context, userID string) (bool, error) {
	return m.assignments.revokeAll(ctx, userID)
}

// GetAssignment fetches the (user, role) grant. Returns nil without error
// when absent. The returned value carries the trimmed contract only: user,
// role name and creation time.
func (m *Manager) GetAssignment(ctx context.Context, roleName, userID string) (*Assignment, error) {
	return m.assignments.one(ctx, roleName, userID)
}

// GetAssignments returns all of a user's grants keyed by role name.
func (m *Manager) GetAssignments(ctx context.Context, userID string) (map[string]*Assignment, error) {
	return m.assignments.forUser(ctx, userID)
}

// GetAssignedRoleNames returns only the names of the roles a user is
// assigned to. Cheaper than GetAssignments when the rows are not needed.
func (m *Manager) GetAssignedRoleNames(ctx context.Context, userID string) ([]string, error) {
	return m.assignments.roleNames(ctx, userID)
}

// HasAssignment reports whether the (user, role) grant exists. Cheaper than
// GetAssignment when the row itself is not needed.
func (m *Manager) HasAssignment(ctx context.Context, roleName, userID string) (bool, error) {
	return m.assignments.exists(ctx, roleName, userID)
}

// CountAssignments returns the number of grants held by a user.
func (m *Manager) CountAssignments(ctx context.Context, userID string) (int, error) {
	return m.assignments.count(ctx, userID)
}
