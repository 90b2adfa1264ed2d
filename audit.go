package grantkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// GetAuditLog retrieves audit log entries with optional filters.
//
// Example:
//
//	entries, err := manager.GetAuditLog(ctx, grantkit.NewAuditLogFilter().
//	    WithTargetUser("42").
//	    WithAction(grantkit.AuditActionAssigned).
//	    WithLimit(50))
func (m *Manager) GetAuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditLog, error) {
	var logs []AuditLog
	q := m.db.NewSelect().Model(&logs)
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.TargetUserID != "" {
		q = q.Where("target_user_id = ?", filter.TargetUserID)
	}
	if filter.ItemName != "" {
		q = q.Where("item_name = ?", filter.ItemName)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if !filter.Since.IsZero() {
		q = q.Where("timestamp >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("timestamp <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100 // Default limit
	}
	q = q.Limit(limit)

	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	q = q.Order("timestamp DESC")
	err := dbkit.WithErr1(q.Scan(ctx), "GetAuditLog").Err()
	if err != nil {
		return nil, err
	}

	return logs, nil
}
