package grantkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Health performs a comprehensive health check of the database connection.
// Returns detailed status including latency, connection pool statistics, and
// error information.
func (m *Manager) Health(ctx context.Context) dbkit.HealthStatus {
	if db, ok := m.db.(*dbkit.DBKit); ok {
		return db.Health(ctx)
	}

	// Inside a transaction or a different handle type: basic ping only.
	return dbkit.HealthStatus{
		Healthy: m.IsHealthy(ctx),
		Error:   "Limited health check - not a DBKit instance",
	}
}

// IsHealthy performs a simple health check of the database connection.
// Returns true if the database is reachable, false otherwise.
func (m *Manager) IsHealthy(ctx context.Context) bool {
	if db, ok := m.db.(*dbkit.DBKit); ok {
		return db.IsHealthy(ctx)
	}
	return m.Ping(ctx) == nil
}

// Ping performs a basic connectivity test against the database.
func (m *Manager) Ping(ctx context.Context) error {
	var result int
	return m.db.NewSelect().Model((*struct{})(nil)).ColumnExpr("1").Limit(1).Scan(ctx, &result)
}

// GetPoolStats returns connection pool statistics for monitoring.
// Returns zero values if the database handle doesn't expose pool statistics.
func (m *Manager) GetPoolStats() dbkit.PoolStats {
	if db, ok := m.db.(*dbkit.DBKit); ok {
		return dbkit.PoolStatsFromSQL(db.Stats())
	}
	return dbkit.PoolStats{}
}
