package grantkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManagerOptions tests Manager construction options
func TestManagerOptions(t *testing.T) {
	registry := NewRuleRegistry()

	manager := NewManager(registry, nil)
	assert.Empty(t, manager.defaultRoles)
	assert.False(t, manager.nativeCascade)
	assert.True(t, manager.auditEnabled)
	assert.Equal(t, registry, manager.Registry())

	manager = NewManager(registry, nil,
		WithDefaultRoles("guest", "member"),
		WithNativeCascade(),
		WithoutAuditLog(),
	)
	assert.Len(t, manager.defaultRoles, 2)
	assert.Contains(t, manager.defaultRoles, "guest")
	assert.Contains(t, manager.defaultRoles, "member")
	assert.True(t, manager.nativeCascade)
	assert.False(t, manager.auditEnabled)
}

// TestManagerCreateItems tests the item factory methods
func TestManagerCreateItems(t *testing.T) {
	manager := NewManager(NewRuleRegistry(), nil)

	role := manager.CreateRole("admin")
	require.NotNil(t, role)
	assert.True(t, role.IsRole())
	assert.Empty(t, role.ID)

	perm := manager.CreatePermission("publish-post")
	require.NotNil(t, perm)
	assert.True(t, perm.IsPermission())
}

// TestManagerMigrationsAreOrdered tests migration IDs are unique and ordered
func TestManagerMigrationsAreOrdered(t *testing.T) {
	manager := NewManager(NewRuleRegistry(), nil)

	migrations := manager.Migrations()
	require.NotEmpty(t, migrations)

	seen := make(map[string]struct{}, len(migrations))
	prev := ""
	for _, m := range migrations {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.SQL)
		_, dup := seen[m.ID]
		assert.False(t, dup, "duplicate migration ID %s", m.ID)
		seen[m.ID] = struct{}{}
		assert.Greater(t, m.ID, prev, "migrations must apply in lexical order")
		prev = m.ID
	}
}

// TestManagerTransactionMetrics tests the transaction monitor accessors
func TestManagerTransactionMetrics(t *testing.T) {
	manager := NewManager(NewRuleRegistry(), nil)

	metrics := manager.GetTransactionMetrics()
	assert.Zero(t, metrics.TotalTransactions)
	assert.True(t, manager.IsTransactionHealthy(), "no samples means healthy")

	manager.txMonitor.recordTransaction(10, true)
	manager.txMonitor.recordTransaction(20, false)

	metrics = manager.GetTransactionMetrics()
	assert.EqualValues(t, 2, metrics.TotalTransactions)
	assert.EqualValues(t, 1, metrics.SuccessfulTransactions)
	assert.EqualValues(t, 1, metrics.FailedTransactions)
	assert.EqualValues(t, 20, metrics.MaxDuration)
	assert.EqualValues(t, 10, metrics.MinDuration)

	manager.ResetTransactionMetrics()
	metrics = manager.GetTransactionMetrics()
	assert.Zero(t, metrics.TotalTransactions)
}
