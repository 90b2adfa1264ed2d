package grantkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// AccessChecker defines the access check interface
type AccessChecker interface {
	CheckAccess(ctx context.Context, userID, itemName string, params map[string]any) (bool, error)
}

// ItemManager defines the item management interface
type ItemManager interface {
	CreateRole(name string) *Item
	CreatePermission(name string) *Item
	GetItem(ctx context.Context, name string) (*Item, error)
	GetItemByID(ctx context.Context, id string) (*Item, error)
	GetItems(ctx context.Context, kind ItemKind, exclude ...string) (map[string]*Item, error)
	GetRole(ctx context.Context, name string) (*Item, error)
	GetPermission(ctx context.Context, name string) (*Item, error)
	AddItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, id string, item *Item) (bool, error)
	RemoveItem(ctx context.Context, item *Item) (bool, error)
}

// RuleManager defines the rule management interface
type RuleManager interface {
	GetRule(ctx context.Context, name string) (Rule, error)
	GetRules(ctx context.Context) (map[string]Rule, error)
	AddRule(ctx context.Context, name, typeTag string, config any) error
	UpdateRule(ctx context.Context, name, newName, typeTag string, config any) (bool, error)
	RemoveRule(ctx context.Context, name string) (bool, error)
}

// HierarchyManager defines the hierarchy management interface
type HierarchyManager interface {
	AddChild(ctx context.Context, parent, child *Item) error
	RemoveChild(ctx context.Context, parent, child *Item) (bool, error)
	RemoveChildren(ctx context.Context, parent *Item) (bool, error)
	GetChildren(ctx context.Context, parentID string) (map[string]*Item, error)
	GetParents(ctx context.Context, childID string) ([]*Item, error)
	HasChild(ctx context.Context, parent, child *Item) (bool, error)
}

// AssignmentManager defines the assignment management interface
type AssignmentManager interface {
	Assign(ctx context.Context, role *Item, userID string) (*Assignment, error)
	AssignMultiple(ctx context.Context, assignments []*Assignment) error
	Revoke(ctx context.Context, role *Item, userID string) (bool, error)
	RevokeAll(ctx context.Context, userID string) (bool, error)
	GetAssignment(ctx context.Context, roleName, userID string) (*Assignment, error)
	GetAssignments(ctx context.Context, userID string) (map[string]*Assignment, error)
	GetAssignedRoleNames(ctx context.Context, userID string) ([]string, error)
	HasAssignment(ctx context.Context, roleName, userID string) (bool, error)
	CountAssignments(ctx context.Context, userID string) (int, error)
}

// BulkQuerier defines the bulk permission query interface
type BulkQuerier interface {
	GetItemsByUser(ctx context.Context, userID string) (map[string]*Item, error)
	GetRolesByUser(ctx context.Context, userID string) (map[string]*Item, error)
	GetPermissionsByRole(ctx context.Context, roleName string) (map[string]*Item, error)
	GetPermissionsByUser(ctx context.Context, userID string) (map[string]*Item, error)
}

// TransactionManager defines the transaction management interface
type TransactionManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context, tx *Manager) error) error
	TransactionWithOptions(ctx context.Context, opts dbkit.TxOptions, fn func(ctx context.Context, tx *Manager) error) error
	ReadOnlyTransaction(ctx context.Context, fn func(ctx context.Context, tx *Manager) error) error
}

// MigrationProvider defines the migration listing interface
type MigrationProvider interface {
	Migrations() []dbkit.Migration
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// PoolManager defines the connection pool management interface
type PoolManager interface {
	ConfigureConnectionPool(config PoolConfig) error
	GetConnectionPoolConfig() (*PoolConfig, error)
	ResetConnectionPool() error
}

// AuditReader defines the audit log query interface
type AuditReader interface {
	GetAuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditLog, error)
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}
