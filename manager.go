package grantkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Manager is the authorization engine: it composes the item, rule, hierarchy
// and assignment stores over one database handle and implements the recursive
// access check. It is stateless between calls; every check re-reads
// assignments and items fresh, so concurrent callers only contend in the
// backing store.
//
// Error Handling:
// All database operations use dbkit's chainable error wrapping to provide
// detailed context about failed operations. Structural hierarchy violations
// are distinct error kinds checkable with IsSelfReference, IsInvalidHierarchy
// and IsCycleDetected:
//
//	err := manager.AddChild(ctx, perm, role)
//	if grantkit.IsInvalidHierarchy(err) {
//	    // a permission may never parent a role
//	}
type Manager struct {
	db    dbkit.IDB
	rules *RuleRegistry

	items       itemStore
	ruleRows    ruleStore
	hierarchy   hierarchyStore
	assignments assignmentStore

	defaultRoles  map[string]struct{}
	nativeCascade bool
	auditEnabled  bool

	txMonitor *transactionMonitor
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefaultRoles names roles granted to every user without an assignment
// row. A check reaching a default role succeeds exactly as if the role were
// assigned.
func WithDefaultRoles(names ...string) Option {
	return func(m *Manager) {
		for _, name := range names {
			m.defaultRoles[name] = struct{}{}
		}
	}
}

// WithNativeCascade declares that the backing store's foreign keys cascade
// updates and deletes, so the Manager skips its manual cleanup statements.
// This is a capability the store adapter declares, never inferred from the
// driver name.
func WithNativeCascade() Option {
	return func(m *Manager) {
		m.nativeCascade = true
	}
}

// WithoutAuditLog disables the audit trail rows written on assignment and
// item mutations.
func WithoutAuditLog() Option {
	return func(m *Manager) {
		m.auditEnabled = false
	}
}

// NewManager creates an authorization Manager.
//
// Example:
//
//	registry := grantkit.NewRuleRegistry()
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	manager := grantkit.NewManager(registry, db, grantkit.WithDefaultRoles("guest"))
func NewManager(registry *RuleRegistry, db dbkit.IDB, opts ...Option) *Manager {
	m := &Manager{
		db:           db,
		rules:        registry,
		defaultRoles: make(map[string]struct{}),
		auditEnabled: true,
		txMonitor:    newTransactionMonitor(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.bindStores(db)
	return m
}

// Registry returns the rule registry.
func (m *Manager) Registry() *RuleRegistry {
	return m.rules
}

func (m *Manager) bindStores(db dbkit.IDB) {
	m.items = itemStore{db: db, nativeCascade: m.nativeCascade}
	m.ruleRows = ruleStore{db: db, nativeCascade: m.nativeCascade}
	m.hierarchy = hierarchyStore{db: db}
	m.assignments = assignmentStore{db: db}
}

// withDB returns a shallow copy of the Manager bound to another database
// handle, typically a transaction.
func (m *Manager) withDB(db dbkit.IDB) *Manager {
	tm := *m
	tm.db = db
	tm.bindStores(db)
	return &tm
}

// CreateRole returns an unpersisted role item with only the name set. Persist
// it with AddItem.
func (m *Manager) CreateRole(name string) *Item {
	return NewRole(name)
}

// CreatePermission returns an unpersisted permission item with only the name
// set. Persist it with AddItem.
func (m *Manager) CreatePermission(name string) *Item {
	return NewPermission(name)
}

// ClearAll removes all authorization data: assignments, hierarchy edges,
// items and rules.
func (m *Manager) ClearAll(ctx context.Context) error {
	return m.Transaction(ctx, func(ctx context.Context, tm *Manager) error {
		if err := tm.assignments.clear(ctx); err != nil {
			return err
		}
		if err := tm.hierarchy.clear(ctx); err != nil {
			return err
		}
		if err := tm.items.clear(ctx); err != nil {
			return err
		}
		return tm.ruleRows.clear(ctx)
	})
}

// ClearAssignments removes all user→role grants.
func (m *Manager) ClearAssignments(ctx context.Context) error {
	return m.assignments.clear(ctx)
}

// logAudit writes an audit trail row. Audit failures never fail the mutation
// they describe.
func (m *Manager) logAudit(ctx context.Context, entry *AuditEntry) error {
	if !m.auditEnabled {
		return nil
	}
	_, err := m.db.NewInsert().Model(entry.ToModel()).Exec(ctx)
	return dbkit.WithErr1(err, "LogAudit").Err()
}
