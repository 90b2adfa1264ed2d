package grantkit

import (
	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required for GrantKit.
// Use dbkit.Migrate(ctx, manager.Migrations()) to run them.
func (m *Manager) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "grantkit-001",
			Description: "Create auth_items table",
			SQL: `
                CREATE TABLE IF NOT EXISTS auth_items (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    name TEXT NOT NULL UNIQUE,
                    type TEXT NOT NULL CHECK (type IN ('role', 'permission')),
                    description TEXT,
                    rule_name TEXT,
                    data JSONB,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "grantkit-002",
			Description: "Create auth_rules table",
			SQL: `
                CREATE TABLE IF NOT EXISTS auth_rules (
                    name TEXT PRIMARY KEY,
                    data JSONB NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "grantkit-003",
			Description: "Create auth_item_hierarchy table",
			SQL: `
                CREATE TABLE IF NOT EXISTS auth_item_hierarchy (
                    parent_item_id UUID NOT NULL REFERENCES auth_items (id),
                    child_item_id UUID NOT NULL REFERENCES auth_items (id),
                    PRIMARY KEY (parent_item_id, child_item_id)
                )`,
		},
		{
			ID:          "grantkit-004",
			Description: "Create auth_assignments table",
			SQL: `
                CREATE TABLE IF NOT EXISTS auth_assignments (
                    user_id TEXT NOT NULL,
                    item_name TEXT NOT NULL,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    PRIMARY KEY (user_id, item_name)
                )`,
		},
		{
			ID:          "grantkit-005",
			Description: "Create auth_audit_log table",
			SQL: `
                CREATE TABLE IF NOT EXISTS auth_audit_log (
                    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
                    timestamp TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    actor_id TEXT,
                    action TEXT NOT NULL,
                    target_user_id TEXT,
                    item_name TEXT NOT NULL,
                    ip_address TEXT,
                    user_agent TEXT,
                    request_id TEXT
                )`,
		},
		{
			ID:          "grantkit-006",
			Description: "Index hierarchy child lookups and assignment scans",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_auth_item_hierarchy_child
                    ON auth_item_hierarchy (child_item_id);
                CREATE INDEX IF NOT EXISTS idx_auth_assignments_item_name
                    ON auth_assignments (item_name)`,
		},
	}
}
