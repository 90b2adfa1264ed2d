package grantkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// ============================================================================
// BULK QUERIES
// ============================================================================
//
// Unlike CheckAccess, which walks upward from one item, the bulk queries ask
// "list everything": they load the whole edge set as an adjacency map once
// and recurse downward from each starting role, amortizing one table scan
// instead of one query per node.

// GetItemsByUser returns every item (role or permission) directly assigned to
// the user, keyed by name.
func (m *Manager) GetItemsByUser(ctx context.Context, userID string) (map[string]*Item, error) {
	if userID == "" {
		return map[string]*Item{}, nil
	}

	var rows []Item
	err := dbkit.WithErr1(m.db.NewSelect().Model(&rows).
		Join("JOIN auth_assignments AS aa ON aa.item_name = ai.name").
		Where("aa.user_id = ?", userID).
		Scan(ctx), "GetItemsByUser").Err()
	if err != nil {
		return nil, err
	}

	items := make(map[string]*Item, len(rows))
	for i := range rows {
		rows[i].normalize()
		items[rows[i].Name] = &rows[i]
	}
	return items, nil
}

// GetRolesByUser returns the roles directly assigned to the user, keyed by
// name.
func (m *Manager) GetRolesByUser(ctx context.Context, userID string) (map[string]*Item, error) {
	assigned, err := m.GetItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles := make(map[string]*Item, len(assigned))
	for name, item := range assigned {
		if item.IsRole() {
			roles[name] = item
		}
	}
	return roles, nil
}

// GetPermissionsByRole returns every permission reachable from the named role
// through any chain of hierarchy edges, keyed by name. Rules are not
// evaluated here; this is the raw reachable set.
func (m *Manager) GetPermissionsByRole(ctx context.Context, roleName string) (map[string]*Item, error) {
	role, err := m.items.byName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return map[string]*Item{}, nil
	}

	adjacency, err := m.hierarchy.childrenList(ctx)
	if err != nil {
		return nil, err
	}

	reachable := descendants(adjacency, role.ID)
	return m.permissionsByID(ctx, reachable)
}

// GetPermissionsByUser returns every permission the user's assignments reach,
// keyed by name: permissions assigned directly plus everything reachable
// downward from assigned roles. For rule-free hierarchies this agrees with
// CheckAccess item by item.
func (m *Manager) GetPermissionsByUser(ctx context.Context, userID string) (map[string]*Item, error) {
	assigned, err := m.GetItemsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(assigned) == 0 {
		return map[string]*Item{}, nil
	}

	adjacency, err := m.hierarchy.childrenList(ctx)
	if err != nil {
		return nil, err
	}

	permissions := make(map[string]*Item)
	reachable := make(map[string]struct{})
	for _, item := range assigned {
		if item.IsPermission() {
			permissions[item.Name] = item
		}
		for id := range descendants(adjacency, item.ID) {
			reachable[id] = struct{}{}
		}
	}

	below, err := m.permissionsByID(ctx, reachable)
	if err != nil {
		return nil, err
	}
	for name, item := range below {
		permissions[name] = item
	}
	return permissions, nil
}

// permissionsByID loads the permission items among the given identifiers,
// keyed by name.
func (m *Manager) permissionsByID(ctx context.Context, ids map[string]struct{}) (map[string]*Item, error) {
	if len(ids) == 0 {
		return map[string]*Item{}, nil
	}

	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}

	var rows []Item
	err := dbkit.WithErr1(m.db.NewSelect().Model(&rows).
		Where("type = ?", KindPermission).
		Where("id IN (?)", bun.In(list)).
		Scan(ctx), "GetPermissionsByID").Err()
	if err != nil {
		return nil, err
	}

	permissions := make(map[string]*Item, len(rows))
	for i := range rows {
		rows[i].normalize()
		permissions[rows[i].Name] = &rows[i]
	}
	return permissions, nil
}

// descendants collects every identifier reachable below start in the
// adjacency map. Explicit stack, fresh result set: no shared mutable
// accumulator across calls.
func descendants(adjacency map[string][]string, start string) map[string]struct{} {
	result := make(map[string]struct{})
	stack := []string{start}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range adjacency[node] {
			if _, seen := result[child]; seen {
				continue
			}
			result[child] = struct{}{}
			stack = append(stack, child)
		}
	}

	return result
}
