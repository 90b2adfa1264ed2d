package grantkit

import (
	"context"
)

// ============================================================================
// ITEM OPERATIONS
// ============================================================================

// GetItem fetches an item by name. Returns nil without error when no item
// carries the name; unknown items are not an error at this layer.
func (m *Manager) GetItem(ctx context.Context, name string) (*Item, error) {
	return m.items.byName(ctx, name)
}

// GetItemByID fetches an item by its store-assigned identifier.
func (m *Manager) GetItemByID(ctx context.Context, id string) (*Item, error) {
	return m.items.byID(ctx, id)
}

// GetItems returns items keyed by identifier. Pass an empty kind for both
// kinds; exclude names are filtered from the result.
func (m *Manager) GetItems(ctx context.Context, kind ItemKind, exclude ...string) (map[string]*Item, error) {
	return m.items.list(ctx, kind, exclude)
}

// GetRole fetches an item by name and returns it only when it is a role.
func (m *Manager) GetRole(ctx context.Context, name string) (*Item, error) {
	item, err := m.items.byName(ctx, name)
	if err != nil || item == nil {
		return nil, err
	}
	if !item.IsRole() {
		return nil, nil
	}
	return item, nil
}

// GetPermission fetches an item by name and returns it only when it is a
// permission.
func (m *Manager) GetPermission(ctx context.Context, name string) (*Item, error) {
	item, err := m.items.byName(ctx, name)
	if err != nil || item == nil {
		return nil, err
	}
	if !item.IsPermission() {
		return nil, nil
	}
	return item, nil
}

// AddItem persists an item created with CreateRole or CreatePermission. The
// store assigns the identifier; created/updated timestamps are set to now
// when absent.
func (m *Manager) AddItem(ctx context.Context, item *Item) error {
	if err := m.items.add(ctx, item); err != nil {
		return err
	}

	_ = m.logAudit(ctx, &AuditEntry{
		ActorID:   GetActorID(ctx),
		Action:    AuditActionItemAdded,
		ItemName:  item.Name,
		IPAddress: GetIPAddress(ctx),
		UserAgent: GetUserAgent(ctx),
		RequestID: GetRequestID(ctx),
	})

	return nil
}

// UpdateItem rewrites the item stored under id, preserving the identifier
// unless the caller changed it. Identifier and name changes are propagated
// into hierarchy edges and assignments when the backing store lacks native
// cascading; the propagation and the row update run in one transaction so a
// concurrent reader never sees a half-renamed graph.
func (m *Manager) UpdateItem(ctx context.Context, id string, item *Item) (bool, error) {
	var updated bool
	err := m.Transaction(ctx, func(ctx context.Context, tm *Manager) error {
		var err error
		updated, err = tm.items.update(ctx, id, item)
		return err
	})
	return updated, err
}

// RemoveItem deletes an item, cascading to hierarchy edges referencing it on
// either side and to assignments referencing it by name. The cascade and the
// delete run in one transaction.
func (m *Manager) RemoveItem(ctx context.Context, item *Item) (bool, error) {
	if item.ID == "" {
		return false, NewError(ErrItemNotPersisted, "remove requires a stored item").WithItem(item.Name)
	}

	var removed bool
	err := m.Transaction(ctx, func(ctx context.Context, tm *Manager) error {
		var err error
		removed, err = tm.items.remove(ctx, item)
		return err
	})
	if err != nil {
		return false, err
	}

	if removed {
		_ = m.logAudit(ctx, &AuditEntry{
			ActorID:   GetActorID(ctx),
			Action:    AuditActionItemRemoved,
			ItemName:  item.Name,
			IPAddress: GetIPAddress(ctx),
			UserAgent: GetUserAgent(ctx),
			RequestID: GetRequestID(ctx),
		})
	}

	return removed, nil
}

// ============================================================================
// RULE OPERATIONS
// ============================================================================

// GetRule fetches a rule by name and decodes it through the registry.
// Returns nil when the rule is absent or its stored envelope is undecodable;
// both mean the rule never gates anything.
func (m *Manager) GetRule(ctx context.Context, name string) (Rule, error) {
	row, err := m.ruleRows.get(ctx, name)
	if err != nil || row == nil {
		return nil, err
	}
	return m.rules.Build(row.Data), nil
}

// GetRules returns all decodable rules keyed by name. Rows whose envelope no
// longer decodes (unknown type tag, malformed config) are omitted.
func (m *Manager) GetRules(ctx context.Context) (map[string]Rule, error) {
	rows, err := m.ruleRows.list(ctx)
	if err != nil {
		return nil, err
	}

	rules := make(map[string]Rule, len(rows))
	for name, row := range rows {
		if rule := m.rules.Build(row.Data); rule != nil {
			rules[name] = rule
		}
	}
	return rules, nil
}

// AddRule persists a named rule of the given registered type.
//
// Example:
//
//	err := manager.AddRule(ctx, "blog-only", grantkit.RuleTypeParamMatch,
//	    grantkit.ParamMatchRule{Param: "domain", Value: "blog"})
func (m *Manager) AddRule(ctx context.Context, name, typeTag string, config any) error {
	data, err := m.rules.Encode(typeTag, config)
	if err != nil {
		return err
	}
	return m.ruleRows.add(ctx, &RuleRow{Name: name, Data: data})
}

// UpdateRule rewrites the rule stored under name, optionally renaming it.
// A rename is propagated into items referencing the rule.
func (m *Manager) UpdateRule(ctx context.Context, name, newName, typeTag string, config any) (bool, error) {
	data, err := m.rules.Encode(typeTag, config)
	if err != nil {
		return false, err
	}

	var updated bool
	err = m.Transaction(ctx, func(ctx context.Context, tm *Manager) error {
		var err error
		updated, err = tm.ruleRows.update(ctx, name, &RuleRow{Name: newName, Data: data})
		return err
	})
	return updated, err
}

// RemoveRule deletes a rule, detaching items that referenced it. Their checks
// become unconditional.
func (m *Manager) RemoveRule(ctx context.Context, name string) (bool, error) {
	var removed bool
	err := m.Transaction(ctx, func(ctx context.Context, tm *Manager) error {
		var err error
		removed, err = tm.ruleRows.remove(ctx, name)
		return err
	})
	return removed, err
}
