package grantkit

import (
	"context"
)

// ============================================================================
// ACCESS CHECK
// ============================================================================

// CheckAccess reports whether userID may exercise the item (role or
// permission) named itemName, given the contextual params handed to rules.
// The user's assignments are loaded once, then the hierarchy is resolved
// upward from the requested item toward assigned roles: a single targeted
// check is far cheaper walking up than enumerating the user's full permission
// closure downward.
//
// Unknown items never grant access. An item's rule is evaluated before
// anything else at that node; rule failure short-circuits the node regardless
// of assignments or hierarchy position. params["user"] is populated with
// userID when the caller did not set it, on a copy so the caller's map is
// never mutated.
func (m *Manager) CheckAccess(ctx context.Context, userID, itemName string, params map[string]any) (bool, error) {
	assignments, err := m.assignments.forUser(ctx, userID)
	if err != nil {
		return false, err
	}

	checkParams := make(map[string]any, len(params)+1)
	for k, v := range params {
		checkParams[k] = v
	}
	if _, ok := checkParams["user"]; !ok {
		checkParams["user"] = userID
	}

	item, err := m.items.byName(ctx, itemName)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}

	return m.resolve(ctx, userID, item, checkParams, assignments)
}

// resolve walks upward from item. Grants when the item's rule passes and the
// item is a default role, directly assigned, or any parent resolves.
func (m *Manager) resolve(ctx context.Context, userID string, item *Item, params map[string]any, assignments map[string]*Assignment) (bool, error) {
	pass, err := m.executeRule(ctx, userID, item, params)
	if err != nil {
		return false, err
	}
	if !pass {
		return false, nil
	}

	if _, ok := m.defaultRoles[item.Name]; ok {
		return true, nil
	}
	if _, ok := assignments[item.Name]; ok {
		return true, nil
	}

	parents, err := m.hierarchy.parents(ctx, item.ID)
	if err != nil {
		return false, err
	}
	for _, parent := range parents {
		granted, err := m.resolve(ctx, userID, parent, params, assignments)
		if err != nil {
			return false, err
		}
		if granted {
			return true, nil
		}
	}

	return false, nil
}

// executeRule evaluates the item's associated rule. Items without a rule
// name, rules missing from the store, and rules whose stored envelope no
// longer decodes all pass unconditionally: an absent rule never gates.
func (m *Manager) executeRule(ctx context.Context, userID string, item *Item, params map[string]any) (bool, error) {
	if item.RuleName == "" {
		return true, nil
	}

	row, err := m.ruleRows.get(ctx, item.RuleName)
	if err != nil {
		return false, err
	}
	if row == nil {
		return true, nil
	}

	rule := m.rules.Build(row.Data)
	if rule == nil {
		return true, nil
	}

	return rule.Evaluate(ctx, userID, item, params)
}
