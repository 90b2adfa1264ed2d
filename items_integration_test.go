package grantkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegrationItemLifecycle tests item creation, retrieval and removal
func TestIntegrationItemLifecycle(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	name := h.UniqueName("editor")
	role := h.MustAddRole(name)

	require.NotEmpty(t, role.ID, "store assigns the identifier")
	assert.False(t, role.CreatedAt.IsZero())
	assert.False(t, role.UpdatedAt.IsZero())

	fetched, err := h.manager.GetItem(h.ctx, name)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, role.ID, fetched.ID)
	assert.Equal(t, KindRole, fetched.Kind)

	byID, err := h.manager.GetItemByID(h.ctx, role.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, name, byID.Name)

	removed, err := h.manager.RemoveItem(h.ctx, role)
	require.NoError(t, err)
	assert.True(t, removed)

	gone, err := h.manager.GetItem(h.ctx, name)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// TestIntegrationGetItemUnknownName tests that unknown names are not errors
func TestIntegrationGetItemUnknownName(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	item, err := h.manager.GetItem(h.ctx, h.UniqueName("no-such-item"))
	require.NoError(t, err)
	assert.Nil(t, item)
}

// TestIntegrationKindFilteredGetters tests GetRole/GetPermission filtering
func TestIntegrationKindFilteredGetters(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	roleName := h.UniqueName("editor")
	permName := h.UniqueName("publish")
	h.MustAddRole(roleName)
	h.MustAddPermission(permName)

	role, err := h.manager.GetRole(h.ctx, roleName)
	require.NoError(t, err)
	require.NotNil(t, role)

	// A permission fetched through GetRole is filtered out, not an error.
	notRole, err := h.manager.GetRole(h.ctx, permName)
	require.NoError(t, err)
	assert.Nil(t, notRole)

	perm, err := h.manager.GetPermission(h.ctx, permName)
	require.NoError(t, err)
	require.NotNil(t, perm)

	notPerm, err := h.manager.GetPermission(h.ctx, roleName)
	require.NoError(t, err)
	assert.Nil(t, notPerm)
}

// TestIntegrationGetItemsExclude tests listing with kind and name exclusion
func TestIntegrationGetItemsExclude(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	keep := h.MustAddRole(h.UniqueName("keep"))
	skip := h.MustAddRole(h.UniqueName("skip"))

	items, err := h.manager.GetItems(h.ctx, KindRole, skip.Name)
	require.NoError(t, err)
	assert.Contains(t, items, keep.ID)
	assert.NotContains(t, items, skip.ID)
}

// TestIntegrationUpdateItemRenamePropagates tests rename cascade into
// assignments and hierarchy
func TestIntegrationUpdateItemRenamePropagates(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	role := h.MustAddRole(h.UniqueName("editor"))
	perm := h.MustAddPermission(h.UniqueName("publish"))
	h.MustAddChild(role, perm)

	userID := h.CreateTestUser("user")
	h.MustAssign(role, userID)

	newName := h.UniqueName("senior-editor")
	role.Name = newName
	updated, err := h.manager.UpdateItem(h.ctx, role.ID, role)
	require.NoError(t, err)
	assert.True(t, updated)

	// The assignment now references the new name.
	assignment, err := h.manager.GetAssignment(h.ctx, newName, userID)
	require.NoError(t, err)
	require.NotNil(t, assignment)

	// And the check still resolves through the renamed role.
	h.AssertAccess(userID, perm.Name, nil)
}

// TestIntegrationRemoveItemCascades tests that removal cleans edges and
// assignments
func TestIntegrationRemoveItemCascades(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	parent := h.MustAddRole(h.UniqueName("admin"))
	role := h.MustAddRole(h.UniqueName("editor"))
	perm := h.MustAddPermission(h.UniqueName("publish"))
	h.MustAddChild(parent, role)
	h.MustAddChild(role, perm)

	userID := h.CreateTestUser("user")
	h.MustAssign(role, userID)

	removed, err := h.manager.RemoveItem(h.ctx, role)
	require.NoError(t, err)
	assert.True(t, removed)

	// Edges on both sides are gone.
	children, err := h.manager.GetChildren(h.ctx, parent.ID)
	require.NoError(t, err)
	assert.NotContains(t, children, role.ID)

	parents, err := h.manager.GetParents(h.ctx, perm.ID)
	require.NoError(t, err)
	for _, p := range parents {
		assert.NotEqual(t, role.ID, p.ID)
	}

	// As is the assignment.
	assignment, err := h.manager.GetAssignment(h.ctx, role.Name, userID)
	require.NoError(t, err)
	assert.Nil(t, assignment)
}

// TestIntegrationRemoveItemRequiresID tests removal of an unpersisted item
func TestIntegrationRemoveItemRequiresID(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	_, err := h.manager.RemoveItem(h.ctx, NewRole("never-stored"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrItemNotPersisted)
}

// TestIntegrationRuleLifecycle tests rule storage, rename and removal
func TestIntegrationRuleLifecycle(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	ruleName := h.UniqueName("blog-only")
	err := h.manager.AddRule(h.ctx, ruleName, RuleTypeParamMatch,
		ParamMatchRule{Param: "domain", Value: "blog"})
	require.NoError(t, err)

	rule, err := h.manager.GetRule(h.ctx, ruleName)
	require.NoError(t, err)
	require.NotNil(t, rule)

	rules, err := h.manager.GetRules(h.ctx)
	require.NoError(t, err)
	assert.Contains(t, rules, ruleName)

	// Attach the rule to an item, then rename the rule: the item follows.
	perm := h.manager.CreatePermission(h.UniqueName("publish"))
	perm.RuleName = ruleName
	require.NoError(t, h.manager.AddItem(h.ctx, perm))

	newName := h.UniqueName("blog-only-v2")
	updated, err := h.manager.UpdateRule(h.ctx, ruleName, newName, RuleTypeParamMatch,
		ParamMatchRule{Param: "domain", Value: "blog"})
	require.NoError(t, err)
	assert.True(t, updated)

	refetched, err := h.manager.GetItem(h.ctx, perm.Name)
	require.NoError(t, err)
	require.NotNil(t, refetched)
	assert.Equal(t, newName, refetched.RuleName)

	// Removing the rule detaches it from the item.
	removed, err := h.manager.RemoveRule(h.ctx, newName)
	require.NoError(t, err)
	assert.True(t, removed)

	detached, err := h.manager.GetItem(h.ctx, perm.Name)
	require.NoError(t, err)
	require.NotNil(t, detached)
	assert.Empty(t, detached.RuleName)
}

// TestIntegrationGetRuleUnknownName tests that unknown rules are not errors
func TestIntegrationGetRuleUnknownName(t *testing.T) {
	h := NewTestDataHelper(t)
	if h == nil {
		return
	}

	rule, err := h.manager.GetRule(h.ctx, h.UniqueName("no-such-rule"))
	require.NoError(t, err)
	assert.Nil(t, rule)
}
