package grantkit

import (
	"context"
)

// ============================================================================
// HIERARCHY OPERATIONS
// ============================================================================

// AddChild inserts the parent→child edge, meaning holding child (or anything
// below it) satisfies a check on parent once parent's rule passes. The edge
// is rejected synchronously when it is self-referential (ErrSelfReference),
// when a permission would parent a role (ErrInvalidHierarchy), or when parent
// is already a descendant of child (ErrCycleDetected). The loop probe and the
// insert run in one transaction so a racing writer cannot slip a cycle
// between them on stores with serializable isolation.
func (m *Manager) AddChild(ctx context.Context, parent, child *Item) error {
	if parent.ID == "" || child.ID == "" {
		return NewError(ErrItemNotPersisted, "both edge endpoints must be stored items").
			WithEdge(parent.Name, child.Name)
	}

	if parent.ID == child.ID {
		return NewError(ErrSelfReference, "cannot add "+parent.Name+" as a child of itself").
			WithEdge(parent.Name, child.Name)
	}

	if parent.IsPermission() && child.IsRole() {
		return NewError(ErrInvalidHierarchy, "cannot add role "+child.Name+" under permission "+parent.Name).
			WithEdge(parent.Name, child.Name)
	}

	return m.Transaction(ctx, func(ctx context.Context, tm *Manager) error {
		loop, err := tm.hierarchy.detectLoop(ctx, parent.ID, child.ID)
		if err != nil {
			return err
		}
		if loop {
			return NewError(ErrCycleDetected, "adding "+child.Name+" under "+parent.Name+" creates a loop").
				WithEdge(parent.Name, child.Name)
		}
		return tm.hierarchy.addEdge(ctx, parent.ID, child.ID)
	})
}

// RemoveChild deletes the parent→child edge, reporting whether it existed.
func (m *Manager) RemoveChild(ctx context.Context, parent, child *Item) (bool, error) {
	return m.hierarchy.removeEdge(ctx, parent.ID, child.ID)
}

// RemoveChildren deletes every edge departing the parent.
func (m *Manager) RemoveChildren(ctx context.Context, parent *Item) (bool, error) {
	return m.hierarchy.removeEdgesFrom(ctx, parent.ID)
}

// GetChildren returns the direct children of an item, keyed by identifier.
func (m *Manager) GetChildren(ctx context.Context, parentID string) (map[string]*Item, error) {
	return m.hierarchy.children(ctx, parentID)
}

// GetParents returns the direct parents of an item. This is the per-node
// query the upward access check walks.
func (m *Manager) GetParents(ctx context.Context, childID string) ([]*Item, error) {
	return m.hierarchy.parents(ctx, childID)
}

// HasChild reports whether the direct parent→child edge exists.
func (m *Manager) HasChild(ctx context.Context, parent, child *Item) (bool, error) {
	children, err := m.hierarchy.children(ctx, parent.ID)
	if err != nil {
		return false, err
	}
	_, ok := children[child.ID]
	return ok, nil
}
