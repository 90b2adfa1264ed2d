package grantkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// hierarchyStore owns the auth_item_hierarchy table: the directed
// parent→child edge set between items. Edge insertion guards (self-reference,
// kind mismatch, loop detection) live on the Manager because they need both
// endpoint items; the store only speaks edges.
type hierarchyStore struct {
	db dbkit.IDB
}

// children returns the direct child items of a parent, keyed by identifier.
func (s hierarchyStore) children(ctx context.Context, parentID string) (map[string]*Item, error) {
	var rows []Item
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rows).
		Join("JOIN auth_item_hierarchy AS aih ON aih.child_item_id = ai.id").
		Where("aih.parent_item_id = ?", parentID).
		Scan(ctx), "GetChildren").Err()
	if err != nil {
		return nil, err
	}

	children := make(map[string]*Item, len(rows))
	for i := range rows {
		rows[i].normalize()
		children[rows[i].ID] = &rows[i]
	}
	return children, nil
}

// childIDs returns only the direct child identifiers of a parent. Used by the
// loop probe, which walks one node at a time and never needs full rows.
func (s hierarchyStore) childIDs(ctx context.Context, parentID string) ([]string, error) {
	var ids []string
	err := dbkit.WithErr1(s.db.NewRaw(
		"SELECT child_item_id FROM auth_item_hierarchy WHERE parent_item_id = ?", parentID,
	).Scan(ctx, &ids), "GetChildIDs").Err()
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// parents returns the direct parent items of a child. The upward access-check
// walk queries this per node.
func (s hierarchyStore) parents(ctx context.Context, childID string) ([]*Item, error) {
	var rows []Item
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rows).
		Join("JOIN auth_item_hierarchy AS aih ON aih.parent_item_id = ai.id").
		Where("aih.child_item_id = ?", childID).
		Scan(ctx), "GetParents").Err()
	if err != nil {
		return nil, err
	}

	parents := make([]*Item, len(rows))
	for i := range rows {
		rows[i].normalize()
		parents[i] = &rows[i]
	}
	return parents, nil
}

// childrenList loads the whole edge set as a parent→children adjacency map in
// one scan. The downward closure queries amortize this against one query per
// node.
func (s hierarchyStore) childrenList(ctx context.Context) (map[string][]string, error) {
	var edges []ItemChild
	err := dbkit.WithErr1(s.db.NewSelect().Model(&edges).Scan(ctx), "GetChildrenList").Err()
	if err != nil {
		return nil, err
	}

	adjacency := make(map[string][]string)
	for _, edge := range edges {
		adjacency[edge.ParentID] = append(adjacency[edge.ParentID], edge.ChildID)
	}
	return adjacency, nil
}

// addEdge inserts a parent→child edge. Callers must have run the loop probe
// first; a duplicate edge surfaces the store's uniqueness violation.
func (s hierarchyStore) addEdge(ctx context.Context, parentID, childID string) error {
	edge := &ItemChild{ParentID: parentID, ChildID: childID}
	result, err := s.db.NewInsert().Model(edge).Exec(ctx)
	return dbkit.WithErr(result, err, "AddEdge").Err()
}

// removeEdge deletes a single edge, reporting whether it existed.
func (s hierarchyStore) removeEdge(ctx context.Context, parentID, childID string) (bool, error) {
	result, err := s.db.NewDelete().Table("auth_item_hierarchy").
		Where("parent_item_id = ? AND child_item_id = ?", parentID, childID).Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveEdge").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// removeEdgesFrom deletes every edge departing a parent.
func (s hierarchyStore) removeEdgesFrom(ctx context.Context, parentID string) (bool, error) {
	result, err := s.db.NewDelete().Table("auth_item_hierarchy").
		Where("parent_item_id = ?", parentID).Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveEdgesFrom").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// detectLoop reports whether parentID is reachable among childID's
// descendants, which would make the candidate edge parent→child a loop.
// Iterative worklist over per-node child queries; the visited set guards
// against re-walking shared subtrees.
func (s hierarchyStore) detectLoop(ctx context.Context, parentID, childID string) (bool, error) {
	stack := []string{childID}
	visited := map[string]struct{}{childID: {}}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node == parentID {
			return true, nil
		}

		ids, err := s.childIDs(ctx, node)
		if err != nil {
			return false, err
		}
		for _, id := range ids {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			stack = append(stack, id)
		}
	}

	return false, nil
}

// clear wipes the edge set.
func (s hierarchyStore) clear(ctx context.Context) error {
	result, err := s.db.NewDelete().Table("auth_item_hierarchy").Where("TRUE").Exec(ctx)
	return dbkit.WithErr(result, err, "ClearHierarchy").Err()
}
