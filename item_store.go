package grantkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
)

// itemStore owns the auth_items table. It is only ever used through the
// Manager, which decides whether cascade cleanup happens here or in the
// backing store's foreign keys.
type itemStore struct {
	db            dbkit.IDB
	nativeCascade bool
}

// byName fetches an item by its external reference key.
// Returns nil without error when no such item exists.
func (s itemStore) byName(ctx context.Context, name string) (*Item, error) {
	var item Item
	err := dbkit.WithErr1(s.db.NewSelect().Model(&item).Where("name = ?", name).Limit(1).Scan(ctx), "GetItem").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	item.normalize()
	return &item, nil
}

// byID fetches an item by its store-assigned identifier.
func (s itemStore) byID(ctx context.Context, id string) (*Item, error) {
	var item Item
	err := dbkit.WithErr1(s.db.NewSelect().Model(&item).Where("id = ?", id).Limit(1).Scan(ctx), "GetItemByID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	item.normalize()
	return &item, nil
}

// list returns items keyed by identifier. An empty kind returns both kinds
// ordered by type; exclude names are filtered out of the result.
func (s itemStore) list(ctx context.Context, kind ItemKind, exclude []string) (map[string]*Item, error) {
	var rows []Item
	q := s.db.NewSelect().Model(&rows)
	if kind != "" {
		q = q.Where("type = ?", kind)
	} else {
		q = q.Order("type")
	}
	for _, name := range exclude {
		q = q.Where("name != ?", name)
	}

	err := dbkit.WithErr1(q.Scan(ctx), "ListItems").Err()
	if err != nil {
		return nil, err
	}

	items := make(map[string]*Item, len(rows))
	for i := range rows {
		rows[i].normalize()
		items[rows[i].ID] = &rows[i]
	}
	return items, nil
}

// add persists a new item, filling created/updated timestamps when unset.
// The store assigns the identifier.
func (s itemStore) add(ctx context.Context, item *Item) error {
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = now
	}
	item.normalize()

	result, err := s.db.NewInsert().Model(item).Returning("id").Exec(ctx)
	return dbkit.WithErr(result, err, "AddItem").Err()
}

// update rewrites the item row stored under id. When the backing store lacks
// native cascading, a changed identifier is propagated into hierarchy edges
// and a changed name into assignments before the item row itself changes.
func (s itemStore) update(ctx context.Context, id string, item *Item) (bool, error) {
	if !s.nativeCascade {
		if item.ID != "" && item.ID != id {
			result, err := s.db.NewUpdate().Table("auth_item_hierarchy").
				Set("parent_item_id = ?", item.ID).
				Where("parent_item_id = ?", id).Exec(ctx)
			if err := dbkit.WithErr(result, err, "PropagateParentID").Err(); err != nil {
				return false, err
			}
			result, err = s.db.NewUpdate().Table("auth_item_hierarchy").
				Set("child_item_id = ?", item.ID).
				Where("child_item_id = ?", id).Exec(ctx)
			if err := dbkit.WithErr(result, err, "PropagateChildID").Err(); err != nil {
				return false, err
			}
		}

		prev, err := s.byID(ctx, id)
		if err != nil {
			return false, err
		}
		if prev != nil && prev.Name != item.Name {
			result, err := s.db.NewUpdate().Table("auth_assignments").
				Set("item_name = ?", item.Name).
				Where("item_name = ?", prev.Name).Exec(ctx)
			if err := dbkit.WithErr(result, err, "PropagateAssignmentName").Err(); err != nil {
				return false, err
			}
		}
	}

	item.UpdatedAt = time.Now()
	item.normalize()

	result, err := s.db.NewUpdate().Table("auth_items").
		Set("name = ?", item.Name).
		Set("description = ?", item.Description).
		Set("rule_name = ?", nullIfEmpty(item.RuleName)).
		Set("data = ?", nullIfEmptyJSON(item.Data)).
		Set("updated_at = ?", item.UpdatedAt).
		Where("id = ?", id).Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateItem").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// remove deletes the item row, cleaning up hierarchy edges on either side and
// assignments first when the backing store lacks native cascading.
func (s itemStore) remove(ctx context.Context, item *Item) (bool, error) {
	if !s.nativeCascade {
		result, err := s.db.NewDelete().Table("auth_item_hierarchy").
			Where("parent_item_id = ? OR child_item_id = ?", item.ID, item.ID).Exec(ctx)
		if err := dbkit.WithErr(result, err, "RemoveItemEdges").Err(); err != nil {
			return false, err
		}
		result, err = s.db.NewDelete().Table("auth_assignments").
			Where("item_name = ?", item.Name).Exec(ctx)
		if err := dbkit.WithErr(result, err, "RemoveItemAssignments").Err(); err != nil {
			return false, err
		}
	}

	result, err := s.db.NewDelete().Table("auth_items").
		Where("id = ?", item.ID).Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveItem").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// clear wipes the items table.
func (s itemStore) clear(ctx context.Context) error {
	result, err := s.db.NewDelete().Table("auth_items").Where("TRUE").Exec(ctx)
	return dbkit.WithErr(result, err, "ClearItems").Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfEmptyJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
