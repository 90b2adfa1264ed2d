package grantkit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fernandezvara/dbkit"
)

// ruleStore owns the auth_rules table. Rows carry opaque {type, config}
// envelopes; decoding into Rule values is the RuleRegistry's job.
type ruleStore struct {
	db            dbkit.IDB
	nativeCascade bool
}

// get fetches a rule row by name. Returns nil without error when absent.
func (s ruleStore) get(ctx context.Context, name string) (*RuleRow, error) {
	var row RuleRow
	err := dbkit.WithErr1(s.db.NewSelect().Model(&row).Where("name = ?", name).Limit(1).Scan(ctx), "GetRule").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// list returns all rule rows keyed by name.
func (s ruleStore) list(ctx context.Context) (map[string]*RuleRow, error) {
	var rows []RuleRow
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rows).Scan(ctx), "ListRules").Err()
	if err != nil {
		return nil, err
	}

	rules := make(map[string]*RuleRow, len(rows))
	for i := range rows {
		rules[rows[i].Name] = &rows[i]
	}
	return rules, nil
}

// add persists a new rule row, filling timestamps when unset.
func (s ruleStore) add(ctx context.Context, row *RuleRow) error {
	now := time.Now()
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = now
	}

	result, err := s.db.NewInsert().Model(row).Exec(ctx)
	return dbkit.WithErr(result, err, "AddRule").Err()
}

// update rewrites the rule row stored under name. A rename is propagated into
// items referencing the old name first when cascading is not native.
func (s ruleStore) update(ctx context.Context, name string, row *RuleRow) (bool, error) {
	if !s.nativeCascade && row.Name != name {
		result, err := s.db.NewUpdate().Table("auth_items").
			Set("rule_name = ?", row.Name).
			Where("rule_name = ?", name).Exec(ctx)
		if err := dbkit.WithErr(result, err, "PropagateRuleName").Err(); err != nil {
			return false, err
		}
	}

	row.UpdatedAt = time.Now()

	result, err := s.db.NewUpdate().Table("auth_rules").
		Set("name = ?", row.Name).
		Set("data = ?", json.RawMessage(row.Data)).
		Set("updated_at = ?", row.UpdatedAt).
		Where("name = ?", name).Exec(ctx)
	if err := dbkit.WithErr(result, err, "UpdateRule").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// remove deletes the rule row. Items referencing it are detached, not
// deleted: a missing rule means the item's check is unconditional.
func (s ruleStore) remove(ctx context.Context, name string) (bool, error) {
	if !s.nativeCascade {
		result, err := s.db.NewUpdate().Table("auth_items").
			Set("rule_name = NULL").
			Where("rule_name = ?", name).Exec(ctx)
		if err := dbkit.WithErr(result, err, "DetachRule").Err(); err != nil {
			return false, err
		}
	}

	result, err := s.db.NewDelete().Table("auth_rules").
		Where("name = ?", name).Exec(ctx)
	if err := dbkit.WithErr(result, err, "RemoveRule").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// clear wipes the rules table.
func (s ruleStore) clear(ctx context.Context) error {
	result, err := s.db.NewDelete().Table("auth_rules").Where("TRUE").Exec(ctx)
	return dbkit.WithErr(result, err, "ClearRules").Err()
}
