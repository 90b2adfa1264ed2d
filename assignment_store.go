package grantkit

import (
	"context"
	"time"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// assignmentStore owns the auth_assignments table: durable user→role grants.
type assignmentStore struct {
	db dbkit.IDB
}

// forUser returns all of a user's assignments keyed by role name.
func (s assignmentStore) forUser(ctx context.Context, userID string) (map[string]*Assignment, error) {
	var rows []Assignment
	err := dbkit.WithErr1(s.db.NewSelect().Model(&rows).Where("user_id = ?", userID).Scan(ctx), "GetAssignments").Err()
	if err != nil {
		return nil, err
	}

	assignments := make(map[string]*Assignment, len(rows))
	for i := range rows {
		assignments[rows[i].RoleName] = &rows[i]
	}
	return assignments, nil
}

// one fetches a single assignment. Returns nil without error when absent.
func (s assignmentStore) one(ctx context.Context, roleName, userID string) (*Assignment, error) {
	var row Assignment
	err := dbkit.WithErr1(s.db.NewSelect().Model(&row).
		Where("user_id = ? AND item_name = ?", userID, roleName).
		Limit(1).Scan(ctx), "GetAssignment").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// assign inserts a new user→role grant. A duplicate pair is a caller contract
// violation and surfaces the store's uniqueness error unmodified; callers
// wanting idempotence check with one or exists first.
func (s assignmentStore) assign(ctx context.Context, roleName, userID string) (*Assignment, error) {
	assignment := &Assignment{
		UserID:    userID,
		RoleName:  roleName,
		CreatedAt: time.Now(),
	}

	result, err := s.db.NewInsert().Model(assignment).Exec(ctx)
	if err := dbkit.WithErr(result, err, "Assign").Err(); err != nil {
		return nil, err
	}
	return assignment, nil
}

// batchAssign inserts many grants in one round trip.
func (s assignmentStore) batchAssign(ctx context.Context, assignments []*Assignment) error {
	now := time.Now()
	for _, a := range assignments {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
	}
	_, err := dbkit.BatchInsert(ctx, s.db, assignments, dbkit.BatchSize)
	return dbkit.WithErr1(err, "BatchAssign").Err()
}

// revoke removes a single grant, reporting whether it existed.
func (s assignmentStore) revoke(ctx context.Context, roleName, userID string) (bool, error) {
	result, err := s.db.NewDelete().Table("auth_assignments").
		Where("user_id = ? AND item_name = ?", userID, roleName).Exec(ctx)
	if err := dbkit.WithErr(result, err, "Revoke").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// revokeAll removes every grant held by a user.
func (s assignmentStore) revokeAll(ctx context.Context, userID string) (bool, error) {
	result, err := s.db.NewDelete().Table("auth_assignments").
		Where("user_id = ?", userID).Exec(ctx)
	if err := dbkit.WithErr(result, err, "RevokeAll").Err(); err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// exists reports whether the (user, role) grant is present without loading it.
func (s assignmentStore) exists(ctx context.Context, roleName, userID string) (bool, error) {
	return dbkit.Exists[Assignment](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ? AND item_name = ?", userID, roleName)
	})
}

// count returns the number of grants held by a user.
func (s assignmentStore) count(ctx context.Context, userID string) (int, error) {
	return dbkit.Count[Assignment](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", userID)
	})
}

// roleNames returns the role names a user is assigned to, without row data.
func (s assignmentStore) roleNames(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := dbkit.WithErr1(s.db.NewRaw(
		"SELECT item_name FROM auth_assignments WHERE user_id = ?", userID,
	).Scan(ctx, &names), "GetAssignedRoleNames").Err()
	if err != nil {
		return nil, err
	}
	return names, nil
}

// clear wipes the assignments table.
func (s assignmentStore) clear(ctx context.Context) error {
	result, err := s.db.NewDelete().Table("auth_assignments").Where("TRUE").Exec(ctx)
	return dbkit.WithErr(result, err, "ClearAssignments").Err()
}
