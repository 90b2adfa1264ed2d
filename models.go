package grantkit

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// ItemKind discriminates the two kinds of authorization items.
type ItemKind string

const (
	// KindRole is an item that may parent other roles and permissions.
	KindRole ItemKind = "role"

	// KindPermission is a grantable capability. Permissions may parent other
	// permissions but never roles.
	KindPermission ItemKind = "permission"
)

// Item is a named node in the authorization hierarchy, either a role or a
// permission. Items are persisted in auth_items; the ID is store-assigned and
// immutable, the name is the external reference key and unique across both
// kinds.
type Item struct {
	bun.BaseModel `bun:"table:auth_items,alias:ai"`

	ID          string          `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name        string          `bun:"name,notnull,unique"`
	Kind        ItemKind        `bun:"type,notnull"`
	Description string          `bun:"description"`
	RuleName    string          `bun:"rule_name,nullzero"`
	Data        json.RawMessage `bun:"data,type:jsonb,nullzero"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// NewRole returns an unpersisted role item with only the name set.
// Persistence happens on a later AddItem call.
func NewRole(name string) *Item {
	return &Item{Name: name, Kind: KindRole}
}

// NewPermission returns an unpersisted permission item with only the name set.
func NewPermission(name string) *Item {
	return &Item{Name: name, Kind: KindPermission}
}

// IsRole reports whether the item is a role.
func (i *Item) IsRole() bool {
	return i.Kind == KindRole
}

// IsPermission reports whether the item is a permission.
func (i *Item) IsPermission() bool {
	return i.Kind == KindPermission
}

// normalize discards a malformed auxiliary payload. Undecodable payloads are
// treated as absent, never as an error.
func (i *Item) normalize() {
	if len(i.Data) > 0 && !json.Valid(i.Data) {
		i.Data = nil
	}
}

// DecodeData unmarshals the item's auxiliary payload into v.
// Returns false without touching v when the item carries no usable payload.
func (i *Item) DecodeData(v any) bool {
	if len(i.Data) == 0 || !json.Valid(i.Data) {
		return false
	}
	return json.Unmarshal(i.Data, v) == nil
}

// RuleRow is the persisted form of a rule: a name plus an opaque envelope
// holding the rule's type tag and configuration. Rows live in auth_rules and
// are decoded into Rule values through the RuleRegistry.
type RuleRow struct {
	bun.BaseModel `bun:"table:auth_rules,alias:ar"`

	Name      string          `bun:"name,pk"`
	Data      json.RawMessage `bun:"data,type:jsonb,notnull"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp"`
}

// ruleEnvelope is the wire format stored in RuleRow.Data.
type ruleEnvelope struct {
	Type   string          `json:"type"`
	Config json.RawMessage `json:"config,omitempty"`
}

// ItemChild is a directed parent→child edge between two items. The edge set
// is kept acyclic by AddChild; both columns reference auth_items.id.
type ItemChild struct {
	bun.BaseModel `bun:"table:auth_item_hierarchy,alias:aih"`

	ParentID string `bun:"parent_item_id,pk,type:uuid"`
	ChildID  string `bun:"child_item_id,pk,type:uuid"`
}

// Assignment ties a user to a role by name. Reads return only the trimmed
// contract (user, role name, creation time); the user identifier is an opaque
// token this layer never validates.
type Assignment struct {
	bun.BaseModel `bun:"table:auth_assignments,alias:aa"`

	UserID    string    `bun:"user_id,pk"`
	RoleName  string    `bun:"item_name,pk"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// AuditAction represents the type of action recorded in the audit log.
type AuditAction string

const (
	AuditActionAssigned    AuditAction = "assigned"
	AuditActionRevoked     AuditAction = "revoked"
	AuditActionItemAdded   AuditAction = "item_added"
	AuditActionItemRemoved AuditAction = "item_removed"
)

// AuditLog records authorization data changes for compliance and debugging.
type AuditLog struct {
	bun.BaseModel `bun:"table:auth_audit_log,alias:aal"`

	ID        string    `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp"`

	// Who performed the action
	ActorID string `bun:"actor_id"`

	// What was done, to whom, on which item
	Action       string `bun:"action,notnull"`
	TargetUserID string `bun:"target_user_id"`
	ItemName     string `bun:"item_name,notnull"`

	// Request metadata for forensics
	IPAddress string `bun:"ip_address"`
	UserAgent string `bun:"user_agent"`
	RequestID string `bun:"request_id"`
}

// AuditEntry is used to create new audit log entries.
type AuditEntry struct {
	ActorID      string
	Action       AuditAction
	TargetUserID string
	ItemName     string
	IPAddress    string
	UserAgent    string
	RequestID    string
}

// ToModel converts an AuditEntry to an AuditLog model.
func (e *AuditEntry) ToModel() *AuditLog {
	return &AuditLog{
		ActorID:      e.ActorID,
		Action:       string(e.Action),
		TargetUserID: e.TargetUserID,
		ItemName:     e.ItemName,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		RequestID:    e.RequestID,
		Timestamp:    time.Now(),
	}
}
