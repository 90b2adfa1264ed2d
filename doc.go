// Package grantkit provides hierarchical role-based access control backed by
// a relational database.
//
// GrantKit models authorization as a directed acyclic graph of named items.
// Users are assigned roles; roles parent other roles and permissions; a check
// on any item succeeds when the requesting user holds an assignment somewhere
// above it and every rule along the resolved path passes.
//
// # Core Concepts
//
// Item: A named node in the hierarchy, either a role or a permission. Names
// are unique across both kinds and are the external reference key; the store
// assigns an immutable UUID used for hierarchy edges.
//
// Role: An item users are assigned to. Roles may parent other roles and
// permissions. Example: "admin" parents "editor" parents "writer".
//
// Permission: A grantable capability, e.g. "publish-post". Permissions may
// parent other permissions but never roles.
//
// Rule: An optional dynamic condition attached to an item by name. Rules are
// evaluated at check time with caller-supplied parameters, so the same
// permission can be granted in one context and denied in another.
//
// Assignment: A (user, role name) pair. The user identifier is an opaque
// string; GrantKit never validates it against a user store.
//
// # Key Features
//
//   - Hierarchical items: roles inherit everything below them, any depth
//   - Cycle-safe: self-references, permission-over-role edges and loops are
//     rejected at insertion time
//   - Parameterized rules: registered rule types decode from stored envelopes
//     and gate checks with request context
//   - Default roles: roles granted to every user without an assignment row
//   - Lenient reads: unknown items and undecodable payloads deny or detach,
//     they never error a check
//   - Detailed audit logging: who assigned what to whom, with request metadata
//   - Token-agnostic: only needs a user ID from context
//   - DBKit integration: uses your existing database connection and
//     transactions
//
// # Basic Usage
//
//	// 1. Register rule types (at application startup)
//	registry := grantkit.NewRuleRegistry()
//
//	// 2. Create the manager
//	db, _ := dbkit.New(dbkit.Config{URL: databaseURL})
//	manager := grantkit.NewManager(registry, db)
//
//	// 3. Run migrations
//	dbkit.Migrate(ctx, db, manager.Migrations())
//
//	// 4. Build the hierarchy
//	admin := manager.CreateRole("admin")
//	editor := manager.CreateRole("editor")
//	publish := manager.CreatePermission("publish-post")
//	manager.AddItem(ctx, admin)
//	manager.AddItem(ctx, editor)
//	manager.AddItem(ctx, publish)
//	manager.AddChild(ctx, admin, editor)
//	manager.AddChild(ctx, editor, publish)
//
//	// 5. Assign and check
//	manager.Assign(ctx, editor, "42")
//
//	granted, err := manager.CheckAccess(ctx, "42", "publish-post", nil)
//	if granted {
//	    // user 42 may publish
//	}
//
// # Rules
//
// A rule gates every check that passes through its item. Rules persist as a
// type tag plus configuration and are rebuilt through the registry:
//
//	manager.AddRule(ctx, "blog-only", grantkit.RuleTypeParamMatch,
//	    grantkit.ParamMatchRule{Param: "domain", Value: "blog"})
//
//	publish.RuleName = "blog-only"
//	manager.UpdateItem(ctx, publish.ID, publish)
//
//	granted, _ = manager.CheckAccess(ctx, "42", "publish-post",
//	    map[string]any{"domain": "blog"}) // true
//	granted, _ = manager.CheckAccess(ctx, "42", "publish-post",
//	    map[string]any{"domain": "shop"}) // false
//
// Custom rule types implement the Rule interface and register a factory under
// a type tag with RuleRegistry.RegisterType.
//
// # Middleware Usage
//
//	mw := grantkit.NewMiddleware(manager,
//	    grantkit.WithUserIDExtractor(userFromSession))
//
//	router.Use(mw.InjectAuditContext())
//	router.With(mw.RequireAccess("publish-post", grantkit.ParamFromPath("domain", "domain"))).
//	    Post("/posts/{domain}/publish", publishHandler)
//
// # Audit Log
//
// Assignment and item mutations are automatically logged with:
//   - Actor (who made the change)
//   - Target user and item name
//   - Action (assigned, revoked, item_added, item_removed)
//   - Timestamp
//   - Request metadata (IP, user agent, request ID)
//
// Disable with the WithoutAuditLog option; query with GetAuditLog and
// AuditLogFilter.
package grantkit
