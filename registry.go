package grantkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Rule is a named predicate evaluated against a user and contextual
// parameters to conditionally gate an item. Implementations must be safe for
// concurrent use; Evaluate is called on every access check that reaches an
// item referencing the rule.
type Rule interface {
	Evaluate(ctx context.Context, userID string, item *Item, params map[string]any) (bool, error)
}

// RuleFactory builds a Rule from its serialized configuration payload.
type RuleFactory func(config json.RawMessage) (Rule, error)

// RuleRegistry maps rule type tags to factories. The database stores only a
// rule's name plus a {type, config} envelope; the registry turns envelopes
// back into evaluable Rule values. It is created at startup and should be
// treated as immutable after initialization.
type RuleRegistry struct {
	mu        sync.RWMutex
	factories map[string]RuleFactory
}

// NewRuleRegistry creates a registry with the built-in rule types registered.
func NewRuleRegistry() *RuleRegistry {
	r := &RuleRegistry{
		factories: make(map[string]RuleFactory),
	}
	r.RegisterType(RuleTypeParamMatch, func(config json.RawMessage) (Rule, error) {
		var rule ParamMatchRule
		if err := json.Unmarshal(config, &rule); err != nil {
			return nil, err
		}
		return &rule, nil
	})
	return r
}

// RegisterType registers a factory for a rule type tag, replacing any
// previous registration for the same tag.
func (r *RuleRegistry) RegisterType(typeTag string, factory RuleFactory) *RuleRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[typeTag] = factory
	return r
}

// Types returns all registered type tags.
func (r *RuleRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tags := make([]string, 0, len(r.factories))
	for tag := range r.factories {
		tags = append(tags, tag)
	}
	return tags
}

// Build decodes a stored envelope into a Rule. Returns nil when the envelope
// is malformed, the type tag is unknown, or the factory rejects the config:
// undecodable rule blobs are treated as absent rules, which always pass.
func (r *RuleRegistry) Build(data json.RawMessage) Rule {
	var env ruleEnvelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		return nil
	}

	r.mu.RLock()
	factory, ok := r.factories[env.Type]
	r.mu.RUnlock()
	if !ok {
		return nil
	}

	rule, err := factory(env.Config)
	if err != nil {
		return nil
	}
	return rule
}

// Encode serializes a rule of the given type tag into the stored envelope.
// The config must be JSON-marshalable.
func (r *RuleRegistry) Encode(typeTag string, config any) (json.RawMessage, error) {
	raw, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("grantkit: encode rule config: %w", err)
	}
	env := ruleEnvelope{Type: typeTag, Config: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("grantkit: encode rule envelope: %w", err)
	}
	return data, nil
}

// RuleTypeParamMatch is the type tag of the built-in ParamMatchRule.
const RuleTypeParamMatch = "param-match"

// ParamMatchRule grants access iff a context parameter equals a configured
// value. With Param "domain" and Value "blog", a check passes only when the
// caller supplies params["domain"] == "blog".
type ParamMatchRule struct {
	Param string `json:"param"`
	Value any    `json:"value"`
}

// Evaluate implements Rule.
func (r *ParamMatchRule) Evaluate(_ context.Context, _ string, _ *Item, params map[string]any) (bool, error) {
	v, ok := params[r.Param]
	if !ok {
		return false, nil
	}
	// Numeric params round-trip through JSON as float64; compare loosely so a
	// rule configured with 42 still matches a caller passing float64(42).
	return fmt.Sprint(v) == fmt.Sprint(r.Value), nil
}
