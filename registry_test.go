package grantkit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegistryBuiltinTypes tests that the built-in rule type is registered
func TestRegistryBuiltinTypes(t *testing.T) {
	registry := NewRuleRegistry()
	assert.Contains(t, registry.Types(), RuleTypeParamMatch)
}

// TestRegistryRegisterType tests custom rule type registration
func TestRegistryRegisterType(t *testing.T) {
	registry := NewRuleRegistry()
	registry.RegisterType("always-deny", func(config json.RawMessage) (Rule, error) {
		return denyRule{}, nil
	})

	assert.Contains(t, registry.Types(), "always-deny")

	data, err := registry.Encode("always-deny", nil)
	require.NoError(t, err)

	rule := registry.Build(data)
	require.NotNil(t, rule)

	granted, err := rule.Evaluate(context.Background(), "42", nil, nil)
	require.NoError(t, err)
	assert.False(t, granted)
}

type denyRule struct{}

func (denyRule) Evaluate(context.Context, string, *Item, map[string]any) (bool, error) {
	return false, nil
}

// TestRegistryEncodeRoundTrip tests that an encoded rule decodes back
func TestRegistryEncodeRoundTrip(t *testing.T) {
	registry := NewRuleRegistry()

	data, err := registry.Encode(RuleTypeParamMatch, ParamMatchRule{Param: "domain", Value: "blog"})
	require.NoError(t, err)

	rule := registry.Build(data)
	require.NotNil(t, rule)

	pm, ok := rule.(*ParamMatchRule)
	require.True(t, ok)
	assert.Equal(t, "domain", pm.Param)
	assert.Equal(t, "blog", pm.Value)
}

// TestRegistryBuildLeniency tests that undecodable envelopes build to nil
func TestRegistryBuildLeniency(t *testing.T) {
	registry := NewRuleRegistry()

	tests := []struct {
		name string
		data json.RawMessage
	}{
		{"malformed envelope", json.RawMessage(`{"type":`)},
		{"missing type tag", json.RawMessage(`{"config":{}}`)},
		{"unknown type tag", json.RawMessage(`{"type":"no-such-rule"}`)},
		{"factory rejects config", json.RawMessage(`{"type":"param-match","config":[1,2]}`)},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, registry.Build(tt.data))
		})
	}
}

// TestRegistryEncodeUnmarshalableConfig tests encode failure on bad config
func TestRegistryEncodeUnmarshalableConfig(t *testing.T) {
	registry := NewRuleRegistry()
	_, err := registry.Encode(RuleTypeParamMatch, make(chan int))
	assert.Error(t, err)
}

// TestParamMatchRuleEvaluate tests the built-in parameter matching rule
func TestParamMatchRuleEvaluate(t *testing.T) {
	ctx := context.Background()
	rule := &ParamMatchRule{Param: "domain", Value: "blog"}

	tests := []struct {
		name    string
		params  map[string]any
		granted bool
	}{
		{"matching value", map[string]any{"domain": "blog"}, true},
		{"different value", map[string]any{"domain": "shop"}, false},
		{"missing parameter", map[string]any{"other": "blog"}, false},
		{"nil params", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			granted, err := rule.Evaluate(ctx, "42", nil, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.granted, granted)
		})
	}
}

// TestParamMatchRuleNumericRoundTrip tests that numeric values survive the
// JSON float64 round trip
func TestParamMatchRuleNumericRoundTrip(t *testing.T) {
	registry := NewRuleRegistry()

	data, err := registry.Encode(RuleTypeParamMatch, ParamMatchRule{Param: "level", Value: 42})
	require.NoError(t, err)

	rule := registry.Build(data)
	require.NotNil(t, rule)

	// A stored int comes back as float64; the rule still matches both forms.
	granted, err := rule.Evaluate(context.Background(), "42", nil, map[string]any{"level": 42})
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = rule.Evaluate(context.Background(), "42", nil, map[string]any{"level": float64(42)})
	require.NoError(t, err)
	assert.True(t, granted)
}

// TestRegistryFactoryError tests that factory errors build to nil
func TestRegistryFactoryError(t *testing.T) {
	registry := NewRuleRegistry()
	registry.RegisterType("broken", func(config json.RawMessage) (Rule, error) {
		return nil, errors.New("bad config")
	})

	data, err := registry.Encode("broken", nil)
	require.NoError(t, err)
	assert.Nil(t, registry.Build(data))
}
