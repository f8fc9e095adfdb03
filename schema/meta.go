package schema

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// MetaSchema returns a JSON Schema describing the schema-document grammar:
// a single node object or a list of them. Frontends use it to validate and
// autocomplete documents before they ever reach the generator.
func MetaSchema() *jsonschema.Schema {
	typeName := &jsonschema.Schema{
		Type: "string",
		Enum: []any{TypeObject, TypeList, TypeString, TypeBool, TypeNumber},
	}

	conditionRule := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"key":   {Type: "string"},
			"regex": {Type: "string"},
		},
		Required: []string{"key", "regex"},
	}

	node := &jsonschema.Schema{
		Type:        "object",
		Description: "One schema tree node.",
		Properties: map[string]*jsonschema.Schema{
			"key": {
				Type:        "string",
				Description: "Output key name; unique among siblings.",
			},
			"multi_type": {
				Type:        "array",
				Items:       typeName,
				Description: "Set of types this node may take.",
			},
			"item_multi_type": {
				Type:        "array",
				Items:       typeName,
				Description: "Item types for list nodes; must be empty for object nodes.",
			},
			"description": {
				Type:        "string",
				Description: "Rendered as a banner when it starts with '#', as line comments otherwise.",
			},
			"default_value": {
				Description: "Structural default of any shape; ${VAR} placeholders are expanded in strings.",
			},
			"regex": {
				Type:        "string",
				Description: "Fallback textual placeholder used when default_value is absent or empty.",
			},
			"required": {Type: "boolean"},
			"override_strategy": {
				Type: "string",
				Enum: []any{StrategyMerge, StrategyReplace},
			},
			"override_hint": {Type: "boolean"},
			"is_override":   {Type: "boolean"},
			"regex_enable":  {Type: "boolean"},
			"condition": {
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"conditions": {Type: "array", Items: conditionRule},
				},
			},
			"children": {
				Type:  "array",
				Items: &jsonschema.Schema{Ref: "#/$defs/node"},
			},
		},
		Required: []string{"key", "multi_type"},
	}

	return &jsonschema.Schema{
		Description: "A schema document: one node or a list of nodes.",
		Defs:        map[string]*jsonschema.Schema{"node": node},
		AnyOf: []*jsonschema.Schema{
			{Ref: "#/$defs/node"},
			{Type: "array", Items: &jsonschema.Schema{Ref: "#/$defs/node"}},
		},
	}
}

// ConfigSchema returns a JSON Schema for the orchestrator config file. The
// historical key spellings are part of the format and appear verbatim.
func ConfigSchema() *jsonschema.Schema {
	envVar := &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: "string"},
			{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"key":         {Type: "string"},
					"description": {Type: "string"},
				},
				Required: []string{"key"},
			},
		},
	}

	trigger := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"source": {
				Type: "string",
				Enum: []any{"default", "user", "env"},
			},
			"logic": {
				Type: "string",
				Enum: []any{"and", "or"},
			},
			"conditions": {
				Type: "array",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"key":   {Type: "string"},
						"regex": {Type: "string"},
					},
					Required: []string{"key", "regex"},
				},
			},
		},
		Required: []string{"source"},
	}

	scenario := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"value":             {Type: "string"},
			"path":              {Type: "string"},
			"priority":          {Type: "integer"},
			"required_env_vars": {Type: "array", Items: envVar},
			"trigger":           trigger,
		},
		Required: []string{"value", "path", "trigger"},
	}

	return &jsonschema.Schema{
		Type:        "object",
		Description: "Orchestrator configuration for scenario-driven generation.",
		Properties: map[string]*jsonschema.Schema{
			"senario_env_key":     {Type: "string"},
			"override_hint_style": {Type: "string"},
			"top_level_spacing":   {Type: "integer"},
			"default_env_vars":    {Type: "array", Items: envVar},
			"senarios":            {Type: "array", Items: scenario},
		},
		Required: []string{"senarios"},
	}
}
