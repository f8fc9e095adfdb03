package schema

// MergeNodes merges override into base and returns the combined list. Nodes
// are matched by key; matched nodes are merged in place, unmatched override
// nodes are appended in override order, and base key order is preserved.
//
// Attribute semantics on a key match:
//   - multi_type, item_multi_type, description, regex, condition and
//     override_strategy replace the base values only when set on the
//     override.
//   - default_value replaces the base value only when the override's value
//     is non-nil.
//   - required, override_hint, is_override and regex_enable always copy
//     from the override.
//   - children follow the override's strategy: [StrategyReplace] swaps the
//     whole child list, anything else merges recursively.
//
// Every matched base node gets its OverrideHint raised so renderers can mark
// the line.
func MergeNodes(base, override []*Node) []*Node {
	byKey := make(map[string]*Node, len(base))
	for _, n := range base {
		byKey[n.Key] = n
	}

	for _, o := range override {
		b, ok := byKey[o.Key]
		if !ok {
			base = append(base, o)
			byKey[o.Key] = o

			continue
		}

		mergeAttrs(b, o)

		if o.OverrideStrategy == StrategyReplace {
			b.Children = o.Children
		} else if len(o.Children) > 0 {
			b.Children = MergeNodes(b.Children, o.Children)
		}

		b.OverrideHint = true
	}

	return base
}

func mergeAttrs(base, override *Node) {
	if len(override.MultiType) > 0 {
		base.MultiType = override.MultiType
	}

	if len(override.ItemMultiType) > 0 {
		base.ItemMultiType = override.ItemMultiType
	}

	if override.Description != "" {
		base.Description = override.Description
	}

	if override.Regex != "" {
		base.Regex = override.Regex
	}

	if override.Condition != nil {
		base.Condition = override.Condition
	}

	if override.OverrideStrategy != "" {
		base.OverrideStrategy = override.OverrideStrategy
	}

	if override.DefaultValue != nil {
		base.DefaultValue = override.DefaultValue
	}

	base.Required = override.Required
	base.OverrideHint = override.OverrideHint
	base.IsOverride = override.IsOverride
	base.RegexEnable = override.RegexEnable
}
