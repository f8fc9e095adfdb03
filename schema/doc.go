// Package schema models the JSON schema documents that drive configuration
// generation.
//
// A schema document is a tree of [Node] values, each describing one key of
// the generated output: its type set, description, default value, regex
// placeholder, and override behavior. Documents are decoded with ordered
// maps so structural defaults render in their original insertion order.
//
// # Documents
//
// A document holds a single node object or a list of them. [ParseNodes]
// decodes both forms; [LoadNodes] reads a document from a filesystem.
// Retired attribute spellings ("type", "item_type") are detected during
// decoding and reported by [Validate].
//
// # Merging
//
// Scenario overlays layer onto a base tree with [MergeNodes]: nodes match
// by key, matched nodes merge attribute by attribute, and unmatched
// override nodes append in order. A node's override_strategy chooses
// whether its children replace or merge recursively. Matched nodes get
// their OverrideHint raised so renderers can mark overridden lines.
//
// # Validation
//
// [Validate] walks a tree and returns every structural violation at once:
// missing attributes, incoherent type sets, retired spellings, and (for
// *.ini.json documents) the inventory section constraints.
//
// # Substitution
//
// Two placeholder syntaxes exist: {VAR} inside path templates
// ([SubstitutePath]) and ${VAR} inside file content and string default
// values ([SubstituteContent], [SubstituteDefaults]). Unresolved
// placeholders log a warning and stay verbatim; substitution never fails
// a run.
package schema
