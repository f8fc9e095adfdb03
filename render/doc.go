// Package render turns merged schema trees into configuration file text.
//
// Two renderers share one line model: [YAML] emits application config
// files and [INI] emits Ansible inventory files. Both return the file as a
// slice of lines; [Text] joins them into the canonical on-disk form with a
// single trailing newline.
//
// Rendering is deterministic: the same tree, options, and environment
// always produce byte-identical output. Values print through the smart
// quoter ([Quote]), which leaves unambiguous strings bare and
// double-quotes anything a YAML or INI parser could misread.
//
// Nodes that are not required, carry no default, and declare no regex
// placeholder produce no output at all. Nodes that are merely optional
// render normally and then have every data line commented out, keeping
// the generated file readable but inert. Overridden nodes get a trailing
// hint marker on their key line so a reader can trace the value to an
// overlay.
package render
