// Package schema models the declarative configuration documents that drive
// margin rule compilation.
//
// A [Schema] is a tree of sections. Each [Section] holds either a flat list
// of fields or a matrix of rows, where every [Row] maps a column key (an
// edge name) to one field. A field becomes a rule source through its
// [Binding], which names a classification and an edge.
//
// # Bindings
//
// A binding is tri-state in the document:
//
//   - absent: flat fields are ignored; matrix cells infer a binding from the
//     row classification and their column key
//   - false: the field is explicitly not a rule source (sheet-level inputs)
//   - an object: {classification, edge} or {classification, edge_dynamic}
//
// [Row.BindingFor] performs the inference without touching the document.
// [Annotate] returns a copy with inferred bindings written out, for callers
// that want to display them.
//
// # Formats
//
// Documents decode from JSON, YAML or TOML with [Decode] and [LoadFile].
// The builtin presets ship as embedded YAML; see [Builtin] and [Lookup].
//
// # Editing
//
// [AddField] and [RemoveField] are pure: they return a modified copy and
// leave the input untouched.
package schema
