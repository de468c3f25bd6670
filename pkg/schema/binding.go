package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// EdgeDynamic is the edge token used by [NewField] to request an edge that
// is chosen at input time.
const EdgeDynamic = "dynamic"

// Binding links a field to the margin rule system.
//
// Edge is an edge name or "all". When EdgeDynamic is set the edge is read
// from the raw value EdgeSource (default "{field id}_edge") and Edge is only
// the fallback.
//
// Disabled records an explicit `binding: false` (or `binding: null`) in the
// document. It is distinct from a nil *Binding, which means "not specified".
type Binding struct {
	Classification string `json:"classification,omitempty" yaml:"classification,omitempty"`
	Edge           string `json:"edge,omitempty" yaml:"edge,omitempty"`
	EdgeDynamic    bool   `json:"edge_dynamic,omitempty" yaml:"edge_dynamic,omitempty"`
	EdgeSource     string `json:"edge_source,omitempty" yaml:"edge_source,omitempty"`
	Disabled       bool   `json:"-" yaml:"-"`
}

// Off returns the explicit "not a rule source" binding.
func Off() *Binding { return &Binding{Disabled: true} }

// bindingFields has the same layout as Binding without its codec methods.
type bindingFields Binding

// MarshalJSON encodes a disabled binding as false.
func (b Binding) MarshalJSON() ([]byte, error) {
	if b.Disabled {
		return []byte("false"), nil
	}
	return json.Marshal(bindingFields(b))
}

// UnmarshalJSON accepts false, true or an object.
func (b *Binding) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*b = Binding{Disabled: !flag}
		return nil
	}
	var f bindingFields
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("binding: %w", err)
	}
	*b = Binding(f)
	return nil
}

// MarshalYAML encodes a disabled binding as false.
func (b Binding) MarshalYAML() (any, error) {
	if b.Disabled {
		return false, nil
	}
	return bindingFields(b), nil
}

// UnmarshalYAML accepts false, true or a mapping.
func (b *Binding) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var flag bool
		if err := node.Decode(&flag); err != nil {
			return fmt.Errorf("binding: line %d: expected bool or mapping", node.Line)
		}
		*b = Binding{Disabled: !flag}
		return nil
	}
	var f bindingFields
	if err := node.Decode(&f); err != nil {
		return fmt.Errorf("binding: %w", err)
	}
	*b = Binding(f)
	return nil
}

// UnmarshalTOML accepts false, true or an inline table.
func (b *Binding) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case bool:
		*b = Binding{Disabled: !v}
		return nil
	case map[string]any:
		var out Binding
		for key, raw := range v {
			switch key {
			case "classification":
				out.Classification = fmt.Sprint(raw)
			case "edge":
				out.Edge = fmt.Sprint(raw)
			case "edge_source":
				out.EdgeSource = fmt.Sprint(raw)
			case "edge_dynamic":
				flag, ok := raw.(bool)
				if !ok {
					return fmt.Errorf("binding: edge_dynamic must be a bool, got %T", raw)
				}
				out.EdgeDynamic = flag
			default:
				return fmt.Errorf("binding: unknown key %q", key)
			}
		}
		*b = out
		return nil
	}
	return fmt.Errorf("binding: expected bool or table, got %T", data)
}

// fieldFields has the same layout as Field without its codec methods.
type fieldFields Field

// UnmarshalJSON decodes a field, keeping an explicit `"binding": null`
// apart from a missing binding.
func (f *Field) UnmarshalJSON(data []byte) error {
	var p fieldFields
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Binding == nil {
		var raw struct {
			Binding json.RawMessage `json:"binding"`
		}
		if err := json.Unmarshal(data, &raw); err == nil && string(raw.Binding) == "null" {
			p.Binding = Off()
		}
	}
	*f = Field(p)
	return nil
}

// UnmarshalYAML decodes a field, keeping an explicit `binding: null` (or
// `~`) apart from a missing binding.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var p fieldFields
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Binding == nil && node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "binding" && node.Content[i+1].ShortTag() == "!!null" {
				p.Binding = Off()
			}
		}
	}
	*f = Field(p)
	return nil
}
