package question

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Option is one labelled answer choice.
type Option struct {
	Label string
	Text  string
}

// Options is an ordered set of answer choices. Source order is display
// order, so it decodes from a JSON or YAML object without going through a
// Go map.
type Options []Option

// Labels returns the option labels in display order.
func (o Options) Labels() []string {
	labels := make([]string, len(o))
	for i, opt := range o {
		labels[i] = opt.Label
	}
	return labels
}

// Text returns the text for label.
func (o Options) Text(label string) (string, bool) {
	for _, opt := range o {
		if opt.Label == label {
			return opt.Text, true
		}
	}
	return "", false
}

// Has reports whether label is one of the options.
func (o Options) Has(label string) bool {
	_, ok := o.Text(label)
	return ok
}

// Index returns the position of label, or -1.
func (o Options) Index(label string) int {
	for i, opt := range o {
		if opt.Label == label {
			return i
		}
	}
	return -1
}

// Clone returns a copy of o.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	copy(out, o)
	return out
}

// UnmarshalJSON decodes a JSON object of label -> text, keeping key order.
func (o *Options) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("options: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("options: expected object, got %s", res.Type)
	}

	out := Options{}
	seen := make(map[string]bool)
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		label := key.String()
		if seen[label] {
			err = fmt.Errorf("options: duplicate label %q", label)
			return false
		}
		if value.Type != gjson.String {
			err = fmt.Errorf("options: label %q: expected string, got %s", label, value.Type)
			return false
		}
		seen[label] = true
		out = append(out, Option{Label: label, Text: value.String()})
		return true
	})
	if err != nil {
		return err
	}

	*o = out
	return nil
}

// MarshalJSON encodes the options as a JSON object in display order.
func (o Options) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(opt.Label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalYAML decodes a YAML mapping of label -> text, keeping key order.
func (o *Options) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("options: line %d: expected mapping", value.Line)
	}

	out := make(Options, 0, len(value.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("options: line %d: label %q: expected scalar", v.Line, k.Value)
		}
		if seen[k.Value] {
			return fmt.Errorf("options: line %d: duplicate label %q", k.Line, k.Value)
		}
		seen[k.Value] = true
		out = append(out, Option{Label: k.Value, Text: v.Value})
	}

	*o = out
	return nil
}

// MarshalYAML encodes the options as a YAML mapping in display order.
func (o Options) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, opt := range o {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Label},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: opt.Text},
		)
	}
	return node, nil
}
