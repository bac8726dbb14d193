// Package categorize sorts commits and pull requests into categories using
// ordered keyword rules.
package categorize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Other is assigned to items that match no rule.
const Other = "other"

// Rule lists the keywords that put a change into the named category.
type Rule struct {
	Category string
	Keywords []string
}

// RuleSet is ordered: earlier rules take precedence over later ones.
// It decodes from a YAML or JSON mapping, keeping the key order of the source.
type RuleSet []Rule

// DefaultRules is used when no rule set is configured.
func DefaultRules() RuleSet {
	return RuleSet{
		{Category: "feature", Keywords: []string{"feature", "feat", "enhancement"}},
		{Category: "bug", Keywords: []string{"bug", "fix", "bugfix"}},
		{Category: "documentation", Keywords: []string{"docs", "documentation"}},
		{Category: "chore", Keywords: []string{"chore", "build", "ci"}},
		{Category: "refactor", Keywords: []string{"refactor"}},
		{Category: "test", Keywords: []string{"test", "tests"}},
	}
}

// Names returns the category names in precedence order.
func (rs RuleSet) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Category
	}
	return names
}

func (rs *RuleSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: categories must be a mapping of category to keywords", node.Line)
	}

	out := make(RuleSet, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var rule Rule
		if err := node.Content[i].Decode(&rule.Category); err != nil {
			return fmt.Errorf("line %d: category name: %w", node.Content[i].Line, err)
		}
		if err := node.Content[i+1].Decode(&rule.Keywords); err != nil {
			return fmt.Errorf("line %d: keywords of %q: %w", node.Content[i+1].Line, rule.Category, err)
		}
		out = append(out, rule)
	}
	*rs = out
	return nil
}

func (rs RuleSet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range rs {
		var key, value yaml.Node
		if err := key.Encode(r.Category); err != nil {
			return nil, err
		}
		if err := value.Encode(r.Keywords); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return node, nil
}

func (rs *RuleSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*rs = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories must be an object of category to keywords")
	}

	out := RuleSet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		rule := Rule{Category: tok.(string)}
		if err := dec.Decode(&rule.Keywords); err != nil {
			return fmt.Errorf("keywords of %q: %w", rule.Category, err)
		}
		out = append(out, rule)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*rs = out
	return nil
}

func (rs RuleSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Category)
		if err != nil {
			return nil, err
		}
		keywords := r.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		value, err := json.Marshal(keywords)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
