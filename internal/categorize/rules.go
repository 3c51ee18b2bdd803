package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryOther is assigned when no rule matches.
const CategoryOther = "Other"

// Rule maps one category to the keywords that select it.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Rules is an ordered rule list. Order matters: the first category with a
// matching keyword wins, so narrower categories belong before broader ones.
type Rules []Rule

// Categorize returns the category of the first rule with a keyword that is a
// substring of the lowercased text, or CategoryOther.
func (r Rules) Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range r {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// Categories returns the category names in rule order.
func (r Rules) Categories() []string {
	out := make([]string, len(r))
	for i, rule := range r {
		out[i] = rule.Category
	}
	return out
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads an ordered rule list from a YAML file.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	for i := range f.Rules {
		for j, kw := range f.Rules[i].Keywords {
			f.Rules[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return Rules(f.Rules), nil
}

// Save writes rules to a YAML file.
func Save(path string, rules Rules) error {
	data, err := yaml.Marshal(rulesFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("marshaling rules: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
