package patternset

// yamlGroup is one color group of a set. Match is a comma-separated
// shorthand; Patterns holds patterns that themselves contain commas.
type yamlGroup struct {
	Match    string   `yaml:"match,omitempty"`
	Patterns []string `yaml:"patterns,omitempty"`
	Color    string   `yaml:"color,omitempty"`
}

// yamlSet is the intermediate struct for parsing a pattern set.
type yamlSet struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Groups      []yamlGroup `yaml:"groups"`
	Examples    []string    `yaml:"examples,omitempty"`
}

// yamlSetsFile represents the top-level structure of a sets YAML file.
type yamlSetsFile struct {
	Sets []yamlSet `yaml:"sets"`
}
