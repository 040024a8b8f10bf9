package catalog

// ElementMapping maps semantic pattern keywords to selector candidates.
// Selectors are priority ordered: the renderer tries them in sequence and
// stops at the first DOM match. Mappings are immutable once registered.
type ElementMapping struct {
	Patterns    []string `json:"patterns" yaml:"patterns"`
	Selectors   []string `json:"selectors" yaml:"selectors"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
}

// AppSchema is a per-application catalog of element mappings, keyed by
// its application identifier.
type AppSchema struct {
	AppID    string           `json:"appId" yaml:"appId"`
	Elements []ElementMapping `json:"elements" yaml:"elements"`
}
