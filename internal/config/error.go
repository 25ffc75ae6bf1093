package config

import (
	"fmt"
	"strings"
)

// ConfigError collects every problem found while loading one config file,
// so all of them can be reported at once.
type ConfigError struct {
	Path    string
	Missing []string // ${VAR} references with no value and no default
	Errors  []string // messages from Validate
}

// Problems returns one line per problem, unresolved variables first.
func (e *ConfigError) Problems() []string {
	problems := make([]string, 0, len(e.Missing)+len(e.Errors))
	for _, name := range e.Missing {
		problems = append(problems, fmt.Sprintf("${%s} is not set", name))
	}
	return append(problems, e.Errors...)
}

func (e *ConfigError) Error() string {
	problems := e.Problems()
	switch len(problems) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("config %s: %s", e.Path, problems[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "config %s: %d problems", e.Path, len(problems))
	for _, p := range problems {
		b.WriteString("\n  - ")
		b.WriteString(p)
	}
	return b.String()
}

// HasErrors reports whether any problem was recorded.
func (e *ConfigError) HasErrors() bool {
	return len(e.Missing) > 0 || len(e.Errors) > 0
}
