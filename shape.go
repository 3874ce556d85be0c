package extender

import (
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// Shape is a comparable summary of the member surface of a [Definition].
type Shape struct {
	Name    string   `yaml:"name"`
	Arity   int      `yaml:"arity"`
	Parent  string   `yaml:"parent,omitempty"`
	Bases   []string `yaml:"bases,omitempty"`
	Methods []string `yaml:"methods"`
	Statics []string `yaml:"statics"`
}

// Describe returns the shape of def. Member names are listed in the order
// they are enumerated by [Definition.MethodNames] and
// [Definition.StaticNames].
func Describe(def *Definition) Shape {
	if !def.usable() {
		return Shape{}
	}
	s := Shape{
		Name:    def.name,
		Arity:   def.arity,
		Methods: def.MethodNames(),
		Statics: def.StaticNames(),
	}
	if def.parent != nil {
		s.Parent = def.parent.name
	}
	for _, base := range def.bases {
		s.Bases = append(s.Bases, base.name)
	}
	return s
}

// Diff returns a human-readable report of the differences between s and
// other, or the empty string if they are identical.
func (s Shape) Diff(other Shape) string {
	return cmp.Diff(s, other)
}

// YAML renders the shape as a YAML document.
func (s Shape) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
