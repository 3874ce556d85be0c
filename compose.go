// Package extender synthesizes a single definition from several independent
// base definitions, so that its instances behave as if they inherited from
// all of the bases at once.
//
// The merge happens exactly once, when [Compose] is called, and is shallow
// and right-biased: wherever two bases supply a member with the same name,
// the base listed later wins. There is no dispatch across bases after that
// point. The composed definition owns plain copies of the merged tables.
//
// Definitions are declared with [Define] and [Extend]:
//
//	A := extender.Define("A").
//		Method("methodA", func(self *extender.Instance, args ...any) (any, error) {
//			return "A", nil
//		}).
//		MustBuild()
//
//	C := extender.Extend(extender.MustCompose(A, B), "C").MustBuild()
package extender

import (
	"fmt"
	"strings"
)

// constructorName is never copied between instances or method tables.
const constructorName = "constructor"

// reservedStatics hold identity and metadata of a definition and are never
// merged from a base.
var reservedStatics = map[string]bool{
	"prototype": true,
	"name":      true,
	"length":    true,
}

// Compose returns a new definition that merges the given bases. Its name is
// the base names joined with "+".
//
// Constructing the result constructs a fresh instance of every base, in
// order, with the same arguments, and copies each one's fields onto the new
// instance. Later bases overwrite fields, methods and statics of earlier
// ones. Methods are taken from each base and the definitions it extends;
// statics only from the base itself. The bases themselves are never
// modified.
//
// A [*ConfigurationError] is returned if bases is empty or holds an unusable
// definition.
func Compose(bases ...*Definition) (*Definition, error) {
	if err := validate(bases); err != nil {
		return nil, err
	}
	names := make([]string, len(bases))
	for i, base := range bases {
		names[i] = base.name
	}
	return compose(strings.Join(names, "+"), bases), nil
}

// ComposeNamed is like [Compose], but gives the result the provided name.
func ComposeNamed(name string, bases ...*Definition) (*Definition, error) {
	if err := validate(bases); err != nil {
		return nil, err
	}
	return compose(name, bases), nil
}

// MustCompose is like [Compose], but panics on error.
func MustCompose(bases ...*Definition) *Definition {
	def, err := Compose(bases...)
	if err != nil {
		panic(err)
	}
	return def
}

func compose(name string, bases []*Definition) *Definition {
	def := newDefinition(name)
	def.bases = append([]*Definition(nil), bases...)
	def.init = replay(def.bases)

	for _, base := range def.bases {
		base.eachMethod(func(name string, m Method) {
			if name != constructorName {
				def.methods.Put(name, m)
			}
		})
		// only the base's own statics; inherited ones stay with its parent
		base.statics.Each(func(k, v interface{}) {
			if name := k.(string); !reservedStatics[name] {
				def.statics.Put(name, v)
			}
		})
	}
	return def
}

// replay returns the initializer of a composed definition: every base is
// constructed with the unmodified argument list and its fields are folded
// onto self left to right.
func replay(bases []*Definition) Initializer {
	return func(self *Instance, _ SuperFunc, args ...any) error {
		for _, base := range bases {
			inst, err := base.New(args...)
			if err != nil {
				return fmt.Errorf("constructing base %s: %w", base.name, err)
			}
			inst.each(func(field string, value any) {
				if field != constructorName {
					self.Set(field, value)
				}
			})
		}
		return nil
	}
}
