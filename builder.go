package extender

import (
	"errors"
	"fmt"
	"sync"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/hashicorp/go-multierror"
)

// ErrInvalidDeclaration is matched (via errors.Is) by every problem a
// [Builder] reports.
var ErrInvalidDeclaration = errors.New("invalid declaration")

// Builder declares a [Definition]. Its setters may be chained; problems are
// collected and reported together by [Builder.Build].
//
// A Builder may be reused after Build. Each call to Build returns an
// independent definition, unaffected by later changes to the Builder.
type Builder struct {
	mut sync.Mutex
	def *Definition

	result *multierror.Error
}

// Define starts the declaration of a root definition.
func Define(name string) *Builder {
	b := &Builder{def: newDefinition(name)}
	if name == "" {
		b.fail("definition name must not be empty")
	}
	return b
}

// Extend starts the declaration of a definition that extends parent, which
// may itself be the result of [Compose]. Methods and statics not declared
// on the new definition are looked up on parent, and the default
// initializer passes every argument through to parent.
func Extend(parent *Definition, name string) *Builder {
	b := Define(name)
	if !parent.usable() {
		b.fail("%s cannot extend an unusable definition", name)
		return b
	}
	b.def.parent = parent
	return b
}

func (b *Builder) fail(format string, args ...any) {
	b.result = multierror.Append(b.result,
		fmt.Errorf("%w: %s", ErrInvalidDeclaration, fmt.Sprintf(format, args...)))
}

// Arity sets the declared parameter count of the definition's initializer.
func (b *Builder) Arity(n int) *Builder {
	b.mut.Lock()
	defer b.mut.Unlock()
	if n < 0 {
		b.fail("%s: arity must not be negative, got %d", b.def.name, n)
		return b
	}
	b.def.arity = n
	return b
}

// Init sets the definition's initializer. Without one, construction behaves
// as if the initializer only called super with its own arguments.
func (b *Builder) Init(fn Initializer) *Builder {
	b.mut.Lock()
	defer b.mut.Unlock()
	if fn == nil {
		b.fail("%s: initializer must not be nil", b.def.name)
		return b
	}
	b.def.init = fn
	return b
}

// Method declares an instance method. Declaring the same name twice keeps
// the later method.
func (b *Builder) Method(name string, fn Method) *Builder {
	b.mut.Lock()
	defer b.mut.Unlock()
	switch {
	case name == "":
		b.fail("%s: method name must not be empty", b.def.name)
	case name == constructorName:
		b.fail("%s: %q cannot be declared as a method, use Init", b.def.name, name)
	case fn == nil:
		b.fail("%s: method %q must not be nil", b.def.name, name)
	default:
		b.def.methods.Put(name, fn)
	}
	return b
}

// Static declares a static member. Functions with the signature of
// [StaticFunc] are stored as StaticFunc, so they can be invoked through
// [Definition.CallStatic].
func (b *Builder) Static(name string, value any) *Builder {
	if fn, ok := value.(func(*Definition, ...any) (any, error)); ok {
		value = StaticFunc(fn)
	}
	b.mut.Lock()
	defer b.mut.Unlock()
	ok := true
	if name == "" {
		b.fail("%s: static name must not be empty", b.def.name)
		ok = false
	}
	if fn, isFunc := value.(StaticFunc); isFunc && fn == nil {
		b.fail("%s: static %q must not be nil", b.def.name, name)
		ok = false
	}
	if ok {
		b.def.statics.Put(name, value)
	}
	return b
}

// StaticFunc declares a callable static member.
func (b *Builder) StaticFunc(name string, fn StaticFunc) *Builder {
	return b.Static(name, fn)
}

// Build returns the declared definition, or every problem found while
// declaring it.
func (b *Builder) Build() (*Definition, error) {
	b.mut.Lock()
	defer b.mut.Unlock()
	if err := b.result.ErrorOrNil(); err != nil {
		return nil, multierror.Flatten(err)
	}

	def := *b.def
	def.methods = cloneTable(b.def.methods)
	def.statics = cloneTable(b.def.statics)
	return &def, nil
}

// MustBuild is like [Builder.Build], but panics on error.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func cloneTable(m *linkedhashmap.Map) *linkedhashmap.Map {
	c := linkedhashmap.New()
	m.Each(func(k, v interface{}) {
		c.Put(k, v)
	})
	return c
}
