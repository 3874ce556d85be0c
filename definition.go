package extender

import (
	"errors"
	"fmt"

	"github.com/emirpasic/gods/maps/linkedhashmap"
)

var (
	// ErrNoSuchMethod is returned when an instance is asked to call a method
	// that neither its definition nor any definition it extends declares.
	ErrNoSuchMethod = errors.New("no such method")

	// ErrNoSuchStatic is returned when a definition is asked for a static
	// member that is not reachable from it.
	ErrNoSuchStatic = errors.New("no such static")

	// ErrNotCallable is returned by [Definition.CallStatic] when the named
	// static is a plain value rather than a [StaticFunc].
	ErrNotCallable = errors.New("static is not callable")
)

// Method is an instance operation. self is the instance the method was
// called on, never the instance of whichever base originally declared it.
type Method func(self *Instance, args ...any) (any, error)

// StaticFunc is a callable static member. def is the definition the call was
// made through, so a static inherited by a subclass sees the subclass.
type StaticFunc func(def *Definition, args ...any) (any, error)

// SuperFunc runs the parent definition's construction against the instance
// currently being constructed. For a root definition it does nothing.
type SuperFunc func(args ...any) error

// Initializer is the construction procedure of a definition. It assigns the
// initial fields of self from args.
type Initializer func(self *Instance, super SuperFunc, args ...any) error

// A Definition is a class-like, constructible unit: an initializer, a table
// of instance methods and a table of static members, all keyed by name.
//
// Definitions are produced by a [Builder] or by [Compose] and never change
// afterward, so they may be shared freely between goroutines and between any
// number of compositions. The zero value is not usable.
type Definition struct {
	name  string
	arity int

	// parent is set for definitions declared through Extend.
	parent *Definition

	// bases is set for definitions produced by Compose.
	bases []*Definition

	init Initializer

	// name -> Method, in declaration order
	methods *linkedhashmap.Map
	// name -> any, in declaration order
	statics *linkedhashmap.Map
}

func newDefinition(name string) *Definition {
	return &Definition{
		name:    name,
		methods: linkedhashmap.New(),
		statics: linkedhashmap.New(),
	}
}

// usable reports whether d can be constructed and has tables to enumerate.
func (d *Definition) usable() bool {
	return d != nil && d.methods != nil && d.statics != nil
}

// Name returns the display name of the definition.
func (d *Definition) Name() string {
	return d.name
}

// Arity returns the declared parameter count of the definition's
// initializer.
func (d *Definition) Arity() int {
	return d.arity
}

// Parent returns the definition d was declared to extend, or nil.
func (d *Definition) Parent() *Definition {
	return d.parent
}

// Bases returns the ordered list of definitions d was composed from. It is
// nil for definitions that were not produced by [Compose].
func (d *Definition) Bases() []*Definition {
	if d.bases == nil {
		return nil
	}
	return append([]*Definition(nil), d.bases...)
}

// String implements fmt.Stringer.
func (d *Definition) String() string {
	if d == nil {
		return "<nil>"
	}
	return d.name
}

// chain returns d followed by each of its ancestors, nearest first.
func (d *Definition) chain() []*Definition {
	var ch []*Definition
	for cur := d; cur != nil; cur = cur.parent {
		ch = append(ch, cur)
	}
	return ch
}

// eachMethod visits every method reachable from d, farthest ancestor first,
// so that a caller putting them into a table ends up with the nearest
// declaration of each name.
func (d *Definition) eachMethod(fn func(name string, m Method)) {
	ch := d.chain()
	for i := len(ch) - 1; i >= 0; i-- {
		ch[i].methods.Each(func(k, v interface{}) {
			fn(k.(string), v.(Method))
		})
	}
}

// eachStatic is the static counterpart of eachMethod.
func (d *Definition) eachStatic(fn func(name string, v any)) {
	ch := d.chain()
	for i := len(ch) - 1; i >= 0; i-- {
		ch[i].statics.Each(func(k, v interface{}) {
			fn(k.(string), v)
		})
	}
}

// Method returns the named instance method, searching d first and then the
// definitions it extends.
func (d *Definition) Method(name string) (Method, bool) {
	for cur := d; cur != nil; cur = cur.parent {
		if v, has := cur.methods.Get(name); has {
			return v.(Method), true
		}
	}
	return nil, false
}

// HasMethod reports whether instances of d respond to name.
func (d *Definition) HasMethod(name string) bool {
	_, has := d.Method(name)
	return has
}

// MethodNames returns the names of every method reachable from d, in
// declaration order with inherited names first.
func (d *Definition) MethodNames() []string {
	return orderedNames(func(visit func(string)) {
		d.eachMethod(func(name string, _ Method) { visit(name) })
	})
}

// Static returns the named static member, searching d first and then the
// definitions it extends.
func (d *Definition) Static(name string) (any, bool) {
	for cur := d; cur != nil; cur = cur.parent {
		if v, has := cur.statics.Get(name); has {
			return v, true
		}
	}
	return nil, false
}

// StaticNames returns the names of every static member reachable from d, in
// declaration order with inherited names first.
func (d *Definition) StaticNames() []string {
	return orderedNames(func(visit func(string)) {
		d.eachStatic(func(name string, _ any) { visit(name) })
	})
}

// CallStatic invokes the named [StaticFunc] with d as its receiver.
func (d *Definition) CallStatic(name string, args ...any) (any, error) {
	v, has := d.Static(name)
	if !has {
		return nil, fmt.Errorf("%s has no static %q: %w", d.name, name, ErrNoSuchStatic)
	}
	fn, ok := v.(StaticFunc)
	if !ok {
		return nil, fmt.Errorf("%s.%s is %T: %w", d.name, name, v, ErrNotCallable)
	}
	return fn(d, args...)
}

// New constructs an instance of d, passing args to its initializer.
func (d *Definition) New(args ...any) (*Instance, error) {
	if !d.usable() {
		return nil, fmt.Errorf("%w: cannot construct an unusable definition", ErrConfiguration)
	}
	self := newInstance(d)
	if err := d.construct(self, args); err != nil {
		return nil, err
	}
	return self, nil
}

func (d *Definition) construct(self *Instance, args []any) error {
	super := func(sargs ...any) error {
		if d.parent == nil {
			return nil
		}
		return d.parent.construct(self, sargs)
	}
	if d.init == nil {
		return super(args...)
	}
	return d.init(self, super, args...)
}

// Arg returns args[i], or nil if args has no such element.
func Arg(args []any, i int) any {
	if i < 0 || i >= len(args) {
		return nil
	}
	return args[i]
}

func orderedNames(walk func(visit func(string))) []string {
	seen := make(map[string]bool)
	var names []string
	walk(func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	return names
}
