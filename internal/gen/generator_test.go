package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubgen/internal/analyze"
	"stubgen/internal/rewrite"
)

const delegateSrc = `package shop

type Foo struct{}

func (Foo) M()           {}
func (*Foo) P(n int) int { return n }

type Logger interface {
	Logf(format string, args ...any) (int, error)
}

type T struct {
	field Foo
}

type S struct {
	log Logger
}

func (s S) Name() string { return "s" }

type Inner struct{}

func (Inner) Do() {}

type Box[K comparable, V any] struct {
	inner Inner
}
`

func TestDelegate_VoidMethod(t *testing.T) {
	unit := loadUnit(t, delegateSrc)
	g, overlay := newGenerator(unit, DefaultSettings())

	named := namedType(t, unit, "T")
	d := findDelegate(t, analyze.DelegatableMethods(named, unit.Pkg), "M()")

	stub, err := g.Delegate(named, d)
	require.NoError(t, err)

	assert.Equal(t, analyze.BindingKey("M()"), stub.Key)
	assert.Nil(t, stub.Body)
	assert.Equal(t, "func (t *T) M() {\nt.field.M()\n}", render(t, stub))

	data, ok := overlay.Table().TrackedData(stub.Decl)
	require.True(t, ok)
	assert.Same(t, stub, data)
}

func TestDelegate_ResultsAndVariadic(t *testing.T) {
	unit := loadUnit(t, delegateSrc)
	g, _ := newGenerator(unit, DefaultSettings())

	named := namedType(t, unit, "S")
	d := findDelegate(t, analyze.DelegatableMethods(named, unit.Pkg), "Logf(string,...any)(int,error)")

	stub, err := g.Delegate(named, d)
	require.NoError(t, err)

	// The existing value receiver s is reused.
	assert.Equal(t,
		"func (s S) Logf(format string, args ...any) (int, error) {\nreturn s.log.Logf(format, args...)\n}",
		render(t, stub))
}

func TestDelegate_GenericReceiver(t *testing.T) {
	unit := loadUnit(t, delegateSrc)
	g, _ := newGenerator(unit, DefaultSettings())

	named := namedType(t, unit, "Box")
	d := findDelegate(t, analyze.DelegatableMethods(named, unit.Pkg), "Do()")

	stub, err := g.Delegate(named, d)
	require.NoError(t, err)
	assert.Equal(t, "func (b *Box[K, V]) Do() {\nb.inner.Do()\n}", render(t, stub))
}

func TestDelegate_DocComments(t *testing.T) {
	unit := loadUnit(t, delegateSrc)

	settings := DefaultSettings()
	settings.Delegate = true
	settings.Deprecate = true

	g, _ := newGenerator(unit, settings)

	named := namedType(t, unit, "T")
	d := findDelegate(t, analyze.DelegatableMethods(named, unit.Pkg), "P(int)int")

	stub, err := g.Delegate(named, d)
	require.NoError(t, err)
	assert.Equal(t, "// P forwards to t.field.P.\n//\n// Deprecated: use field.P instead.\n"+
		"func (t *T) P(n int) int {\nreturn t.field.P(n)\n}", render(t, stub))
}

func TestUnimplemented_PanicBodyRecordsImports(t *testing.T) {
	unit := loadUnit(t, `package shop

import "database/sql/driver"

type Conn struct{}

var _ driver.Connector = (*Conn)(nil)
`)
	g, overlay := newGenerator(unit, DefaultSettings())

	named := namedType(t, unit, "Conn")
	missing := analyze.MissingMethods(named, analyze.AssertedInterfaces(unit, named), unit.Pkg)
	require.Len(t, missing, 2)

	stub, err := g.Unimplemented(named, missing[0])
	require.NoError(t, err)

	assert.Equal(t, analyze.BindingKey("Connect(context.Context)(database/sql/driver.Conn,error)"), stub.Key)
	assert.Equal(t, "// Connect implements driver.Connector.\n"+
		"func (c *Conn) Connect(p0 context.Context) (driver.Conn, error) {\npanic(\"unimplemented\")\n}",
		render(t, stub))
	assert.Equal(t, []rewrite.Import{{Path: "context"}}, overlay.Imports().Added())

	data, ok := overlay.Table().PlaceholderData(stub.Body)
	require.True(t, ok)
	assert.Equal(t, BodyData{Stub: stub}, data)
}

const zeroSrc = `package shop

type Item struct{}
type Kind string
type Pair [2]int

type Store interface {
	Get(t string, _ int) (Item, bool)
	Count() int
	Bytes() []byte
	Ptr() *Item
	Pair() Pair
	Kind() Kind
	Reset()
}

type T struct{}

var _ Store = T{}
`

func TestUnimplemented_ZeroBody(t *testing.T) {
	unit := loadUnit(t, zeroSrc)

	settings := DefaultSettings()
	settings.Body = BodyZero
	settings.Comments = false

	g, _ := newGenerator(unit, settings)

	named := namedType(t, unit, "T")
	missing := analyze.MissingMethods(named, analyze.AssertedInterfaces(unit, named), unit.Pkg)

	want := map[string]string{
		"Get":   "func (t *T) Get(p0 string, p1 int) (Item, bool) {\nreturn Item{}, false\n}",
		"Count": "func (t *T) Count() int {\nreturn 0\n}",
		"Bytes": "func (t *T) Bytes() []byte {\nreturn nil\n}",
		"Ptr":   "func (t *T) Ptr() *Item {\nreturn nil\n}",
		"Pair":  "func (t *T) Pair() Pair {\nreturn Pair{}\n}",
		"Kind":  "func (t *T) Kind() Kind {\nreturn \"\"\n}",
		"Reset": "func (t *T) Reset() {\n}",
	}

	require.Len(t, missing, len(want))

	for _, m := range missing {
		stub, err := g.Unimplemented(named, m)
		require.NoError(t, err)
		assert.Equal(t, want[stub.Name], render(t, stub), stub.Name)

		if stub.Name == "Reset" {
			assert.Same(t, stub.Decl.Body, stub.Body)
		}
	}
}

func TestZeroValue_TypeParam(t *testing.T) {
	unit := loadUnit(t, delegateSrc)
	g, _ := newGenerator(unit, DefaultSettings())

	named := namedType(t, unit, "Box")

	expr, err := g.zeroValue(named.TypeParams().At(1))
	require.NoError(t, err)

	text, _, err := rewrite.Flatten(expr, nil)
	require.NoError(t, err)
	assert.Equal(t, "*new(V)", text)
}

func TestUnimplemented_RenamedParamsSkipDeclaredNames(t *testing.T) {
	unit := loadUnit(t, `package shop

type I interface {
	M(p1 int, _ string)
	N(_ int, p0 bool, t string)
}

type T struct{}

var _ I = T{}
`)

	settings := DefaultSettings()
	settings.Comments = false

	g, _ := newGenerator(unit, settings)

	named := namedType(t, unit, "T")
	missing := analyze.MissingMethods(named, analyze.AssertedInterfaces(unit, named), unit.Pkg)
	require.Len(t, missing, 2)

	want := map[string]string{
		"M": "func (t *T) M(p1 int, p2 string) {\npanic(\"unimplemented\")\n}",
		"N": "func (t *T) N(p1 int, p0 bool, p2 string) {\npanic(\"unimplemented\")\n}",
	}

	for _, m := range missing {
		stub, err := g.Unimplemented(named, m)
		require.NoError(t, err)
		assert.Equal(t, want[stub.Name], render(t, stub), stub.Name)
	}
}

func TestDelegate_ForwardsRenamedParams(t *testing.T) {
	unit := loadUnit(t, `package shop

type Sink struct{}

func (Sink) Put(p1 int, _ string) {}

type T struct {
	sink Sink
}
`)
	g, _ := newGenerator(unit, DefaultSettings())

	named := namedType(t, unit, "T")
	d := findDelegate(t, analyze.DelegatableMethods(named, unit.Pkg), "Put(int,string)")

	stub, err := g.Delegate(named, d)
	require.NoError(t, err)
	assert.Equal(t, "func (t *T) Put(p1 int, p2 string) {\nt.sink.Put(p1, p2)\n}", render(t, stub))
}

func TestUnimplemented_NamesDoNotShadowBody(t *testing.T) {
	unit := loadUnit(t, `package shop

import "time"

type Clock interface {
	At(time int) time.Time
	Fail(panic string)
}

type Item struct{}

type Maker interface {
	Make(v int, Item int) Item
}

type time2 struct{}

func (time *time2) Now() {}

var (
	_ Clock = (*time2)(nil)
	_ Maker = (*time2)(nil)
)
`)

	zero := DefaultSettings()
	zero.Body = BodyZero
	zero.Comments = false

	g, _ := newGenerator(unit, zero)

	named := namedType(t, unit, "time2")
	missing := analyze.MissingMethods(named, analyze.AssertedInterfaces(unit, named), unit.Pkg)

	byName := make(map[string]analyze.Missing)
	for _, m := range missing {
		byName[m.Method.Name()] = m
	}

	// The existing receiver name and the parameter both shadow the time package.
	stub, err := g.Unimplemented(named, byName["At"])
	require.NoError(t, err)
	assert.Equal(t, "func (t *time2) At(p0 int) time.Time {\nreturn time.Time{}\n}", render(t, stub))

	stub, err = g.Unimplemented(named, byName["Make"])
	require.NoError(t, err)
	assert.Equal(t, "func (time *time2) Make(v int, p1 int) Item {\nreturn Item{}\n}", render(t, stub))

	panicking := DefaultSettings()
	panicking.Comments = false

	g, _ = newGenerator(unit, panicking)

	stub, err = g.Unimplemented(named, byName["Fail"])
	require.NoError(t, err)
	assert.Equal(t, "func (time *time2) Fail(p0 string) {\npanic(\"unimplemented\")\n}", render(t, stub))
}
