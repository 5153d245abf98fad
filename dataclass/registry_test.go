package dataclass_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datakit/dataclass"
	"datakit/validate"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func newTestRegistry(t *testing.T) (*dataclass.Registry, *syncBuffer) {
	t.Helper()

	out := &syncBuffer{}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return dataclass.NewRegistry(dataclass.WithLogger(logger)), out
}

func TestRegistry_ResolveDescribesFields(t *testing.T) {
	r, _ := newTestRegistry(t)

	def, err := r.Resolve(userClass)
	require.NoError(t, err)

	assert.Equal(t, "User", def.Name())
	assert.Same(t, userClass, def.Class())
	assert.Equal(t, []string{"name", "username", "email", "avatar", "links"}, def.Names())
	assert.Equal(t, []string{"name", "username", "email"}, def.RequiredFields())

	tests := []struct {
		field      string
		kind       dataclass.FieldKind
		required   bool
		validators int
	}{
		{"name", dataclass.KindPlain, true, 1},
		{"email", dataclass.KindPlain, true, 1},
		{"avatar", dataclass.KindNested, false, 0},
		{"links", dataclass.KindNestedArray, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			fd, ok := def.Field(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.kind, fd.Kind())
			assert.Equal(t, tt.required, fd.Required)
			assert.Len(t, fd.Validators, tt.validators)
		})
	}

	assert.Equal(t, "NestedArray", dataclass.KindNestedArray.String())
	assert.Equal(t, "FieldKind(7)", dataclass.FieldKind(7).String())
}

func TestRegistry_ResolvesOnceUnderConcurrency(t *testing.T) {
	r, logs := newTestRegistry(t)

	const workers = 32

	defs := make([]*dataclass.Definition, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			def, err := r.Resolve(userClass)
			assert.NoError(t, err)

			defs[i] = def
		}()
	}

	wg.Wait()

	for _, def := range defs {
		assert.Same(t, defs[0], def)
	}

	assert.Equal(t, 1, strings.Count(logs.String(), `msg="resolved data class" class=User`))
}

func TestRegistry_RegistriesAreIndependent(t *testing.T) {
	a, _ := newTestRegistry(t)
	b, _ := newTestRegistry(t)

	da, err := a.Resolve(linkClass)
	require.NoError(t, err)

	db, err := b.Resolve(linkClass)
	require.NoError(t, err)

	assert.NotSame(t, da, db)
}

func TestRegistry_DefinitionErrors(t *testing.T) {
	tests := []struct {
		name    string
		class   *dataclass.Class
		problem string
	}{
		{
			"duplicate field",
			dataclass.Define("Dup", dataclass.Field("a"), dataclass.Field("a")),
			`field "a" is declared more than once`,
		},
		{
			"empty field name",
			dataclass.Define("Empty", dataclass.Field("")),
			"field has no name",
		},
		{
			"validator for undeclared field",
			dataclass.Define("Typo", dataclass.Field("email"), dataclass.Validates("emial", validate.Trim())),
			`validator targets undeclared field "emial" (did you mean "email"?)`,
		},
		{
			"nested field with validators",
			dataclass.Define("Both", dataclass.Field("link", dataclass.Of(linkClass), dataclass.Validate(validate.Trim()))),
			`nested field "link" cannot have validators`,
		},
		{
			"nil nested class",
			dataclass.Define("NilNested", dataclass.Field("x", dataclass.Of(nil))),
			`field "x" references a nil data class`,
		},
		{
			"nil validator",
			dataclass.Define("NilValidator", dataclass.Field("x", dataclass.Validate(nil))),
			`field "x" has a nil validator`,
		},
		{
			"bad nested default",
			dataclass.Define("BadDefault", dataclass.Field("link", dataclass.Of(linkClass), dataclass.Default("x"))),
			`default of field "link" must be nil or a Link instance`,
		},
		{
			"bad nested array default",
			dataclass.Define("BadArrayDefault", dataclass.Field("links", dataclass.ArrayOf(linkClass), dataclass.Default([]any{"x"}))),
			`default of field "links" must be nil, an empty array or Link instances`,
		},
		{
			"bad array default",
			dataclass.Define("BadPlainArray", dataclass.Field("tags", dataclass.Array(), dataclass.Default("x"))),
			`array field "tags" has a non-array default string`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRegistry(t)

			_, err := r.Resolve(tt.class)

			var derr *dataclass.DefinitionError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.class.Name(), derr.Class)
			assert.Contains(t, derr.Problems, tt.problem)

			// the failure is cached as well
			_, again := r.Resolve(tt.class)
			assert.Same(t, err, again)

			_, err = r.Construct(tt.class, nil)
			assert.ErrorAs(t, err, &derr)
		})
	}
}

func TestRegistry_ResolveNil(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Resolve(nil)
	require.EqualError(t, err, "cannot resolve a nil data class")
}

func TestRegistry_WarnsOnCaseCollision(t *testing.T) {
	r, logs := newTestRegistry(t)

	c := dataclass.Define("Collide", dataclass.Field("firstName"), dataclass.Field("first_name"))

	_, err := r.Resolve(c)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "differ only by case or separators")
}

func TestRegistry_Register(t *testing.T) {
	r, _ := newTestRegistry(t)

	require.NoError(t, r.Register(userClass, avatarClass))
	require.NoError(t, r.Register(userClass), "registering the same class again is a no-op")

	got, ok := r.Lookup("User")
	require.True(t, ok)
	assert.Same(t, userClass, got)

	impostor := dataclass.Define("User", dataclass.Field("id"))
	err := r.Register(linkClass, impostor)
	require.EqualError(t, err, `data class "User" is already registered`)

	_, ok = r.Lookup("Link")
	assert.False(t, ok, "a failed Register registers nothing")

	require.Error(t, r.Register(nil))
	assert.Panics(t, func() { r.MustRegister(impostor) })
}

func TestRegistry_Preload(t *testing.T) {
	r, logs := newTestRegistry(t)

	require.NoError(t, r.Preload(context.Background(), userClass, serverClass))

	for _, name := range []string{"User", "Avatar", "Link", "Server", "Host"} {
		assert.Contains(t, logs.String(), `msg="resolved data class" class=`+name)
	}

	broken := dataclass.Define("Broken",
		dataclass.Field("inner", dataclass.Of(dataclass.Define("Inner", dataclass.Field("a"), dataclass.Field("a")))),
	)

	err := r.Preload(context.Background(), broken)

	var derr *dataclass.DefinitionError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "Inner", derr.Class)
}

func TestRegistry_PreloadCanceled(t *testing.T) {
	r, _ := newTestRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, r.Preload(ctx, userClass), context.Canceled)
}
