package dataclass_test

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datakit/dataclass"
)

func TestConstruct_AppliesValidatorsAndDefaults(t *testing.T) {
	user, err := dataclass.Construct(userClass, frederic())
	require.NoError(t, err)

	name, ok := dataclass.Value[string](user, "name")
	require.True(t, ok)
	assert.Equal(t, "Frederic", name)

	avatar, ok := user.Get("avatar")
	require.True(t, ok)
	assert.Nil(t, avatar)

	links, ok := dataclass.Value[[]*dataclass.Instance](user, "links")
	require.True(t, ok)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}

func TestConstruct_ValidatorRejects(t *testing.T) {
	_, err := dataclass.Construct(userClass, frederic("email", "freostexample.org"))
	require.Error(t, err)

	var verr *dataclass.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email must contain an '@'.", verr.Error())
}

func TestConstruct_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		omit    []string
		want    []string
		message string
	}{
		{"single", []string{"email"}, []string{"email"}, "missing required field: email"},
		{"declaration order", []string{"email", "name"}, []string{"name", "email"}, "missing required fields: name, email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := frederic()
			for _, name := range tt.omit {
				fields.Delete(name)
			}

			inst, err := dataclass.Construct(userClass, fields)
			require.Nil(t, inst)

			var merr *dataclass.MissingRequiredFieldsError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, "User", merr.Class)
			assert.Equal(t, tt.want, merr.Fields)
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestConstruct_MissingFieldsReportedBeforeValidators(t *testing.T) {
	// the email validator would reject this value; the missing name wins
	fields := dataclass.NewFields("username", "freost", "email", "no-at-sign")

	_, err := dataclass.Construct(userClass, fields)

	var merr *dataclass.MissingRequiredFieldsError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, []string{"name"}, merr.Fields)
}

func TestConstruct_NestedObject(t *testing.T) {
	user, err := dataclass.Construct(userClass, frederic(
		"avatar", dataclass.NewFields("url", "https://example.org/avatar.png"),
	))
	require.NoError(t, err)

	avatar, ok := dataclass.Value[*dataclass.Instance](user, "avatar")
	require.True(t, ok)
	require.NotNil(t, avatar)
	assert.Same(t, avatarClass, avatar.Class())

	url, _ := dataclass.Value[string](avatar, "url")
	assert.Equal(t, "https://example.org/avatar.png", url)
}

func TestConstruct_NestedObjectRejects(t *testing.T) {
	_, err := dataclass.Construct(userClass, frederic(
		"avatar", map[string]any{"url": "http://example.org/avatar.png"},
	))

	var verr *dataclass.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Url must start with 'https://'.", verr.Message)
}

func TestConstruct_NestedErrorsAreNotWrapped(t *testing.T) {
	_, err := dataclass.Construct(serverClass, dataclass.NewFields(
		"primary", dataclass.NewFields("host", "db.example.org"),
		"replicas", []any{
			map[string]any{"host": "r1.example.org"},
			map[string]any{"host": "r2.invalid"},
		},
	))

	require.Error(t, err)
	assert.Same(t, errBadHost, err, "nested validator error must be returned as is")
}

func TestConstruct_NestedArrayKeepsOrder(t *testing.T) {
	user, err := dataclass.Construct(userClass, frederic(
		"links", []any{
			dataclass.NewFields("url", "https://example.org", "description", "Example"),
			map[string]any{"url": "https://example.com"},
			dataclass.NewFields("description", "Third", "url", "https://example.net"),
		},
	))
	require.NoError(t, err)

	links, ok := dataclass.Value[[]*dataclass.Instance](user, "links")
	require.True(t, ok)
	require.Len(t, links, 3, spew.Sdump(user.ToObject()))

	urls := make([]string, len(links))
	for i, link := range links {
		urls[i], _ = dataclass.Value[string](link, "url")
	}

	assert.Equal(t, []string{"https://example.org", "https://example.com", "https://example.net"}, urls)

	desc, ok := links[0].Get("description")
	require.True(t, ok)
	assert.Equal(t, "Example", desc)

	desc, ok = links[1].Get("description")
	require.True(t, ok)
	assert.Nil(t, desc)
}

func TestConstruct_NestedShapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		message string
	}{
		{"object expected", "avatar", "https://example.org/a.png", "field avatar expects a Avatar mapping, got string"},
		{"array expected", "links", map[string]any{"url": "x"}, "field links expects an array of Link, got map[string]interface {}"},
		{"element must be a mapping", "links", []any{42.0}, "field links expects a Link mapping, got float64"},
		{"instance of another class", "avatar", mustLink(t), "field avatar expects a Avatar mapping, got *dataclass.Instance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataclass.Construct(userClass, frederic(tt.field, tt.value))

			var verr *dataclass.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.message, verr.Message)
		})
	}
}

func mustLink(t *testing.T) *dataclass.Instance {
	t.Helper()

	link, err := dataclass.Construct(linkClass, dataclass.NewFields("url", "https://example.org"))
	require.NoError(t, err)

	return link
}

func TestConstruct_AcceptsBuiltNestedInstances(t *testing.T) {
	avatar, err := dataclass.Construct(avatarClass, dataclass.NewFields("url", "https://example.org/a.png"))
	require.NoError(t, err)

	link := mustLink(t)

	user, err := dataclass.Construct(userClass, frederic(
		"avatar", avatar,
		"links", []*dataclass.Instance{link},
	))
	require.NoError(t, err)

	got, _ := dataclass.Value[*dataclass.Instance](user, "avatar")
	assert.Same(t, avatar, got)

	links, _ := dataclass.Value[[]*dataclass.Instance](user, "links")
	require.Len(t, links, 1)
	assert.Same(t, link, links[0])
}

func TestConstruct_NullNestedValues(t *testing.T) {
	user, err := dataclass.Construct(userClass, frederic("avatar", nil, "links", nil))
	require.NoError(t, err)

	avatar, _ := user.Get("avatar")
	assert.Nil(t, avatar)

	links, _ := user.Get("links")
	assert.Nil(t, links)
}

func TestConstruct_UnknownField(t *testing.T) {
	_, err := dataclass.Construct(userClass, frederic("emial", "x@example.org"))

	var uerr *dataclass.UnknownFieldError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "User", uerr.Class)
	assert.Equal(t, "emial", uerr.Field)
	assert.Equal(t, "email", uerr.Suggestion)
	assert.EqualError(t, err, `unknown field "emial" for User (did you mean "email"?)`)

	_, err = dataclass.Construct(userClass, frederic("zzz", 1))
	require.ErrorAs(t, err, &uerr)
	assert.Empty(t, uerr.Suggestion)
	assert.EqualError(t, err, `unknown field "zzz" for User`)
}

func TestConstruct_IgnoreUnknown(t *testing.T) {
	user, err := dataclass.Construct(userClass, frederic(
		"nickname", "fred",
		"avatar", map[string]any{"url": "https://example.org/a.png", "width": 64.0},
	), dataclass.IgnoreUnknown())
	require.NoError(t, err)

	_, ok := user.Get("nickname")
	assert.False(t, ok)

	assert.Equal(t, []string{"name", "username", "email", "avatar", "links"}, keysOf(user.ToMapping()))
}

func TestConstruct_ValidatorPipelineOrder(t *testing.T) {
	var calls []string

	appendTag := func(tag string) dataclass.Validator {
		return dataclass.ValidatorFunc(func(s string) (string, error) {
			calls = append(calls, tag)
			return s + tag, nil
		})
	}

	c := dataclass.Define("Pipeline",
		dataclass.Field("value", dataclass.Validate(appendTag("a"), appendTag("b"))),
		dataclass.Validates("value", appendTag("c")),
		dataclass.Validates("value", appendTag("d")),
	)

	inst, err := dataclass.Construct(c, dataclass.NewFields("value", ">"))
	require.NoError(t, err)

	got, _ := dataclass.Value[string](inst, "value")
	assert.Equal(t, ">abcd", got)
	assert.Equal(t, []string{"a", "b", "c", "d"}, calls)
}

func TestConstruct_FailingValidatorStopsPipeline(t *testing.T) {
	ran := false

	c := dataclass.Define("Stop",
		dataclass.Field("value", dataclass.Validate(
			func(any) (any, error) { return nil, dataclass.Invalid("no") },
			func(v any) (any, error) {
				ran = true
				return v, nil
			},
		)),
	)

	_, err := dataclass.Construct(c, dataclass.NewFields("value", 1))
	require.EqualError(t, err, "no")
	assert.False(t, ran)
}

func TestConstruct_SuppliedOrderDrivesAssignment(t *testing.T) {
	var order []string

	record := func(name string) dataclass.Validator {
		return func(v any) (any, error) {
			order = append(order, name)
			return v, nil
		}
	}

	c := dataclass.Define("Ordered",
		dataclass.Field("a", dataclass.Validate(record("a"))),
		dataclass.Field("b", dataclass.Validate(record("b"))),
		dataclass.Field("c", dataclass.Validate(record("c"))),
	)

	inst, err := dataclass.Construct(c, dataclass.NewFields("c", 3, "a", 1, "b", 2))
	require.NoError(t, err)

	assert.Equal(t, []string{"c", "a", "b"}, order)
	assert.Equal(t, []string{"a", "b", "c"}, keysOf(inst.ToMapping()))
}

func TestConstruct_DefaultsAreNotValidated(t *testing.T) {
	c := dataclass.Define("Defaults",
		dataclass.Field("role", dataclass.Default("guest"), dataclass.Validate(func(any) (any, error) {
			return nil, errors.New("validator must not run for defaults")
		})),
	)

	inst, err := dataclass.Construct(c, nil)
	require.NoError(t, err)

	role, _ := dataclass.Value[string](inst, "role")
	assert.Equal(t, "guest", role)
}

func TestConstruct_DoesNotAliasInput(t *testing.T) {
	c := dataclass.Define("Tags",
		dataclass.Field("tags", dataclass.Array()),
		dataclass.Field("meta", dataclass.Default(map[string]any{"k": "v"})),
	)

	tags := []any{"a", "b"}

	inst, err := dataclass.Construct(c, dataclass.NewFields("tags", tags))
	require.NoError(t, err)

	tags[0] = "changed"

	got, _ := dataclass.Value[[]any](inst, "tags")
	assert.Equal(t, []any{"a", "b"}, got)

	got[1] = "changed"
	again, _ := dataclass.Value[[]any](inst, "tags")
	assert.Equal(t, []any{"a", "b"}, again)

	meta, _ := dataclass.Value[map[string]any](inst, "meta")
	meta["k"] = "changed"

	other, err := dataclass.Construct(c, dataclass.NewFields("tags", []any{}))
	require.NoError(t, err)

	otherMeta, _ := dataclass.Value[map[string]any](other, "meta")
	assert.Equal(t, "v", otherMeta["k"], "defaults are copied per instance")
}

func TestConstruct_DoesNotAliasTypedContainers(t *testing.T) {
	c := dataclass.Define("Bag", dataclass.Field("tags"))

	inner := []map[string]any{{"k": "v"}}

	inst, err := dataclass.Construct(c, dataclass.NewFields("tags", inner))
	require.NoError(t, err)

	inner[0]["k"] = "mutated"

	got, ok := dataclass.Value[[]map[string]any](inst, "tags")
	require.True(t, ok)
	assert.Equal(t, []map[string]any{{"k": "v"}}, got)

	got[0]["k"] = "mutated"

	again, _ := dataclass.Value[[]map[string]any](inst, "tags")
	assert.Equal(t, []map[string]any{{"k": "v"}}, again)
}

func TestConstructMap(t *testing.T) {
	user, err := dataclass.ConstructMap(userClass, map[string]any{
		"email":    "freost@example.org",
		"username": "freost",
		"name":     "frederic",
		"links":    []map[string]any{{"url": "https://example.org"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "username", "email", "avatar", "links"}, keysOf(user.ToMapping()))

	_, err = dataclass.ConstructMap(userClass, map[string]any{
		"name": "x", "username": "y", "email": "a@b", "zeta": 1, "alpha": 2,
	})

	var uerr *dataclass.UnknownFieldError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "alpha", uerr.Field, "unknown keys are reported in sorted order")
}

func TestNewFields_Panics(t *testing.T) {
	assert.Panics(t, func() { dataclass.NewFields("a") })
	assert.Panics(t, func() { dataclass.NewFields(1, "a") })
}

func TestValue_TypeMismatch(t *testing.T) {
	user, err := dataclass.Construct(userClass, frederic())
	require.NoError(t, err)

	_, ok := dataclass.Value[int](user, "name")
	assert.False(t, ok)

	_, ok = dataclass.Value[string](user, "missing")
	assert.False(t, ok)
}
