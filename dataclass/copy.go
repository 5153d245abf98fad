package dataclass

import (
	"maps"
	"reflect"
	"slices"

	"github.com/mitchellh/copystructure"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// deepCopy handles caller containers of any type. Instances are immutable and
// keep sharing their values when they turn up inside such a container.
var deepCopy = copystructure.Config{
	Copiers: func() map[reflect.Type]copystructure.CopierFunc {
		copiers := maps.Clone(copystructure.Copiers)
		copiers[reflect.TypeOf(Instance{})] = func(v any) (any, error) {
			return v, nil
		}
		copiers[reflect.TypeOf(Fields{})] = func(v any) (any, error) {
			fields := v.(Fields)

			return *copyValue(&fields).(*Fields), nil
		}

		return copiers
	}(),
}

// copyValue deep-copies v so an instance never aliases caller data.
func copyValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *Instance:
		return t
	case []*Instance:
		return slices.Clone(t)
	case []any:
		if t == nil {
			return t
		}

		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}

		return out
	case map[string]any:
		if t == nil {
			return t
		}

		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = copyValue(item)
		}

		return out
	case *Fields:
		if t == nil {
			return t
		}

		out := orderedmap.New[string, any](orderedmap.WithCapacity[string, any](t.Len()))
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, copyValue(pair.Value))
		}

		return out
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Array, reflect.Struct:
		out, err := deepCopy.Copy(v)
		if err != nil {
			return v
		}

		return out
	default:
		return v
	}
}
