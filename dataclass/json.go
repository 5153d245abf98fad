package dataclass

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var _ interface {
	json.Marshaler
	fmt.Stringer
} = &Instance{}

// MarshalJSON encodes the instance as a JSON object with keys in declaration
// order. Nested instances encode through their own MarshalJSON.
func (i *Instance) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for idx, fd := range i.def.fields {
		if idx > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(fd.Name)
		if err != nil {
			return nil, fmt.Errorf("encode field name %q: %w", fd.Name, err)
		}

		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(i.values[idx])
		if err != nil {
			return nil, fmt.Errorf("encode field %s.%s: %w", i.def.Name(), fd.Name, err)
		}

		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// ToJSON encodes inst as JSON.
func ToJSON(inst *Instance) ([]byte, error) {
	if inst == nil {
		return []byte("null"), nil
	}

	return inst.MarshalJSON()
}

// FromJSON decodes a JSON object and constructs an instance of c with the
// default registry.
func FromJSON(c *Class, data []byte, opts ...ConstructOption) (*Instance, error) {
	return DefaultRegistry.FromJSON(c, data, opts...)
}

// FromJSON decodes a JSON object, keeping its key order, and constructs an
// instance of c from it.
func (r *Registry) FromJSON(c *Class, data []byte, opts ...ConstructOption) (*Instance, error) {
	fields, err := DecodeJSONFields(data)
	if err != nil {
		return nil, err
	}

	return r.construct(c, fields, newConstructOptions(opts))
}

// DecodeJSONFields decodes a JSON object into ordered Fields. Nested objects
// become *Fields, arrays []any, numbers float64.
func DecodeJSONFields(data []byte) (*Fields, error) {
	if !json.Valid(data) {
		return nil, errors.New("decode JSON: invalid JSON document")
	}

	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	if typ != jsonparser.Object {
		return nil, fmt.Errorf("decode JSON: expected an object, got %s", typ)
	}

	decoded, err := decodeJSONValue(value, typ)
	if err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	return decoded.(*Fields), nil
}

func decodeJSONValue(value []byte, typ jsonparser.ValueType) (any, error) {
	switch typ {
	case jsonparser.Object:
		out := orderedmap.New[string, any]()
		if isEmptyContainer(value) {
			return out, nil
		}

		err := jsonparser.ObjectEach(value, func(key, raw []byte, t jsonparser.ValueType, _ int) error {
			v, err := decodeJSONValue(raw, t)
			if err != nil {
				return err
			}

			// keys arrive unescaped
			out.Set(string(key), v)

			return nil
		})
		if err != nil {
			return nil, err
		}

		return out, nil

	case jsonparser.Array:
		out := []any{}
		if isEmptyContainer(value) {
			return out, nil
		}

		var inner error

		_, err := jsonparser.ArrayEach(value, func(raw []byte, t jsonparser.ValueType, _ int, err error) {
			if inner != nil {
				return
			}

			if err != nil {
				inner = err
				return
			}

			v, err := decodeJSONValue(raw, t)
			if err != nil {
				inner = err
				return
			}

			out = append(out, v)
		})
		if err != nil {
			return nil, err
		}

		if inner != nil {
			return nil, inner
		}

		return out, nil

	case jsonparser.String:
		return jsonparser.ParseString(value)
	case jsonparser.Number:
		return jsonparser.ParseFloat(value)
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(value)
	case jsonparser.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value %q", value)
	}
}

// isEmptyContainer reports whether an object or array literal has no members.
func isEmptyContainer(value []byte) bool {
	if len(value) < 2 {
		return true
	}

	return len(bytes.TrimSpace(value[1:len(value)-1])) == 0
}

// CanonicalJSON returns the RFC 8785 canonical JSON encoding of the instance.
func (i *Instance) CanonicalJSON() ([]byte, error) {
	raw, err := i.MarshalJSON()
	if err != nil {
		return nil, err
	}

	canonical, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %s: %w", i.def.Name(), err)
	}

	return canonical, nil
}

// Equal reports whether a and b are instances of the same class with equal
// canonical JSON encodings.
func Equal(a, b *Instance) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.def.class != b.def.class {
		return false
	}

	ca, err := a.CanonicalJSON()
	if err != nil {
		return false
	}

	cb, err := b.CanonicalJSON()
	if err != nil {
		return false
	}

	return bytes.Equal(ca, cb)
}

// Decode stores the instance into v, a pointer to a Go value, through its
// JSON encoding.
func (i *Instance) Decode(v any) error {
	raw, err := i.MarshalJSON()
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s into %T: %w", i.def.Name(), v, err)
	}

	return nil
}
