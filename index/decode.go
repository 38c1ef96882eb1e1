package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeJSON decodes an index document. Unknown fields are rejected.
// The result is not validated; pass it to ValidateIndex.
func DecodeJSON(data []byte) (RawIndex, error) {
	var raw RawIndex
	if err := unmarshalStrict(data, &raw); err != nil {
		return RawIndex{}, decodeError(data, err)
	}
	return raw, nil
}

// DecodeYAML decodes a YAML index document with the same rules as DecodeJSON.
func DecodeYAML(data []byte) (RawIndex, error) {
	js, err := YAMLToJSON(data)
	if err != nil {
		return RawIndex{}, err
	}
	return DecodeJSON(js)
}

// YAMLToJSON converts a YAML document to JSON so that YAML input goes through
// the same strict decoding and schema checks as JSON input.
func YAMLToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &FieldError{Err: fmt.Errorf("%w: invalid YAML: %v", ErrShape, err)}
	}
	doc, err := jsonCompatible(doc, "")
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, &FieldError{Err: fmt.Errorf("%w: %v", ErrShape, err)}
	}
	return out, nil
}

// jsonCompatible rejects YAML mappings with non-string keys, which have no
// JSON equivalent.
func jsonCompatible(v any, path string) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			converted, err := jsonCompatible(child, join(path, k))
			if err != nil {
				return nil, err
			}
			t[k] = converted
		}
		return t, nil
	case map[any]any:
		return nil, &FieldError{Field: path, Err: fmt.Errorf("%w: mapping keys must be strings", ErrShape)}
	case []any:
		for i, child := range t {
			converted, err := jsonCompatible(child, elem(path, i))
			if err != nil {
				return nil, err
			}
			t[i] = converted
		}
		return t, nil
	default:
		return v, nil
	}
}

// unmarshalStrict unmarshals JSON with strict settings (disallow unknown
// fields, no trailing data).
func unmarshalStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after top-level value")
	}
	return nil
}

func decodeError(data []byte, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &FieldError{
			Field: typeErr.Field,
			Value: typeErr.Value,
			Err:   fmt.Errorf("%w: expected %s", ErrShape, typeErr.Type),
		}
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		name := strings.Trim(field, `"`)
		return &FieldError{Field: unknownFieldPath(data, name), Value: name, Err: ErrUnknownField}
	}
	return &FieldError{Err: fmt.Errorf("%w: invalid JSON: %v", ErrShape, err)}
}

// unknownFieldPath finds where the rejected key name sits in data. The
// strict decoder reports the first unknown key in document order but only
// by name, so the document is replayed token by token against RawIndex
// until that key turns up. The bare name is returned if it cannot be found.
func unknownFieldPath(data []byte, name string) string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if path, ok := seekUnknownField(dec, reflect.TypeFor[RawIndex](), "", name); ok {
		return path
	}
	return name
}

// seekUnknownField consumes the next value from dec, described by t.
func seekUnknownField(dec *json.Decoder, t reflect.Type, path, name string) (string, bool) {
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return "", false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch delim {
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return "", false
			}
			key, _ := keyTok.(string)
			ft, known := jsonFieldType(t, key)
			if !known {
				if key == name {
					return join(path, key), true
				}
				if err := dec.Decode(new(json.RawMessage)); err != nil {
					return "", false
				}
				continue
			}
			if p, ok := seekUnknownField(dec, ft, join(path, key), name); ok {
				return p, true
			}
		}
	case '[':
		if t.Kind() != reflect.Slice {
			for dec.More() {
				if err := dec.Decode(new(json.RawMessage)); err != nil {
					return "", false
				}
			}
			break
		}
		for i := 0; dec.More(); i++ {
			if p, ok := seekUnknownField(dec, t.Elem(), elem(path, i), name); ok {
				return p, true
			}
		}
	}
	_, _ = dec.Token() // closing delimiter
	return "", false
}

// jsonFieldType resolves key to a field of struct type t the way
// encoding/json does, preferring an exact tag match over a case-insensitive
// one.
func jsonFieldType(t reflect.Type, key string) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	var fold reflect.Type
	for i := range t.NumField() {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == "" || tag == "-" {
			continue
		}
		if tag == key {
			return f.Type, true
		}
		if fold == nil && strings.EqualFold(tag, key) {
			fold = f.Type
		}
	}
	return fold, fold != nil
}
