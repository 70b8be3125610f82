package models

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/auricleciorocha30-byte/ProdutoDevAROFull/bridge"
	"github.com/mitchellh/mapstructure"
)

// Decode copies a row into the model pointed to by out. Types are matched
// loosely: 0/1 become bools, numbers become strings and JSON text becomes
// nested structs, slices or maps.
func Decode(row bridge.Row, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       jsonTextHook,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return fmt.Errorf("failed to decode %T: %w", out, err)
	}
	return nil
}

// DecodeAll decodes every row into a new T.
func DecodeAll[T any](rows []bridge.Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		var v T
		if err := Decode(row, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ToRow converts a model into a row keyed by its json tags. Fields tagged
// omitempty are left out when zero.
func ToRow(v any) (bridge.Row, error) {
	row := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &row,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return bridge.Row(row), nil
}

// jsonTextHook parses JSON text destined for a struct, slice or map field.
// Text that does not parse decodes to an empty value.
func jsonTextHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Struct, reflect.Slice, reflect.Map:
	default:
		return data, nil
	}
	text, _ := data.(string)
	var parsed any
	if text == "" || json.Unmarshal([]byte(text), &parsed) != nil || parsed == nil {
		return emptyOf(to), nil
	}
	return parsed, nil
}

func emptyOf(t reflect.Type) any {
	if t.Kind() == reflect.Slice {
		return []any{}
	}
	return map[string]any{}
}
