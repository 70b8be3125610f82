package bridge

import (
	"encoding/json"
	"strings"
)

// EncodeRow prepares a row for writing: aliased column names become
// canonical, JSON columns are serialised and boolean columns become 0/1.
// Rows for unknown tables are returned unchanged.
func EncodeRow(schema *TableSchema, row Row) (Row, error) {
	if schema == nil {
		return row, nil
	}
	out := canonicalRow(schema, row)
	for col, value := range out {
		switch {
		case schema.IsJSON(col):
			if value == nil {
				continue
			}
			if _, ok := value.(string); ok {
				continue
			}
			encoded, err := json.Marshal(value)
			if err != nil {
				return nil, err
			}
			out[col] = string(encoded)
		case schema.IsBool(col):
			if b, ok := value.(bool); ok {
				out[col] = boolToInt(b)
			}
		}
	}
	return out, nil
}

// DecodeRow reshapes a row read from the wire: aliased column names become
// canonical, JSON text is parsed (the raw string is kept when it does not
// parse) and boolean columns become bool.
func DecodeRow(schema *TableSchema, row Row) Row {
	if schema == nil {
		return row
	}
	out := canonicalRow(schema, row)
	for col, value := range out {
		switch {
		case schema.IsJSON(col):
			text, ok := value.(string)
			if !ok || text == "" {
				continue
			}
			var parsed any
			dec := json.NewDecoder(strings.NewReader(text))
			dec.UseNumber()
			if err := dec.Decode(&parsed); err != nil {
				continue
			}
			out[col] = NormalizeValue(parsed)
		case schema.IsBool(col):
			out[col] = toBool(value)
		}
	}
	return out
}

// DecodeRows applies DecodeRow to every row.
func DecodeRows(schema *TableSchema, rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = DecodeRow(schema, row)
	}
	return out
}

// NormalizeValue converts json.Number values (recursively) to int64 when
// integral and float64 otherwise.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for k, item := range v {
			v[k] = NormalizeValue(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = NormalizeValue(item)
		}
		return v
	}
	return value
}

// canonicalRow copies row with every key mapped to its canonical spelling.
// When both a canonical and an aliased key are present the canonical one wins.
func canonicalRow(schema *TableSchema, row Row) Row {
	out := make(Row, len(row))
	for col, value := range row {
		canonical := schema.Canonical(col)
		if canonical != col {
			if _, taken := row[canonical]; taken {
				continue
			}
		}
		out[canonical] = value
	}
	return out
}

func toBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case float64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true"
	}
	return false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// encodeParams turns bool parameters into 0/1 since the engine has no boolean type.
func encodeParams(params []any) []any {
	out := make([]any, len(params))
	for i, p := range params {
		if b, ok := p.(bool); ok {
			out[i] = boolToInt(b)
			continue
		}
		out[i] = p
	}
	return out
}
