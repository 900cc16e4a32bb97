package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/johndauphine/tabprof/internal/datasource"
)

// readJSON accepts an array of objects or a single object. Column order is
// the order in which keys are first seen.
func readJSON(r io.Reader) (*datasource.Frame, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("JSON file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var (
		columns []string
		known   = make(map[string]struct{})
		records []map[string]any
	)
	addRecord := func() error {
		rec, keys, err := decodeObject(dec)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if _, ok := known[k]; !ok {
				known[k] = struct{}{}
				columns = append(columns, k)
			}
		}
		records = append(records, rec)
		return nil
	}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			if t, err := dec.Token(); err != nil || t != json.Delim('{') {
				return nil, fmt.Errorf("record %d is not an object", len(records))
			}
			if err := addRecord(); err != nil {
				return nil, err
			}
		}
	case json.Delim('{'):
		if err := addRecord(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("expected an array of objects or an object, got %v", tok)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("JSON file is empty or has no records")
	}
	return datasource.FrameFromRecords(columns, records)
}

// decodeObject reads the members of an object whose opening brace has been
// consumed, returning the values and the keys in document order.
func decodeObject(dec *json.Decoder) (map[string]any, []string, error) {
	rec := make(map[string]any)
	var keys []string
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		key, ok := t.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", t)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("failed to parse value of %q: %w", key, err)
		}
		if _, dup := rec[key]; !dup {
			keys = append(keys, key)
		}
		rec[key] = jsonScalar(v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return rec, keys, nil
}

func jsonScalar(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
