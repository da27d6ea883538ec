package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// UnmarshalJSON implements json.Unmarshaler. Objects at any depth become [M]
// and integral numbers that fit become int64. Other numbers become float64.
func (d *M) UnmarshalJSON(input []byte) error {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after top-level object")
		}
		return err
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, received %T", v)
	}
	res, err := fromJSON(obj)
	if err != nil {
		return err
	}
	*d = res.(M)
	return nil
}

func fromJSON(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		m := make(M, len(t))
		for k, item := range t {
			conv, err := fromJSON(item)
			if err != nil {
				return nil, err
			}
			m[k] = conv
		}
		return m, nil
	case []any:
		for n, item := range t {
			conv, err := fromJSON(item)
			if err != nil {
				return nil, err
			}
			t[n] = conv
		}
		return t, nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		return v, nil
	}
}
