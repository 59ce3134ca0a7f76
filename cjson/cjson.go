// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cjson produces canonical JSON: object keys sorted
// lexicographically, no insignificant whitespace, UTF-8, stable number
// representation. Two marshals of equal values yield identical bytes, which
// makes the output safe to hash and sign.
package cjson

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"

	"github.com/pkg/errors"
)

// Marshal encodes v into canonical JSON.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "cjson marshal")
	}
	return Canonicalize(raw)
}

// Unmarshal decodes canonical (or any) JSON into v.
func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Canonicalize rewrites arbitrary JSON into its canonical form.
// Numbers pass through verbatim, so integers stay integers.
func Canonicalize(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "cjson decode")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("cjson: trailing data")
	}

	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(val.String())
	case string:
		b, err := json.Marshal(val)
		if err != nil {
			return errors.Wrap(err, "cjson string")
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return errors.Wrap(err, "cjson key")
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeValue(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errors.Errorf("cjson: unsupported value %T", v)
	}
	return nil
}
