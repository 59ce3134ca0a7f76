// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortsKeys(t *testing.T) {
	out, err := Marshal(map[string]any{
		"zeta":  1,
		"alpha": "a",
		"mid":   []any{true, nil},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"a","mid":[true,null],"zeta":1}`, string(out))
}

func TestMarshalNestedDeterminism(t *testing.T) {
	type inner struct {
		B string `json:"b"`
		A int    `json:"a"`
	}
	type outer struct {
		Name  string           `json:"name"`
		Items []inner          `json:"items"`
		Meta  map[string]int64 `json:"meta"`
	}

	v := outer{
		Name:  "r",
		Items: []inner{{B: "x", A: 7}},
		Meta:  map[string]int64{"k2": 2, "k1": 1},
	}

	first, err := Marshal(v)
	require.NoError(t, err)
	second, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, `{"items":[{"a":7,"b":"x"}],"meta":{"k1":1,"k2":2},"name":"r"}`, string(first))
}

func TestCanonicalizeKeepsIntegerRepresentation(t *testing.T) {
	out, err := Canonicalize([]byte(`{ "n": 42,  "f": 1.5 }`))
	require.NoError(t, err)
	assert.Equal(t, `{"f":1.5,"n":42}`, string(out))
}

func TestCanonicalizeRejectsTrailingData(t *testing.T) {
	_, err := Canonicalize([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestCanonicalizeWhitespaceInsensitive(t *testing.T) {
	a, err := Canonicalize([]byte(`{"x": [1, 2, 3], "y": "z"}`))
	require.NoError(t, err)
	b, err := Canonicalize([]byte("{\n\t\"y\":\"z\",\n\t\"x\":[1,2,3]\n}"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
