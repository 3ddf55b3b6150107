package solid

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, ty := range Types() {
		got, err := Parse(ty.String())
		require.NoError(t, err)
		assert.Equal(t, ty, got)
	}
	got, err := Parse("  Cone ")
	require.NoError(t, err)
	assert.Equal(t, Cone, got)

	_, err = Parse("sphere")
	assert.True(t, errors.Is(err, ErrUnknownShape))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "prism", Prism.String())
	assert.Equal(t, "Type(42)", Type(42).String())
	assert.False(t, Type(-1).Valid())
}

func TestTypeJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Type{"shape": Pyramid})
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":"pyramid"}`, string(b))

	var v struct{ Shape Type }
	require.NoError(t, json.Unmarshal([]byte(`{"Shape":"box"}`), &v))
	assert.Equal(t, Box, v.Shape)
	assert.Error(t, json.Unmarshal([]byte(`{"Shape":"blob"}`), &v))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"in range", 5.0, 5},
		{"below min", 0.05, 0.1},
		{"negative", -3, 0.1},
		{"above max", 20000.0, 10000},
		{"nan", math.NaN(), 0.1},
		{"inf", math.Inf(1), 10000},
		{"numeric string", "7.5", 7.5},
		{"numeric prefix", "12cm", 12},
		{"garbage", "abc", 0.1},
		{"empty", "", 0.1},
		{"nil", nil, 0.1},
		{"int", 3, 3},
		{"float32", float32(2.5), 2.5},
		{"json number", json.Number("4"), 4},
		{"bool", true, 0.1},
		{"go inf spelling", "inf", 0.1},
		{"go infinite spelling", "infinite", 0.1},
		{"go signed inf", "+INF", 0.1},
		{"nan string", "NaN", 0.1},
		{"digit underscores", "1_000", 1},
		{"hex float", "0x1p3", 0.1},
		{"infinity literal", "Infinity", 10000},
		{"negative infinity", "-Infinity", 0.1},
		{"leading space", "  6 cm", 6},
		{"leading dot", ".5", 0.5},
		{"trailing dot", "3.", 3},
		{"exponent", "2e3x", 2000},
		{"dangling exponent", "4e", 4},
		{"dangling sign", "-", 0.1},
		{"lone dot", ".", 0.1},
		{"overflowing digits", "9e999", 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.in))
		})
	}
}

// TestValidateLongInputIsLinear guards against re-parsing every prefix of
// an oversized request value.
func TestValidateLongInputIsLinear(t *testing.T) {
	in := "5" + strings.Repeat("x", 1<<20)
	start := time.Now()
	assert.Equal(t, 5.0, Validate(in))
	assert.Less(t, time.Since(start), time.Second)

	in = strings.Repeat("7", 1<<20)
	assert.Equal(t, 10000.0, Validate(in))
}

func TestMustPanicsOnMissingKey(t *testing.T) {
	p := Params{"s": 4}
	assert.Equal(t, 4.0, p.Must("s"))
	assert.PanicsWithValue(t, `solid: missing parameter: "t"`, func() { p.Must("t") })
}

func TestCheckSchema(t *testing.T) {
	assert.NoError(t, CheckSchema(Prism, Params{"a": 4, "t_alas": 3, "t_prisma": 6}))
	err := CheckSchema(Prism, Params{"a": 4, "t_alas": 3})
	assert.True(t, errors.Is(err, ErrMissingParameter))
	assert.Contains(t, err.Error(), "t_prisma")
	assert.True(t, errors.Is(CheckSchema(Type(9), Params{}), ErrUnknownShape))
}

func TestNormalize(t *testing.T) {
	p, err := Normalize(Box, map[string]any{"p": "6", "l": 0.0, "t": 1e9, "extra": 1})
	require.NoError(t, err)
	assert.Equal(t, Params{"p": 6, "l": 0.1, "t": 10000}, p)

	_, err = Normalize(Box, map[string]any{"p": 1})
	assert.True(t, errors.Is(err, ErrMissingParameter))
}

func TestSchemaKeys(t *testing.T) {
	want := map[Type][]string{
		Cube:     {"s"},
		Box:      {"p", "l", "t"},
		Cylinder: {"r", "t"},
		Pyramid:  {"s", "t"},
		Cone:     {"r", "t"},
		Prism:    {"a", "t_alas", "t_prisma"},
	}
	for ty, keys := range want {
		var got []string
		for _, ps := range Schema(ty) {
			got = append(got, ps.Key)
			assert.LessOrEqual(t, ps.Min, ps.Default, "%s.%s", ty, ps.Key)
			assert.GreaterOrEqual(t, ps.Max, ps.Default, "%s.%s", ty, ps.Key)
		}
		assert.Equal(t, keys, got, ty.String())
		assert.NoError(t, CheckSchema(ty, Defaults(ty)))
	}
}

func TestDescribeCopiesParams(t *testing.T) {
	info := Describe(Cube)
	info.Params[0].Default = 99
	assert.Equal(t, 5.0, Defaults(Cube)["s"])
	assert.Equal(t, "Kubus", info.Name)
}

func TestSanitize(t *testing.T) {
	p := Params{"r": -1, "t": 5}.Sanitize()
	assert.Equal(t, Params{"r": 0.1, "t": 5}, p)
}
