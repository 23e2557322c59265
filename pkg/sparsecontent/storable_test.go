package sparsecontent_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/sparse-content/pkg/sparsecontent"
)

func TestToStoreDistinguishesEmptyFromAbsent(t *testing.T) {
	var absent sparsecontent.StorableValue
	cleared := sparsecontent.ToStore("")

	assert.True(t, absent.IsZero())
	assert.False(t, cleared.IsZero())
	assert.False(t, cleared.Equal(absent))
	assert.Equal(t, []string{""}, cleared.Values())
}

func TestToStoreValuesCopiesInput(t *testing.T) {
	input := []string{"a", "b"}
	value := sparsecontent.ToStoreValues(input)

	input[0] = "mutated"
	assert.Equal(t, []string{"a", "b"}, value.Values())

	out := value.Values()
	out[0] = "mutated"
	assert.Equal(t, "a", value.First())
}

func TestStorableValueEqual(t *testing.T) {
	assert.True(t, sparsecontent.ToStore("x").Equal(sparsecontent.ToStoreValues([]string{"x"})))
	assert.False(t, sparsecontent.ToStore("x").Equal(sparsecontent.ToStore("y")))
	assert.False(t, sparsecontent.ToStoreValues([]string{"a", "b"}).Equal(sparsecontent.ToStore("a")))
}

func TestStorableValueJSON(t *testing.T) {
	value := sparsecontent.ToStoreValues([]string{"a", ""})

	data, err := json.Marshal(value)
	require.NoError(t, err)
	assert.JSONEq(t, `["a",""]`, string(data))

	var decoded sparsecontent.StorableValue
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, value.Equal(decoded))
}

func TestKindFromHint(t *testing.T) {
	tests := []struct {
		hint string
		want sparsecontent.PropertyKind
	}{
		{"String", sparsecontent.KindString},
		{"Long", sparsecontent.KindLong},
		{"Decimal", sparsecontent.KindDecimal},
		{"Date", sparsecontent.KindDate},
		{"WeakReference", sparsecontent.KindWeakReference},
		{"undefined", sparsecontent.KindUndefined},
		{"NoSuchType", sparsecontent.KindUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.want, sparsecontent.KindFromHint(tt.hint))
		})
	}
}

func TestFromRequest(t *testing.T) {
	t.Run("string kinds return copies", func(t *testing.T) {
		got, err := sparsecontent.FromRequest(sparsecontent.KindString, []string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("binary is refused", func(t *testing.T) {
		got, err := sparsecontent.FromRequest(sparsecontent.KindBinary, []string{"x"})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("boolean", func(t *testing.T) {
		got, err := sparsecontent.FromRequest(sparsecontent.KindBoolean, []string{"true", "false"})
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, got)
	})

	t.Run("long", func(t *testing.T) {
		got, err := sparsecontent.FromRequest(sparsecontent.KindLong, []string{"42", "-7"})
		require.NoError(t, err)
		assert.Equal(t, []int64{42, -7}, got)
	})

	t.Run("double", func(t *testing.T) {
		got, err := sparsecontent.FromRequest(sparsecontent.KindDouble, []string{"3.5"})
		require.NoError(t, err)
		assert.Equal(t, []float64{3.5}, got)
	})

	t.Run("decimal keeps precision", func(t *testing.T) {
		got, err := sparsecontent.FromRequest(sparsecontent.KindDecimal, []string{"123456789.123456789"})
		require.NoError(t, err)
		want := decimal.RequireFromString("123456789.123456789")
		assert.True(t, want.Equal(got.([]decimal.Decimal)[0]))
	})

	t.Run("date", func(t *testing.T) {
		got, err := sparsecontent.FromRequest(sparsecontent.KindDate, []string{"2024-05-01"})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got.([]time.Time)[0])
	})

	t.Run("parse failure reports the kind", func(t *testing.T) {
		_, err := sparsecontent.FromRequest(sparsecontent.KindLong, []string{"not-a-number"})
		assert.ErrorIs(t, err, sparsecontent.ErrUnparseableValue)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339", "2024-05-01T10:30:00Z", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"date only", "2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"dotted", "01.05.2024", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sparsecontent.ParseDate(tt.value)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}

	_, err := sparsecontent.ParseDate("yesterday")
	assert.ErrorIs(t, err, sparsecontent.ErrUnparseableValue)
}
