package normalize

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList(t *testing.T) {
	tests := []struct {
		name  string
		field RawField
		want  []string
	}{
		{"absent", Absent(), []string{}},
		{"empty text", Text(""), []string{}},
		{"comma separated", Text("chest, triceps"), []string{"chest", "triceps"}},
		{"comma separated with blanks", Text(" a ,, b , "), []string{"a", "b"}},
		{"single word", Text("shoulders"), []string{"shoulders"}},
		{"json array kept verbatim", Text(`[" chest ","back"]`), []string{" chest ", "back"}},
		{"json array of numbers", Text(`[1, 2.5]`), []string{"1", "2.5"}},
		{"json non-array", Text(`{"a":1}`), []string{}},
		{"json scalar", Text(`42`), []string{}},
		{"sequence untouched", Sequence([]string{" a", "b "}), []string{" a", "b "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StringList(tt.field))
		})
	}
}

func TestStringListPreservesOrder(t *testing.T) {
	got := StringList(Text("z,y,x,w"))
	assert.Equal(t, []string{"z", "y", "x", "w"}, got)
}

func TestInt(t *testing.T) {
	tests := []struct {
		in   RawField
		want int
	}{
		{Absent(), 0},
		{Text(""), 0},
		{Text("abc"), 0},
		{Text("12"), 12},
		{Text(" 12 "), 12},
		{Text("12abc"), 12},
		{Text("12.7"), 12},
		{Text("-5"), -5},
		{Text("+7"), 7},
		{Text("-"), 0},
		{Sequence([]string{"3", "9"}), 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Int(tt.in), "input %#v", tt.in)
	}
}

func TestWholeNumber(t *testing.T) {
	tests := []struct {
		in   RawField
		want int
	}{
		{Absent(), 0},
		{Text(""), 0},
		{Text("abc"), 0},
		{Text("12"), 12},
		{Text(" 12 "), 12},
		{Text("12abc"), 0},
		{Text("1e1"), 10},
		{Text("12.7"), 12},
		{Text("-3.9"), -3},
		{Text("1e300"), 0},
		{Sequence([]string{"4", "9"}), 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WholeNumber(tt.in), "input %#v", tt.in)
	}
}

func TestFloat(t *testing.T) {
	assert.Equal(t, 0.0, Float(Absent()))
	assert.Equal(t, 0.0, Float(Text("")))
	assert.Equal(t, 0.0, Float(Text("heavy")))
	assert.Equal(t, 0.0, Float(Text("NaN")))
	assert.Equal(t, 0.0, Float(Text("Inf")))
	assert.Equal(t, 22.5, Float(Text("22.5")))
	assert.Equal(t, -1.5, Float(Text("-1.5")))
}

func TestUnmarshalJSON(t *testing.T) {
	var body struct {
		A RawField `json:"a"`
		B RawField `json:"b"`
		C RawField `json:"c"`
		D RawField `json:"d"`
		E RawField `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a":"x, y","b":["p",3,true],"c":17,"d":null}`), &body)
	require.NoError(t, err)

	assert.Equal(t, KindText, body.A.Kind())
	assert.Equal(t, []string{"x", "y"}, StringList(body.A))
	assert.Equal(t, KindSequence, body.B.Kind())
	assert.Equal(t, []string{"p", "3", "true"}, StringList(body.B))
	assert.Equal(t, 17, Int(body.C))
	assert.True(t, body.D.IsAbsent())
	assert.True(t, body.E.IsAbsent())
}

func TestUnmarshalJSONRejectsObjects(t *testing.T) {
	var f RawField
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &f))
}

func TestFromValues(t *testing.T) {
	assert.True(t, FromValues(nil).IsAbsent())
	assert.Equal(t, KindText, FromValues([]string{"a"}).Kind())
	assert.Equal(t, KindSequence, FromValues([]string{"a", "b"}).Kind())
}

func TestTimestamp(t *testing.T) {
	_, ok, err := Timestamp(Absent())
	assert.False(t, ok)
	assert.NoError(t, err)

	got, ok, err := Timestamp(Text("2025-03-01T10:30:00Z"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC), got)

	got, ok, err = Timestamp(Text("2025-03-01"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok, err = Timestamp(Text("1700000000000"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000000), got.UnixMilli())

	_, _, err = Timestamp(Text("next tuesday"))
	assert.Error(t, err)
}
