package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Rate  float64  `json:"rate,omitempty"`
	Tags  []string `json:"tags"`
}

func TestMarshalUnmarshal(t *testing.T) {
	in := report{Name: "actors", Count: 3, Tags: []string{"a<b"}}

	data, err := Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"count":3`)
	assert.NotContains(t, string(data), "rate")

	var out report
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, report{Name: "x", Tags: []string{"<tag>"}}))

	s := buf.String()
	assert.True(t, strings.HasSuffix(s, "}\n"))
	assert.Contains(t, s, "\n  \"name\": \"x\"")
	assert.Contains(t, s, "<tag>", "HTML is not escaped")

	buf.Reset()
	require.NoError(t, Encode(&buf, map[string]int{"n": 1}))
	_, inUse, _, _ := BufferStats()
	assert.Equal(t, int64(0), inUse)
}

func TestEncode_Error(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(&buf, map[string]interface{}{"ch": make(chan int)})
	assert.Error(t, err)
	assert.Equal(t, 0, buf.Len())
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(map[string]int{"a": 1}, "", "\t")
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": 1\n}", string(data))
}
