package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Offset int `json:"offset" yaml:"offset"`
	Length int `json:"length" yaml:"length"`
}

type index struct {
	File      string            `json:"file" yaml:"file"`
	Variables map[string]record `json:"variables" yaml:"variables"`
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}
	_, ok := ByName("msgpack")
	assert.False(t, ok)
	assert.Equal(t, []string{"go-json", "json", "yaml"}, Names())
}

func TestLookup(t *testing.T) {
	c, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, Default, c)

	c, err = Lookup("yaml")
	require.NoError(t, err)
	assert.Equal(t, YAML{}, c)

	_, err = Lookup("xml")
	assert.ErrorContains(t, err, `unknown codec "xml"`)
}

func TestJSONCodecsInteroperate(t *testing.T) {
	in := index{File: "base.rdb", Variables: map[string]record{"mean": {Offset: 0, Length: 42}}}
	for _, enc := range []Codec{JSON{}, GoJSON{}} {
		data, err := enc.Marshal(in)
		require.NoError(t, err)
		for _, dec := range []Codec{JSON{}, GoJSON{}} {
			var out index
			require.NoError(t, dec.Unmarshal(data, &out))
			assert.Equal(t, in, out, "%s -> %s", enc.Name(), dec.Name())
		}
	}
}

func TestYAML(t *testing.T) {
	in := index{File: "base.rdb", Variables: map[string]record{"sd": {Offset: 42, Length: 17}}}
	data, err := YAML{}.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file: base.rdb")

	var out index
	require.NoError(t, YAML{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
