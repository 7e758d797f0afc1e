// Package codec encodes lazy-load index bodies.
//
// An index records the name of the codec that wrote it, so changing the
// codec of a database never breaks reading indexes written earlier.
package codec

import (
	"encoding/json"
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Codec converts index bodies to and from bytes.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// GoJSON encodes with github.com/goccy/go-json. It is the default.
type GoJSON struct{}

func (GoJSON) Marshal(v any) ([]byte, error)      { return gojson.Marshal(v) }
func (GoJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }
func (GoJSON) Name() string                       { return "go-json" }

// JSON encodes with encoding/json. Its output is readable by GoJSON and the
// other way round.
type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSON) Name() string                       { return "json" }

// YAML writes indexes meant to be read or edited by hand.
type YAML struct{}

func (YAML) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAML) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (YAML) Name() string                       { return "yaml" }

// Default is the codec of newly created databases.
var Default Codec = GoJSON{}

var builtin = map[string]Codec{
	GoJSON{}.Name(): GoJSON{},
	JSON{}.Name():   JSON{},
	YAML{}.Name():   YAML{},
}

// ByName returns the built-in codec registered under name.
func ByName(name string) (Codec, bool) {
	c, ok := builtin[name]
	return c, ok
}

// Lookup is ByName with an error for unknown names. The empty name selects
// Default.
func Lookup(name string) (Codec, error) {
	if name == "" {
		return Default, nil
	}
	if c, ok := ByName(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown codec %q (known: %v)", name, Names())
}

// Names lists the built-in codec names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
