package coating

import (
	"encoding/json"
	"fmt"
)

// Kind enumerates the coating variants; its string form is the "type"
// discriminator of the serialized form.
type Kind uint8

const (
	KindSimple Kind = iota
	KindFresnel
)

var kindNames = [...]string{
	KindSimple:  "SimpleCoating",
	KindFresnel: "FresnelCoating",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// ParseKind maps a discriminator back to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCoating, name)
}

// decoders is filled once at init and only read afterwards.
var decoders map[Kind]func(map[string]any) (Coating, error)

func init() {
	decoders = map[Kind]func(map[string]any) (Coating, error){
		KindSimple:  simpleFromDict,
		KindFresnel: fresnelFromDict,
	}
}

// FromDict rebuilds a coating from the output of its ToDict.
func FromDict(data map[string]any) (Coating, error) {
	name, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: missing \"type\"", ErrUnknownCoating)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}
	return decoders[kind](data)
}

// Marshal encodes a coating as JSON.
func Marshal(c Coating) ([]byte, error) {
	return json.Marshal(c.ToDict())
}

// Unmarshal decodes a coating written by Marshal.
func Unmarshal(data []byte) (Coating, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode coating: %w", err)
	}
	return FromDict(m)
}

func floatKey(data map[string]any, key string) (float64, error) {
	switch v := data[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case nil:
		return 0, fmt.Errorf("%w: %s", ErrMissingKey, key)
	default:
		return 0, fmt.Errorf("%w: %s is %T, not a number", ErrMissingKey, key, v)
	}
}
