package tx

import (
	"encoding/binary"
	"encoding/json"
)

// NamedArg is a single runtime argument.
type NamedArg struct {
	Name  string
	Value CLValue
}

// RuntimeArgs is an ordered list of named arguments. Order is part of the
// serialized form.
type RuntimeArgs []NamedArg

// Insert sets name to v, replacing an existing entry in place.
func (a RuntimeArgs) Insert(name string, v CLValue) RuntimeArgs {
	for i := range a {
		if a[i].Name == name {
			a[i].Value = v
			return a
		}
	}
	return append(a, NamedArg{Name: name, Value: v})
}

// Get returns the value stored under name.
func (a RuntimeArgs) Get(name string) (CLValue, bool) {
	for _, arg := range a {
		if arg.Name == name {
			return arg.Value, true
		}
	}
	return CLValue{}, false
}

// Bytes returns the serialized arguments: u32 count, then name + value pairs.
func (a RuntimeArgs) Bytes() []byte {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(a)))
	for _, arg := range a {
		buf = appendString(buf, arg.Name)
		buf = append(buf, arg.Value.Bytes()...)
	}
	return buf
}

// MarshalJSON encodes the arguments as [[name, value], ...].
func (a RuntimeArgs) MarshalJSON() ([]byte, error) {
	out := make([][2]interface{}, len(a))
	for i, arg := range a {
		out[i] = [2]interface{}{arg.Name, arg.Value}
	}
	return json.Marshal(out)
}
