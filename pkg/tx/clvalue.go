package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/Klingon-tech/cspr-wallet-core/pkg/types"
)

// ErrInvalidValue is returned when a CLValue cannot be constructed.
var ErrInvalidValue = errors.New("invalid cl value")

// CLTypeTag is the one-byte tag of a CL type.
type CLTypeTag byte

const (
	CLTypeBool      CLTypeTag = 0
	CLTypeI32       CLTypeTag = 1
	CLTypeI64       CLTypeTag = 2
	CLTypeU8        CLTypeTag = 3
	CLTypeU32       CLTypeTag = 4
	CLTypeU64       CLTypeTag = 5
	CLTypeU128      CLTypeTag = 6
	CLTypeU256      CLTypeTag = 7
	CLTypeU512      CLTypeTag = 8
	CLTypeUnit      CLTypeTag = 9
	CLTypeString    CLTypeTag = 10
	CLTypeKey       CLTypeTag = 11
	CLTypeURef      CLTypeTag = 12
	CLTypeOption    CLTypeTag = 13
	CLTypeList      CLTypeTag = 14
	CLTypeByteArray CLTypeTag = 15
	CLTypePublicKey CLTypeTag = 22
)

var clTypeNames = map[CLTypeTag]string{
	CLTypeBool:      "Bool",
	CLTypeI32:       "I32",
	CLTypeI64:       "I64",
	CLTypeU8:        "U8",
	CLTypeU32:       "U32",
	CLTypeU64:       "U64",
	CLTypeU128:      "U128",
	CLTypeU256:      "U256",
	CLTypeU512:      "U512",
	CLTypeUnit:      "Unit",
	CLTypeString:    "String",
	CLTypeKey:       "Key",
	CLTypeURef:      "URef",
	CLTypePublicKey: "PublicKey",
}

// CLType describes the type of a CLValue. Inner is set for Option and List,
// Size for ByteArray.
type CLType struct {
	Tag   CLTypeTag
	Inner *CLType
	Size  uint32
}

// Simple returns a CL type without parameters.
func Simple(tag CLTypeTag) CLType {
	return CLType{Tag: tag}
}

// OptionOf returns Option<inner>.
func OptionOf(inner CLType) CLType {
	return CLType{Tag: CLTypeOption, Inner: &inner}
}

// ListOf returns List<inner>.
func ListOf(inner CLType) CLType {
	return CLType{Tag: CLTypeList, Inner: &inner}
}

// Bytes returns the serialized type descriptor.
func (t CLType) Bytes() []byte {
	buf := []byte{byte(t.Tag)}
	switch t.Tag {
	case CLTypeOption, CLTypeList:
		if t.Inner != nil {
			buf = append(buf, t.Inner.Bytes()...)
		}
	case CLTypeByteArray:
		buf = binary.LittleEndian.AppendUint32(buf, t.Size)
	}
	return buf
}

// String returns the JSON name of simple types.
func (t CLType) String() string {
	switch t.Tag {
	case CLTypeOption:
		return fmt.Sprintf("Option<%s>", t.Inner)
	case CLTypeList:
		return fmt.Sprintf("List<%s>", t.Inner)
	case CLTypeByteArray:
		return fmt.Sprintf("ByteArray(%d)", t.Size)
	}
	if name, ok := clTypeNames[t.Tag]; ok {
		return name
	}
	return fmt.Sprintf("CLType(%d)", t.Tag)
}

// MarshalJSON encodes the type the way node JSON does: "U512",
// {"Option": "U64"}, {"List": "U256"}, {"ByteArray": 32}.
func (t CLType) MarshalJSON() ([]byte, error) {
	switch t.Tag {
	case CLTypeOption:
		return json.Marshal(map[string]CLType{"Option": *t.Inner})
	case CLTypeList:
		return json.Marshal(map[string]CLType{"List": *t.Inner})
	case CLTypeByteArray:
		return json.Marshal(map[string]uint32{"ByteArray": t.Size})
	}
	return json.Marshal(t.String())
}

// CLValue is a typed, serialized runtime argument value.
type CLValue struct {
	Type   CLType
	Data   []byte
	Parsed interface{}
}

// Bytes returns the serialized value: u32-prefixed data followed by the type.
func (v CLValue) Bytes() []byte {
	buf := appendBytes(nil, v.Data)
	return append(buf, v.Type.Bytes()...)
}

type clValueJSON struct {
	CLType CLType      `json:"cl_type"`
	Bytes  string      `json:"bytes"`
	Parsed interface{} `json:"parsed"`
}

// MarshalJSON encodes the value with hex bytes and a parsed rendering.
func (v CLValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(clValueJSON{
		CLType: v.Type,
		Bytes:  hex.EncodeToString(v.Data),
		Parsed: v.Parsed,
	})
}

// Bool returns a Bool value.
func Bool(b bool) CLValue {
	return CLValue{Type: Simple(CLTypeBool), Data: appendBool(nil, b), Parsed: b}
}

// U8 returns a U8 value.
func U8(n uint8) CLValue {
	return CLValue{Type: Simple(CLTypeU8), Data: []byte{n}, Parsed: n}
}

// U32 returns a U32 value.
func U32(n uint32) CLValue {
	return CLValue{Type: Simple(CLTypeU32), Data: binary.LittleEndian.AppendUint32(nil, n), Parsed: n}
}

// U64 returns a U64 value.
func U64(n uint64) CLValue {
	return CLValue{Type: Simple(CLTypeU64), Data: binary.LittleEndian.AppendUint64(nil, n), Parsed: n}
}

// U256 returns a U256 value. n must be non-negative and fit in 256 bits.
func U256(n *big.Int) (CLValue, error) {
	return bigUint(CLTypeU256, 256, n)
}

// U512 returns a U512 value. n must be non-negative and fit in 512 bits.
func U512(n *big.Int) (CLValue, error) {
	return bigUint(CLTypeU512, 512, n)
}

func bigUint(tag CLTypeTag, bits int, n *big.Int) (CLValue, error) {
	if n == nil || n.Sign() < 0 {
		return CLValue{}, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidValue, clTypeNames[tag])
	}
	if n.BitLen() > bits {
		return CLValue{}, fmt.Errorf("%w: value overflows %s", ErrInvalidValue, clTypeNames[tag])
	}
	return CLValue{Type: Simple(tag), Data: appendBigUint(nil, n), Parsed: n.String()}, nil
}

// String returns a String value.
func String(s string) CLValue {
	return CLValue{Type: Simple(CLTypeString), Data: appendString(nil, s), Parsed: s}
}

// PublicKeyValue returns a PublicKey value.
func PublicKeyValue(pk types.PublicKey) CLValue {
	return CLValue{Type: Simple(CLTypePublicKey), Data: pk.Bytes(), Parsed: pk.String()}
}

// Key variants used in runtime args.
const (
	keyTagAccount byte = 0
	keyTagHash    byte = 1
)

// AccountKey returns a Key::Account value for an account hash.
func AccountKey(accountHash types.Hash) CLValue {
	data := append([]byte{keyTagAccount}, accountHash[:]...)
	return CLValue{
		Type:   Simple(CLTypeKey),
		Data:   data,
		Parsed: map[string]string{"Account": types.PrefixAccountHash + accountHash.String()},
	}
}

// HashKey returns a Key::Hash value for a contract hash.
func HashKey(hash types.Hash) CLValue {
	data := append([]byte{keyTagHash}, hash[:]...)
	return CLValue{
		Type:   Simple(CLTypeKey),
		Data:   data,
		Parsed: map[string]string{"Hash": types.PrefixHash + hash.String()},
	}
}

// Option wraps v as Some(v); a nil v yields None of type inner.
func Option(inner CLType, v *CLValue) CLValue {
	if v == nil {
		return CLValue{Type: OptionOf(inner), Data: []byte{0}, Parsed: nil}
	}
	data := append([]byte{1}, v.Data...)
	return CLValue{Type: OptionOf(inner), Data: data, Parsed: v.Parsed}
}

// List builds a List<elem> from values that must all be of type elem.
func List(elem CLType, items []CLValue) (CLValue, error) {
	data := binary.LittleEndian.AppendUint32(nil, uint32(len(items)))
	parsed := make([]interface{}, 0, len(items))
	want := elem.Bytes()
	for i, it := range items {
		if string(it.Type.Bytes()) != string(want) {
			return CLValue{}, fmt.Errorf("%w: list item %d is %s, want %s", ErrInvalidValue, i, it.Type, elem)
		}
		data = append(data, it.Data...)
		parsed = append(parsed, it.Parsed)
	}
	return CLValue{Type: ListOf(elem), Data: data, Parsed: parsed}, nil
}
