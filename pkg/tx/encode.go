package tx

import (
	"encoding/binary"
	"math/big"
)

// Canonical encoding helpers. Integers are little-endian, variable-size
// data is prefixed with a u32 length.

func appendString(buf []byte, s string) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s)))
	return append(buf, s...)
}

func appendBytes(buf, data []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// appendBigUint encodes an unsigned big integer as one length byte followed
// by its minimal little-endian bytes (U128/U256/U512).
func appendBigUint(buf []byte, v *big.Int) []byte {
	be := v.Bytes()
	buf = append(buf, byte(len(be)))
	for i := len(be) - 1; i >= 0; i-- {
		buf = append(buf, be[i])
	}
	return buf
}
