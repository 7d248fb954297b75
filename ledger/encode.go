package ledger

import (
	"bytes"
	"encoding/binary"
)

// encodingVersion prefixes every canonical encoding so that the layout can
// change without two layouts ever producing the same bytes.
const encodingVersion byte = 1

// CanonicalEncode returns the bytes a record's LinkHash is computed over.
// Fields are written in a fixed order: height, timestamp, previous link,
// payload owner, payload kind, payload data. Integers are big-endian and
// fixed width, variable fields are length prefixed. LinkHash is never part
// of the encoding.
func CanonicalEncode(r Record) []byte {
	var buf bytes.Buffer
	buf.Grow(1 + 8 + 8 + 4*4 + len(r.PreviousLinkHash) + len(r.Payload.Owner) + len(r.Payload.Kind) + len(r.Payload.Data))

	buf.WriteByte(encodingVersion)
	writeUint64(&buf, r.Height)
	writeUint64(&buf, uint64(r.Timestamp))
	writeBytes(&buf, []byte(r.PreviousLinkHash))
	writeBytes(&buf, []byte(r.Payload.Owner))
	writeBytes(&buf, []byte(r.Payload.Kind))
	writeBytes(&buf, r.Payload.Data)
	return buf.Bytes()
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeBytes(buf *bytes.Buffer, p []byte) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(len(p)))
	buf.Write(b[:])
	buf.Write(p)
}
