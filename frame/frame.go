// Package frame binds a filename and a payload into one length-prefixed buffer.
//
// Byte layout:
//
//	0..3          filename length (big-endian uint32)
//	4..4+n        filename (UTF-8)
//	next 4 bytes  payload length (big-endian uint32)
//	rest          payload
//
// Decoding is two-tier. A buffer that does not satisfy the layout is not an
// error: it is returned whole as a legacy unframed payload.
package frame

import (
	"encoding/binary"
	"unicode/utf8"
)

const (
	// MaxFilenameLength bounds the filename length accepted on decode.
	MaxFilenameLength = 500
	// LegacyFilename names payloads recovered through the legacy branch.
	LegacyFilename = "decoded_file"

	lengthSize = 4
)

// Layout identifies which decode branch produced a Result.
type Layout int

const (
	// Framed means the buffer satisfied the length-prefixed layout.
	Framed Layout = iota
	// LegacyRaw means the whole buffer was taken as an unframed payload.
	LegacyRaw
)

func (l Layout) String() string {
	switch l {
	case Framed:
		return "framed"
	case LegacyRaw:
		return "legacy"
	default:
		return "unknown"
	}
}

// Result is the outcome of Unframe.
type Result struct {
	Layout   Layout
	Payload  []byte
	Filename string
}

// Frame packs filename and payload. It never fails; the filename length is
// only checked on decode, so names longer than MaxFilenameLength bytes will
// come back through the legacy branch.
func Frame(payload []byte, filename string) []byte {
	out := make([]byte, 0, 2*lengthSize+len(filename)+len(payload))
	out = binary.BigEndian.AppendUint32(out, uint32(len(filename)))
	out = append(out, filename...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

// Unframe attempts strict decoding and falls back to LegacyRaw on any
// violation. Bytes after the declared payload are ignored.
func Unframe(buf []byte) Result {
	if payload, filename, ok := parse(buf); ok {
		return Result{Layout: Framed, Payload: payload, Filename: filename}
	}
	return Result{Layout: LegacyRaw, Payload: buf, Filename: LegacyFilename}
}

func parse(buf []byte) ([]byte, string, bool) {
	if len(buf) < 2*lengthSize {
		return nil, "", false
	}
	nameLen := binary.BigEndian.Uint32(buf[:lengthSize])
	if nameLen > MaxFilenameLength {
		return nil, "", false
	}
	nameEnd := lengthSize + int(nameLen)
	if nameEnd > len(buf) {
		return nil, "", false
	}
	name := buf[lengthSize:nameEnd]
	if !utf8.Valid(name) {
		return nil, "", false
	}
	dataStart := nameEnd + lengthSize
	if dataStart > len(buf) {
		return nil, "", false
	}
	dataLen := uint64(binary.BigEndian.Uint32(buf[nameEnd:dataStart]))
	if dataLen > uint64(len(buf)-dataStart) {
		return nil, "", false
	}
	return buf[dataStart : dataStart+int(dataLen)], string(name), true
}
