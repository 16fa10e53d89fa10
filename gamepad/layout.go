package gamepad

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Snapshot layout shared with host environments.
//
// Each slot is a fixed 24-byte little-endian record:
//
//	0:  connected (u8, non-zero = connected)
//	1:  reserved (3 bytes, zero)
//	4:  axes f32[4] leftX, leftY, rightX, rightY
//	20: pressed bitmask u32
//
// The buffer holds MaxGamepads records back to back, addressed by slot.
const (
	LayoutVersion = 1
	RecordStride  = 24
	SnapshotSize  = RecordStride * MaxGamepads

	offConnected = 0
	offAxes      = 4
	offPressed   = offAxes + NumAxes*4
)

// wireRecord documents the layout for encoding/binary; it is only used for
// the size assertion below.
type wireRecord struct {
	Connected uint8
	_         [3]uint8
	Axes      [NumAxes]float32
	Pressed   uint32
}

func init() {
	if n := binary.Size(wireRecord{}); n != RecordStride || offPressed+4 != RecordStride {
		panic(fmt.Sprintf("gamepad: snapshot record is %d bytes (pressed ends at %d), layout v%d requires %d",
			n, offPressed+4, LayoutVersion, RecordStride))
	}
}

// Record is one decoded slot of a snapshot.
type Record struct {
	Connected bool
	Axes      [NumAxes]float32
	Pressed   uint32
}

// MarshalBinary encodes r to the fixed RecordStride-byte wire format.
func (r Record) MarshalBinary() ([]byte, error) {
	b := make([]byte, RecordStride)
	r.put(b)
	return b, nil
}

func (r Record) put(b []byte) {
	if r.Connected {
		b[offConnected] = 1
	}
	for i, v := range r.Axes {
		binary.LittleEndian.PutUint32(b[offAxes+i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(b[offPressed:], r.Pressed)
}

// UnmarshalBinary decodes a record. Non-finite axes decode as 0.
func (r *Record) UnmarshalBinary(data []byte) error {
	if len(data) < RecordStride {
		return io.ErrUnexpectedEOF
	}
	r.Connected = data[offConnected] != 0
	for i := range r.Axes {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[offAxes+i*4:]))
		if math.IsInf(float64(v), 0) {
			v = 0
		}
		r.Axes[i] = clampUnit(v)
	}
	r.Pressed = binary.LittleEndian.Uint32(data[offPressed:])
	return nil
}

// EncodeSnapshot writes all slots into a freshly allocated buffer.
func EncodeSnapshot(recs [MaxGamepads]Record) []byte {
	b := make([]byte, SnapshotSize)
	for i, r := range recs {
		r.put(b[i*RecordStride : (i+1)*RecordStride])
	}
	return b
}

// DecodeSnapshot reads all slots from buf.
func DecodeSnapshot(buf []byte) ([MaxGamepads]Record, error) {
	var recs [MaxGamepads]Record
	if len(buf) < SnapshotSize {
		return recs, fmt.Errorf("%w: got %d bytes, want %d", ErrShortBuffer, len(buf), SnapshotSize)
	}
	for i := range recs {
		if err := recs[i].UnmarshalBinary(buf[i*RecordStride:]); err != nil {
			return recs, err
		}
	}
	return recs, nil
}
