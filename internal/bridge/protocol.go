package bridge

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/soar/gamepads/gamepad"
)

// Frame kinds. Every frame starts with its kind byte; multi-byte fields are
// little-endian.
const (
	KindSnapshot byte = 0x01 // host→server: version u8, snapshot
	KindKey      byte = 0x02 // host→server: session u32, scancode u32, pressed u8
	KindAxis     byte = 0x03 // host→server: session u32, f32[6]
	KindRumble   byte = 0x10 // server→host: handle u32, duration u32, delay u32, strong u16, weak u16
)

const (
	snapshotFrameSize = 2 + gamepad.SnapshotSize
	keyFrameSize      = 1 + 4 + 4 + 1
	axisFrameSize     = 1 + 4 + 6*4
	rumbleFrameSize   = 1 + 4 + 4 + 4 + 2 + 2
)

// KeyFrame is a raw key event from a host.
type KeyFrame struct {
	Session  uint32
	Scancode uint32
	Pressed  bool
}

// AxisFrame is a raw six-value motion event from a host.
type AxisFrame struct {
	Session uint32
	Values  [6]float32
}

// RumbleFrame asks a host to play a dual-rumble effect.
type RumbleFrame struct {
	Handle     uint32
	DurationMs uint32
	DelayMs    uint32
	Strong     uint16
	Weak       uint16
}

func kindName(k byte) string {
	switch k {
	case KindSnapshot:
		return "snapshot"
	case KindKey:
		return "key"
	case KindAxis:
		return "axis"
	case KindRumble:
		return "rumble"
	}
	return "unknown"
}

// EncodeSnapshotFrame wraps an encoded snapshot.
func EncodeSnapshotFrame(snapshot []byte) []byte {
	b := make([]byte, 0, snapshotFrameSize)
	b = append(b, KindSnapshot, gamepad.LayoutVersion)
	return append(b, snapshot...)
}

// decodeSnapshotFrame returns the snapshot payload of a frame.
func decodeSnapshotFrame(b []byte) ([]byte, error) {
	if len(b) != snapshotFrameSize {
		return nil, fmt.Errorf("snapshot frame is %d bytes, want %d: %w", len(b), snapshotFrameSize, io.ErrUnexpectedEOF)
	}
	if b[1] != gamepad.LayoutVersion {
		return nil, fmt.Errorf("snapshot layout v%d, want v%d", b[1], gamepad.LayoutVersion)
	}
	return b[2:], nil
}

func (f KeyFrame) MarshalBinary() ([]byte, error) {
	b := make([]byte, keyFrameSize)
	b[0] = KindKey
	binary.LittleEndian.PutUint32(b[1:], f.Session)
	binary.LittleEndian.PutUint32(b[5:], f.Scancode)
	if f.Pressed {
		b[9] = 1
	}
	return b, nil
}

func (f *KeyFrame) UnmarshalBinary(b []byte) error {
	if len(b) < keyFrameSize || b[0] != KindKey {
		return io.ErrUnexpectedEOF
	}
	f.Session = binary.LittleEndian.Uint32(b[1:])
	f.Scancode = binary.LittleEndian.Uint32(b[5:])
	f.Pressed = b[9] != 0
	return nil
}

func (f AxisFrame) MarshalBinary() ([]byte, error) {
	b := make([]byte, axisFrameSize)
	b[0] = KindAxis
	binary.LittleEndian.PutUint32(b[1:], f.Session)
	for i, v := range f.Values {
		binary.LittleEndian.PutUint32(b[5+i*4:], math.Float32bits(v))
	}
	return b, nil
}

// UnmarshalBinary decodes an axis frame; non-finite values become 0.
func (f *AxisFrame) UnmarshalBinary(b []byte) error {
	if len(b) < axisFrameSize || b[0] != KindAxis {
		return io.ErrUnexpectedEOF
	}
	f.Session = binary.LittleEndian.Uint32(b[1:])
	for i := range f.Values {
		v := math.Float32frombits(binary.LittleEndian.Uint32(b[5+i*4:]))
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			v = 0
		}
		f.Values[i] = v
	}
	return nil
}

func (f RumbleFrame) MarshalBinary() ([]byte, error) {
	b := make([]byte, rumbleFrameSize)
	b[0] = KindRumble
	binary.LittleEndian.PutUint32(b[1:], f.Handle)
	binary.LittleEndian.PutUint32(b[5:], f.DurationMs)
	binary.LittleEndian.PutUint32(b[9:], f.DelayMs)
	binary.LittleEndian.PutUint16(b[13:], f.Strong)
	binary.LittleEndian.PutUint16(b[15:], f.Weak)
	return b, nil
}

func (f *RumbleFrame) UnmarshalBinary(b []byte) error {
	if len(b) < rumbleFrameSize || b[0] != KindRumble {
		return io.ErrUnexpectedEOF
	}
	f.Handle = binary.LittleEndian.Uint32(b[1:])
	f.DurationMs = binary.LittleEndian.Uint32(b[5:])
	f.DelayMs = binary.LittleEndian.Uint32(b[9:])
	f.Strong = binary.LittleEndian.Uint16(b[13:])
	f.Weak = binary.LittleEndian.Uint16(b[15:])
	return nil
}
