package gamepad

import "iter"

// ID is the stable identifier of a gamepad: its slot index. A device that
// disconnects and reconnects keeps its ID.
type ID uint8

// Gamepad is a read-only view of one slot as of the last tick.
type Gamepad struct {
	id    ID
	state State
}

func (g Gamepad) ID() ID          { return g.id }
func (g Gamepad) Connected() bool { return g.state.Connected }

// Axes returns [leftX, leftY, rightX, rightY], each in [-1, 1] with Y up.
func (g Gamepad) Axes() [NumAxes]float32 { return g.state.Axes }

func (g Gamepad) LeftStickX() float32  { return g.state.Axes[LeftStickX] }
func (g Gamepad) LeftStickY() float32  { return g.state.Axes[LeftStickY] }
func (g Gamepad) RightStickX() float32 { return g.state.Axes[RightStickX] }
func (g Gamepad) RightStickY() float32 { return g.state.Axes[RightStickY] }

// Pressed is the raw currently-pressed mask.
func (g Gamepad) Pressed() uint32 { return g.state.Pressed }

// JustPressed is the raw mask of buttons pressed during the last tick.
func (g Gamepad) JustPressed() uint32 { return g.state.JustPressed }

func (g Gamepad) IsCurrentlyPressed(b Button) bool {
	return b.Valid() && g.state.Pressed&b.Bit() != 0
}

// IsJustPressed reports whether b went down during the last tick. With the
// snapshot backend this only sees presses still held at read time.
func (g Gamepad) IsJustPressed(b Button) bool {
	return b.Valid() && g.state.JustPressed&b.Bit() != 0
}

// AllCurrentlyPressed yields the held buttons in enumeration order.
func (g Gamepad) AllCurrentlyPressed() iter.Seq[Button] { return ButtonsIn(g.state.Pressed) }

// AllJustPressed yields the buttons pressed during the last tick.
func (g Gamepad) AllJustPressed() iter.Seq[Button] { return ButtonsIn(g.state.JustPressed) }
