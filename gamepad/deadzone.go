package gamepad

import "math"

// MaxDeadzone is the largest deadzone Normalize will honour. Anything at or
// above 1 would leave no usable range.
const MaxDeadzone = 0.99

// ClampDeadzone maps a configured deadzone into [0, MaxDeadzone].
func ClampDeadzone(dz float32) float32 {
	switch {
	case dz != dz, dz < 0:
		return 0
	case dz > MaxDeadzone:
		return MaxDeadzone
	}
	return dz
}

// Normalize zeroes raw values inside the deadzone and rescales the rest so
// that [deadzone, 1] maps onto [0, 1], keeping the sign.
func Normalize(raw, deadzone float32) float32 {
	raw = clampUnit(raw)
	dz := ClampDeadzone(deadzone)
	mag := float32(math.Abs(float64(raw)))
	if mag < dz {
		return 0
	}
	v := (mag - dz) / (1 - dz)
	if raw < 0 {
		return -v
	}
	return v
}

// NormalizeRaw converts a signed 16-bit device reading to [-1, 1].
func NormalizeRaw(raw int16) float32 {
	v := float32(raw) / math.MaxInt16
	if v < -1 {
		v = -1
	}
	return v
}

func clampUnit(v float32) float32 {
	switch {
	case v != v:
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	}
	return v
}
