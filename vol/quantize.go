package vol

import "math"

const (
	// almost256 is the largest multiplier strictly below 256 in float32,
	// so that a fully normalized value quantizes to byte 255 instead of
	// overflowing to 256.
	almost256 = float32(256 * (1.0 - 0x1p-23))

	// minNormal is the smallest positive normal float32. Value spreads
	// are floored here so constant fields normalize against a finite
	// divisor instead of zero.
	minNormal = float32(0x1p-126)
)

// quantize maps v in [min, min+spread] to a byte in [0, 255]. Callers must
// have derived min and spread from the field's own statistics; values
// outside the range are not clamped.
func quantize(v, min, spread float32) byte {
	return byte(almost256 * ((v - min) / spread))
}

// spreadOf returns max-min floored to minNormal.
func spreadOf(min, max float32) float32 {
	if s := max - min; s >= minNormal {
		return s
	}

	return minNormal
}

func sqrt32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}
