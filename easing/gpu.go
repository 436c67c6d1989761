// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package easing

// GPU easing codes. These values are part of the compute shader contract.
const (
	GPULinear    uint32 = 0
	GPUEaseIn    uint32 = 1
	GPUEaseOut   uint32 = 2
	GPUEaseInOut uint32 = 3
	GPUSine      uint32 = 4
	GPUExpo      uint32 = 5
	GPUCirc      uint32 = 6
)

// GPUSupported reports whether c can be evaluated exactly by the compute shader.
func GPUSupported(c Curve) bool {
	switch c.Kind {
	case KindLinear, KindEaseIn, KindEaseOut, KindEaseInOut, KindSine, KindExpo, KindCirc:
		return true
	default:
		return false
	}
}

// GPUCode encodes c for the compute shader as a code and one parameter
// (the sanitized power for the power curves, otherwise 0).
// Unsupported curves encode as linear and ok is false.
func GPUCode(c Curve) (code uint32, param float32, ok bool) {
	switch c.Kind {
	case KindLinear:
		return GPULinear, 0, true
	case KindEaseIn:
		return GPUEaseIn, float32(power(c.Power)), true
	case KindEaseOut:
		return GPUEaseOut, float32(power(c.Power)), true
	case KindEaseInOut:
		return GPUEaseInOut, float32(power(c.Power)), true
	case KindSine:
		return GPUSine, 0, true
	case KindExpo:
		return GPUExpo, 0, true
	case KindCirc:
		return GPUCirc, 0, true
	default:
		return GPULinear, 0, false
	}
}

// FromGPU decodes a shader easing code back into a Curve.
// Unknown codes decode as Linear, matching the shader's default branch.
func FromGPU(code uint32, param float32) Curve {
	switch code {
	case GPUEaseIn:
		return EaseIn(param)
	case GPUEaseOut:
		return EaseOut(param)
	case GPUEaseInOut:
		return EaseInOut(param)
	case GPUSine:
		return Sine()
	case GPUExpo:
		return Expo()
	case GPUCirc:
		return Circ()
	default:
		return Linear()
	}
}
