package keyframe

import (
	"fmt"
	"math"

	"github.com/gogpu/motion/easing"
)

// Kind is the primitive type of an element.
type Kind uint8

const (
	Circle Kind = iota
	Rect
	Text
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Circle:
		return "circle"
	case Rect:
		return "rect"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ElementKeyframes holds every animated property of one element.
type ElementKeyframes struct {
	// Name is unique within a live scene.
	Name string
	Kind Kind

	// SpawnFrame is the first frame at which the element is live.
	SpawnFrame uint32

	// KillFrame is the first frame at which the element is gone.
	// It is only meaningful when HasKill is set.
	KillFrame uint32
	HasKill   bool

	X, Y, W, H, Radius, Size Track[float32]
	Color                    Track[[4]uint8]
	Value                    Track[string]
	Visible                  Track[bool]
	ZIndex                   Track[int32]

	// Ephemeral marks elements spawned at runtime rather than authored.
	Ephemeral bool
}

// SetKill sets the exclusive kill frame.
func (e *ElementKeyframes) SetKill(frame uint32) {
	e.KillFrame = frame
	e.HasKill = true
}

// Live reports whether the element exists at frame.
func (e *ElementKeyframes) Live(frame uint32) bool {
	if frame < e.SpawnFrame {
		return false
	}
	return !e.HasKill || frame < e.KillFrame
}

// Sample evaluates every non-empty track at frame.
// Callers check Live first; sampling outside the live window holds the
// nearest keyframe values.
func (e *ElementKeyframes) Sample(frame float32) FrameProps {
	var p FrameProps
	p.X = sampleField(e.X, frame, LerpFloat)
	p.Y = sampleField(e.Y, frame, LerpFloat)
	p.Radius = sampleField(e.Radius, frame, LerpFloat)
	p.W = sampleField(e.W, frame, LerpFloat)
	p.H = sampleField(e.H, frame, LerpFloat)
	p.Size = sampleField(e.Size, frame, LerpFloat)
	p.Color = sampleField(e.Color, frame, LerpColor)
	p.Value = sampleField(e.Value, frame, Step[string])
	p.Visible = sampleField(e.Visible, frame, Step[bool])
	p.ZIndex = sampleField(e.ZIndex, frame, Step[int32])
	return p
}

// SampleColorF samples the color track with channels normalized to [0, 1]
// and no rounding. ok is false when the track is empty.
func (e *ElementKeyframes) SampleColorF(frame float32) (c [4]float32, ok bool) {
	if len(e.Color) == 0 {
		return c, false
	}
	i, t, hold := e.Color.Bracket(frame)
	a := NormalizeColor(e.Color[i].Value)
	if hold {
		return a, true
	}
	b := NormalizeColor(e.Color[i+1].Value)
	return LerpColorF(a, b, easing.Evaluate(e.Color[i].Easing, t)), true
}

// NormalizeColor maps 8-bit channels to [0, 1].
func NormalizeColor(c [4]uint8) [4]float32 {
	return [4]float32{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	}
}

// InsertFrame writes every field set in p as a keyframe at frame.
// Existing keyframes at that frame are overwritten and keep their easing.
func (e *ElementKeyframes) InsertFrame(frame uint32, p FrameProps) {
	e.X = setIf(e.X, frame, p.X)
	e.Y = setIf(e.Y, frame, p.Y)
	e.Radius = setIf(e.Radius, frame, p.Radius)
	e.W = setIf(e.W, frame, p.W)
	e.H = setIf(e.H, frame, p.H)
	e.Size = setIf(e.Size, frame, p.Size)
	e.Color = setIf(e.Color, frame, p.Color)
	e.Value = setIf(e.Value, frame, p.Value)
	e.Visible = setIf(e.Visible, frame, p.Visible)
	e.ZIndex = setIf(e.ZIndex, frame, p.ZIndex)
}

// Clone returns a deep copy.
func (e *ElementKeyframes) Clone() *ElementKeyframes {
	c := *e
	c.X = e.X.Clone()
	c.Y = e.Y.Clone()
	c.W = e.W.Clone()
	c.H = e.H.Clone()
	c.Radius = e.Radius.Clone()
	c.Size = e.Size.Clone()
	c.Color = e.Color.Clone()
	c.Value = e.Value.Clone()
	c.Visible = e.Visible.Clone()
	c.ZIndex = e.ZIndex.Clone()
	return &c
}

// SecondsToFrame converts a time in seconds to the nearest frame.
// Negative or non-finite results map to frame 0.
func SecondsToFrame(seconds, fps float64) uint32 {
	f := math.Round(seconds * fps)
	if !(f > 0) {
		return 0
	}
	if f >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(f)
}

// FrameToSeconds converts a frame index to seconds. A non-positive fps yields 0.
func FrameToSeconds(frame uint32, fps float64) float64 {
	if !(fps > 0) {
		return 0
	}
	return float64(frame) / fps
}

func sampleField[V any](tr Track[V], frame float32, lerp Lerper[V]) *V {
	v, ok := Sample(tr, frame, lerp)
	if !ok {
		return nil
	}
	return &v
}

func setIf[V any](tr Track[V], frame uint32, v *V) Track[V] {
	if v == nil {
		return tr
	}
	return tr.Set(frame, *v)
}
