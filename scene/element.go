// Package scene describes the elements an animation is made of.
//
// Elements are authored in scene order, where index 0 is topmost. A group
// only nests children and contributes its spawn and kill window to them;
// no transform is inherited. Coordinates are normalized to [0, 1] of the
// render target.
package scene

import (
	"fmt"
	"slices"

	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/move"
)

// Kind is the element type.
type Kind uint8

const (
	Circle Kind = iota
	Rect
	Text
	Group
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
	case Group:
		return "group"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Primitive maps a drawable kind to its keyframe kind. ok is false for groups.
func (k Kind) Primitive() (keyframe.Kind, bool) {
	switch k {
	case Circle:
		return keyframe.Circle, true
	case Rect:
		return keyframe.Rect, true
	case Text:
		return keyframe.Text, true
	default:
		return 0, false
	}
}

// Element is one authored scene element.
type Element struct {
	Name string
	Kind Kind

	// X and Y are the resting center.
	X, Y float32

	// Radius applies to circles; W and H to rects (full extents); Size to text.
	Radius float32
	W, H   float32
	Size   float32

	// Value is the text content.
	Value string
	Color [4]uint8

	// SpawnTime is the first second at which the element exists.
	SpawnTime float32

	// KillTime is the first second at which the element is gone, when HasKill is set.
	KillTime float32
	HasKill  bool

	Hidden    bool
	ZIndex    int32
	Ephemeral bool

	// Moves are legacy multi-segment animations applied to X and Y.
	Moves []move.Segment

	// Keyframes, when set, drive every property and take precedence over
	// the static fields and Moves.
	Keyframes *keyframe.ElementKeyframes

	// Children are only used by groups.
	Children []Element
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	if e.Moves != nil {
		moves := make([]move.Segment, len(e.Moves))
		for i, m := range e.Moves {
			m.Easing = m.Easing.Clone()
			moves[i] = m
		}
		e.Moves = moves
	}
	if e.Keyframes != nil {
		e.Keyframes = e.Keyframes.Clone()
	}
	if e.Children != nil {
		children := make([]Element, len(e.Children))
		for i := range e.Children {
			children[i] = e.Children[i].Clone()
		}
		e.Children = children
	}
	return e
}

// LiveAt reports whether e exists at time seconds.
func (e *Element) LiveAt(time float32) bool {
	if time < e.SpawnTime {
		return false
	}
	return !e.HasKill || time < e.KillTime
}

// State is an element evaluated at one instant.
type State struct {
	X, Y, Radius, W, H, Size float32
	Value                    string
	Color                    [4]uint8
	Visible                  bool
	ZIndex                   int32

	// Live is false outside the element's spawn/kill window.
	Live bool
}

// Evaluate samples e at time seconds. Properties without a keyframe track
// keep their static values. Moves are applied only when Keyframes is nil.
func (e *Element) Evaluate(time float32, fps float64) State {
	s := State{
		X: e.X, Y: e.Y,
		Radius: e.Radius, W: e.W, H: e.H, Size: e.Size,
		Value: e.Value, Color: e.Color,
		Visible: !e.Hidden, ZIndex: e.ZIndex,
		Live: e.LiveAt(time),
	}
	if e.Keyframes == nil {
		s.X, s.Y = move.AnimatedXY(e.X, e.Y, e.Moves, time)
		return s
	}

	frame := time * float32(fps)
	s.Live = s.Live && e.Keyframes.Live(keyframe.SecondsToFrame(float64(time), fps))
	p := e.Keyframes.Sample(frame)
	assign(&s.X, p.X)
	assign(&s.Y, p.Y)
	assign(&s.Radius, p.Radius)
	assign(&s.W, p.W)
	assign(&s.H, p.H)
	assign(&s.Size, p.Size)
	assign(&s.Value, p.Value)
	assign(&s.Color, p.Color)
	assign(&s.Visible, p.Visible)
	assign(&s.ZIndex, p.ZIndex)
	return s
}

func assign[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Scene is an ordered element list. Index 0 is the topmost element.
type Scene []Element

// Clone returns a deep copy of the scene.
func (s Scene) Clone() Scene {
	if s == nil {
		return nil
	}
	out := make(Scene, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}
	return out
}

// Find returns the first element named name, searching groups depth-first.
func (s Scene) Find(name string) *Element {
	for i := range s {
		if s[i].Name == name {
			return &s[i]
		}
		if found := Scene(s[i].Children).Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Names returns the element names in flattened order.
func (s Scene) Names() []string {
	var out []string
	for _, e := range s.Flatten() {
		out = append(out, e.Name)
	}
	return slices.Clip(out)
}
