package keyframe

// FrameProps is a partial property snapshot. A nil field is absent.
//
// It is the result of sampling an element, the input of InsertFrame, and
// the result of diffing two snapshots.
type FrameProps struct {
	X       *float32
	Y       *float32
	Radius  *float32
	W       *float32
	H       *float32
	Size    *float32
	Value   *string
	Color   *[4]uint8
	Visible *bool
	ZIndex  *int32
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Empty reports whether no field is set.
func (p FrameProps) Empty() bool {
	return p.X == nil && p.Y == nil && p.Radius == nil && p.W == nil && p.H == nil &&
		p.Size == nil && p.Value == nil && p.Color == nil && p.Visible == nil && p.ZIndex == nil
}

// Merge returns p overwritten by every field set in later.
func (p FrameProps) Merge(later FrameProps) FrameProps {
	p.X = pick(p.X, later.X)
	p.Y = pick(p.Y, later.Y)
	p.Radius = pick(p.Radius, later.Radius)
	p.W = pick(p.W, later.W)
	p.H = pick(p.H, later.H)
	p.Size = pick(p.Size, later.Size)
	p.Value = pick(p.Value, later.Value)
	p.Color = pick(p.Color, later.Color)
	p.Visible = pick(p.Visible, later.Visible)
	p.ZIndex = pick(p.ZIndex, later.ZIndex)
	return p
}

// Diff returns the fields of p that are absent from prev or hold a
// different value there.
func (p FrameProps) Diff(prev FrameProps) FrameProps {
	return FrameProps{
		X:       changed(p.X, prev.X),
		Y:       changed(p.Y, prev.Y),
		Radius:  changed(p.Radius, prev.Radius),
		W:       changed(p.W, prev.W),
		H:       changed(p.H, prev.H),
		Size:    changed(p.Size, prev.Size),
		Value:   changed(p.Value, prev.Value),
		Color:   changed(p.Color, prev.Color),
		Visible: changed(p.Visible, prev.Visible),
		ZIndex:  changed(p.ZIndex, prev.ZIndex),
	}
}

func pick[T any](cur, later *T) *T {
	if later != nil {
		return Ptr(*later)
	}
	return cur
}

func changed[T comparable](cur, prev *T) *T {
	if cur == nil {
		return nil
	}
	if prev != nil && *prev == *cur {
		return nil
	}
	return Ptr(*cur)
}
