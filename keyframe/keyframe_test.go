package keyframe

import (
	"math"
	"testing"

	"github.com/gogpu/motion/easing"
)

func floatTrack(frames ...uint32) Track[float32] {
	var tr Track[float32]
	for i, f := range frames {
		tr = tr.Insert(Keyframe[float32]{Frame: f, Value: float32(i) * 10})
	}
	return tr
}

func TestTrackInsertSorted(t *testing.T) {
	tr := floatTrack(30, 10, 20, 0)
	want := []uint32{0, 10, 20, 30}
	if len(tr) != len(want) {
		t.Fatalf("len = %d, want %d", len(tr), len(want))
	}
	for i, k := range tr {
		if k.Frame != want[i] {
			t.Errorf("tr[%d].Frame = %d, want %d", i, k.Frame, want[i])
		}
	}
}

func TestTrackInsertLastWriteWins(t *testing.T) {
	tr := floatTrack(0, 10)
	tr = tr.Insert(Keyframe[float32]{Frame: 10, Value: 99, Easing: easing.Sine()})
	if len(tr) != 2 {
		t.Fatalf("len = %d, want 2", len(tr))
	}
	if tr[1].Value != 99 || tr[1].Easing.Kind != easing.KindSine {
		t.Errorf("tr[1] = %+v, want value 99 with sine easing", tr[1])
	}
}

func TestTrackSetKeepsEasing(t *testing.T) {
	tr := Track[float32]{{Frame: 5, Value: 1, Easing: easing.Expo()}}
	tr = tr.Set(5, 2)
	if tr[0].Value != 2 || tr[0].Easing.Kind != easing.KindExpo {
		t.Errorf("tr[0] = %+v", tr[0])
	}
	tr = tr.Set(7, 3)
	if len(tr) != 2 || tr[1].Easing.Kind != easing.KindLinear {
		t.Errorf("new keyframe = %+v, want linear", tr[1])
	}
}

func TestTrackRemove(t *testing.T) {
	tr := floatTrack(0, 10, 20)
	tr, ok := tr.Remove(10)
	if !ok || len(tr) != 2 || tr[1].Frame != 20 {
		t.Errorf("Remove(10) = %v, %v", tr, ok)
	}
	if _, ok := tr.Remove(11); ok {
		t.Error("Remove(11) reported a keyframe")
	}
}

func TestSample(t *testing.T) {
	tr := Track[float32]{
		{Frame: 10, Value: 0},
		{Frame: 20, Value: 100, Easing: easing.EaseIn(2)},
		{Frame: 30, Value: 0},
	}
	tests := []struct {
		name  string
		frame float32
		want  float32
	}{
		{"before first holds", 0, 0},
		{"at first", 10, 0},
		{"linear midpoint", 15, 50},
		{"at middle keyframe", 20, 100},
		{"eased midpoint", 25, 75},
		{"at last", 30, 0},
		{"after last holds", 1000, 0},
		{"nan holds first", float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sample(tr, tt.frame, LerpFloat)
			if !ok {
				t.Fatal("ok = false")
			}
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("Sample(%v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestSampleEmpty(t *testing.T) {
	if _, ok := Sample(Track[float32]{}, 3, LerpFloat); ok {
		t.Error("empty track reported a value")
	}
}

func TestSampleSingleKeyframeHolds(t *testing.T) {
	tr := Track[float32]{{Frame: 40, Value: 7}}
	for _, f := range []float32{0, 39, 40, 41, 1e6} {
		if got, _ := Sample(tr, f, LerpFloat); got != 7 {
			t.Errorf("Sample(%v) = %v, want 7", f, got)
		}
	}
}

func TestSampleIdempotent(t *testing.T) {
	e := &ElementKeyframes{
		X:     Track[float32]{{Frame: 0, Value: 0.1, Easing: easing.Bezier(easing.Vec2{X: 0.3, Y: 0}, easing.Vec2{X: 0.7, Y: 1})}, {Frame: 60, Value: 0.9}},
		Color: Track[[4]uint8]{{Frame: 0, Value: [4]uint8{0, 0, 0, 255}}, {Frame: 60, Value: [4]uint8{255, 128, 0, 255}}},
	}
	a := e.Sample(17.5)
	b := e.Sample(17.5)
	if *a.X != *b.X || *a.Color != *b.Color {
		t.Errorf("Sample not idempotent: %v/%v vs %v/%v", *a.X, *a.Color, *b.X, *b.Color)
	}
}

func TestLerpColor(t *testing.T) {
	got := LerpColor([4]uint8{0, 255, 10, 255}, [4]uint8{255, 0, 10, 0}, 0.5)
	want := [4]uint8{128, 128, 10, 128}
	if got != want {
		t.Errorf("LerpColor = %v, want %v", got, want)
	}
}

func TestElementSampleAbsentTracks(t *testing.T) {
	e := &ElementKeyframes{
		Kind:    Text,
		Value:   Track[string]{{Frame: 0, Value: "a"}, {Frame: 10, Value: "b"}},
		Visible: Track[bool]{{Frame: 5, Value: true}},
	}
	p := e.Sample(9)
	if p.X != nil || p.Color != nil {
		t.Error("empty tracks must be absent")
	}
	if p.Value == nil || *p.Value != "a" {
		t.Errorf("Value = %v, want step hold of \"a\"", p.Value)
	}
	if p.Visible == nil || !*p.Visible {
		t.Error("Visible should hold true")
	}
}

func TestElementSampleColorF(t *testing.T) {
	e := &ElementKeyframes{
		Color: Track[[4]uint8]{{Frame: 0, Value: [4]uint8{0, 0, 0, 0}}, {Frame: 10, Value: [4]uint8{255, 51, 0, 255}}},
	}
	c, ok := e.SampleColorF(5)
	if !ok {
		t.Fatal("ok = false")
	}
	want := [4]float32{0.5, 0.1, 0, 0.5}
	for i := range c {
		if math.Abs(float64(c[i]-want[i])) > 1e-6 {
			t.Errorf("channel %d = %v, want %v", i, c[i], want[i])
		}
	}
}

func TestElementLive(t *testing.T) {
	e := &ElementKeyframes{SpawnFrame: 10}
	e.SetKill(20)
	tests := []struct {
		frame uint32
		want  bool
	}{
		{9, false}, {10, true}, {19, true}, {20, false}, {100, false},
	}
	for _, tt := range tests {
		if got := e.Live(tt.frame); got != tt.want {
			t.Errorf("Live(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}

	forever := &ElementKeyframes{SpawnFrame: 0}
	if !forever.Live(math.MaxUint32) {
		t.Error("element without kill frame must stay live")
	}
}

func TestInsertFrame(t *testing.T) {
	e := &ElementKeyframes{
		X: Track[float32]{{Frame: 0, Value: 0.2, Easing: easing.Circ()}},
	}
	e.InsertFrame(0, FrameProps{X: Ptr[float32](0.4)})
	e.InsertFrame(30, FrameProps{X: Ptr[float32](0.8), Color: Ptr([4]uint8{1, 2, 3, 4})})

	if len(e.X) != 2 || e.X[0].Value != 0.4 || e.X[0].Easing.Kind != easing.KindCirc {
		t.Errorf("X = %+v", e.X)
	}
	if len(e.Color) != 1 || e.Color[0].Frame != 30 {
		t.Errorf("Color = %+v", e.Color)
	}
	if len(e.Y) != 0 {
		t.Error("Y should be untouched")
	}
}

func TestCloneIsDeep(t *testing.T) {
	e := &ElementKeyframes{Name: "a", X: floatTrack(0, 10)}
	c := e.Clone()
	c.X[0].Value = 42
	if e.X[0].Value == 42 {
		t.Error("Clone shares track storage")
	}
}

func TestFramePropsMergeDiff(t *testing.T) {
	base := FrameProps{X: Ptr[float32](1), Y: Ptr[float32](2)}
	later := FrameProps{Y: Ptr[float32](3), Value: Ptr("hi")}

	m := base.Merge(later)
	if *m.X != 1 || *m.Y != 3 || *m.Value != "hi" {
		t.Errorf("Merge = %v %v %v", *m.X, *m.Y, *m.Value)
	}

	d := m.Diff(base)
	if d.X != nil {
		t.Error("unchanged X reported in diff")
	}
	if d.Y == nil || *d.Y != 3 || d.Value == nil {
		t.Error("changed fields missing from diff")
	}
	if !base.Diff(base).Empty() {
		t.Error("self diff should be empty")
	}
}

func TestSecondsToFrame(t *testing.T) {
	tests := []struct {
		sec, fps float64
		want     uint32
	}{
		{0, 30, 0},
		{1, 30, 30},
		{0.51 / 30, 30, 1},
		{-2, 30, 0},
		{math.NaN(), 30, 0},
	}
	for _, tt := range tests {
		if got := SecondsToFrame(tt.sec, tt.fps); got != tt.want {
			t.Errorf("SecondsToFrame(%v, %v) = %d, want %d", tt.sec, tt.fps, got, tt.want)
		}
	}
	if got := FrameToSeconds(45, 30); got != 1.5 {
		t.Errorf("FrameToSeconds = %v, want 1.5", got)
	}
}
