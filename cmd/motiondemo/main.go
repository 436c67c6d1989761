// Command motiondemo renders a short demo animation to PNG frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/easing"
	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/move"
	"github.com/gogpu/motion/scene"
)

func main() {
	var (
		config  = flag.String("config", "", "settings YAML file")
		output  = flag.String("out", "frames", "output directory")
		frames  = flag.Int("frames", 10, "number of frames to render")
		verbose = flag.Bool("v", false, "log debug output to stderr")
	)
	flag.Parse()

	if *verbose {
		motion.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	settings := motion.DefaultSettings()
	settings.Duration = 2
	if *config != "" {
		var err error
		if settings, err = motion.LoadSettings(*config); err != nil {
			log.Fatalf("Failed to load settings: %v", err)
		}
	}

	s, err := motion.NewSession(demoScene(), motion.WithSettings(settings))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := report(ctx, s); err != nil {
		log.Fatalf("Failed to query scene: %v", err)
	}
	if err := renderFrames(s, *output, *frames); err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
}

// demoScene is a ball bouncing across a keyframed bar, with a caption.
func demoScene() scene.Scene {
	bar := &keyframe.ElementKeyframes{}
	bar.W = bar.W.Insert(keyframe.Keyframe[float32]{Frame: 0, Value: 0.1, Easing: easing.DefaultSpring()})
	bar.W = bar.W.Insert(keyframe.Keyframe[float32]{Frame: 30, Value: 0.8})
	bar.Color = bar.Color.Insert(keyframe.Keyframe[[4]uint8]{Frame: 0, Value: [4]uint8{40, 90, 200, 255}, Easing: easing.Sine()})
	bar.Color = bar.Color.Insert(keyframe.Keyframe[[4]uint8]{Frame: 60, Value: [4]uint8{200, 60, 90, 255}})

	return scene.Scene{
		{
			Name: "caption", Kind: scene.Text,
			X: 0.5, Y: 0.15, Size: 0.06, Value: "motion", Color: [4]uint8{20, 20, 20, 255},
		},
		{
			Name: "ball", Kind: scene.Circle,
			X: 0.1, Y: 0.3, Radius: 0.05, Color: [4]uint8{230, 80, 40, 255},
			Moves: []move.Segment{
				{ToX: 0.5, ToY: 0.6, Start: 0, End: 1, Easing: easing.Bounce(0.5)},
				{ToX: 0.9, ToY: 0.3, Start: 1, End: 2, Easing: easing.EaseOut(2)},
			},
		},
		{
			Name: "floor", Kind: scene.Group,
			Children: []scene.Element{{
				Name: "bar", Kind: scene.Rect,
				X: 0.5, Y: 0.7, W: 0.1, H: 0.04,
				Keyframes: bar,
			}},
		},
	}
}

func report(ctx context.Context, s *motion.Session) error {
	c, err := s.Cache(ctx)
	if err != nil {
		return err
	}
	if c == nil {
		log.Printf("Position cache refused (over budget); sampling live")
	} else {
		log.Printf("Position cache: %d frames x %d primitives, %d bytes", c.Len(), c.Primitives(), c.Bytes())
	}

	mid := s.Settings().Duration / 2
	name, ok, err := s.HitTest(ctx, 0.5, 0.6, mid)
	if err != nil {
		return err
	}
	if !ok {
		name = "(background)"
	}
	col, err := s.SampleColorAt(ctx, 0.5, 0.6, mid)
	if err != nil {
		return err
	}
	log.Printf("At %.2fs, (0.5, 0.6) hits %s with color %v", mid, name, col)

	shapes, err := s.Render(ctx, mid)
	if err != nil {
		return err
	}
	log.Printf("Evaluated %d shapes at frame %d", len(shapes), s.Frame(mid))
	return nil
}

func renderFrames(s *motion.Session, dir string, n int) error {
	if n <= 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	w := s.NewPreviewWorker()
	defer w.Close()

	snap := s.Snapshot()
	step := 0.0
	if n > 1 {
		step = snap.Duration / float64(n-1)
	}
	for i := range n {
		seq, err := w.Request(snap, float64(i)*step)
		if err != nil {
			return err
		}
		// One request at a time, so every result is delivered.
		res := <-w.Results()
		if res.Err != nil {
			return res.Err
		}
		if res.Seq != seq {
			return fmt.Errorf("result %d for request %d", res.Seq, seq)
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		if err := res.Frame.SavePNG(path); err != nil {
			return err
		}
	}
	log.Printf("Rendered %d frames to %s", n, dir)
	return nil
}
