// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package poscache

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// TextMeasurer reports the pixel extent of a string at a font size.
// Implementations must be safe for concurrent use.
type TextMeasurer interface {
	MeasureText(s string, size float32) (w, h float32)
}

// FontMeasurer measures text with a gg font source. Faces are cached per size.
type FontMeasurer struct {
	source *text.FontSource

	mu    sync.Mutex
	faces map[float32]text.Face
}

// NewFontMeasurer loads a TrueType/OpenType font for measurement.
func NewFontMeasurer(fontData []byte) (*FontMeasurer, error) {
	src, err := text.NewFontSource(fontData)
	if err != nil {
		return nil, fmt.Errorf("poscache: load font: %w", err)
	}
	return &FontMeasurer{source: src, faces: make(map[float32]text.Face)}, nil
}

// NewGoFontMeasurer returns a measurer backed by the Go Regular font.
func NewGoFontMeasurer() (*FontMeasurer, error) {
	return NewFontMeasurer(goregular.TTF)
}

// MeasureText returns the advance width and line height of s.
func (m *FontMeasurer) MeasureText(s string, size float32) (w, h float32) {
	if s == "" || !(size > 0) {
		return 0, 0
	}
	m.mu.Lock()
	face, ok := m.faces[size]
	if !ok {
		face = m.source.Face(float64(size))
		m.faces[size] = face
	}
	m.mu.Unlock()

	fw, fh := text.Measure(s, face)
	return float32(fw), float32(fh)
}

// Close releases the font source.
func (m *FontMeasurer) Close() error {
	m.mu.Lock()
	clear(m.faces)
	m.mu.Unlock()
	return m.source.Close()
}

// approxMeasurer estimates text extents without a font: glyphs are assumed
// to be 0.6 em wide and lines 1.2 em tall.
type approxMeasurer struct{}

func (approxMeasurer) MeasureText(s string, size float32) (w, h float32) {
	if s == "" || !(size > 0) {
		return 0, 0
	}
	n := float32(len([]rune(s)))
	return n * size * 0.6, size * 1.2
}

var (
	defaultMeasurerOnce sync.Once
	defaultMeasurer     TextMeasurer
)

// DefaultMeasurer returns a shared Go Regular measurer, falling back to a
// font-free estimate if the font cannot be loaded.
func DefaultMeasurer() TextMeasurer {
	defaultMeasurerOnce.Do(func() {
		m, err := NewGoFontMeasurer()
		if err != nil {
			defaultMeasurer = approxMeasurer{}
			return
		}
		defaultMeasurer = m
	})
	return defaultMeasurer
}
