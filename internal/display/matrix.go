package display

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives finished frames. The daemon wires either a hardware
// panel driver or a file sink for development.
type Sink interface {
	Push(frame *image.RGBA) error
}

// DiscardSink drops frames, for tests and headless runs
type DiscardSink struct{}

// Push implements Sink
func (DiscardSink) Push(*image.RGBA) error { return nil }

// FileSink writes each frame as current.png in a directory so a web
// preview can poll it.
type FileSink struct {
	dir string
}

// NewFileSink creates a sink writing frames under dir
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating frame dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Push implements Sink
func (s *FileSink) Push(frame *image.RGBA) error {
	tmp := filepath.Join(s.dir, "current.png.tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := png.Encode(f, frame); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(s.dir, "current.png"))
}

// Matrix is the shared drawing surface for the pixel grid. Managers
// draw into Frame and call Push to hand the frame to the sink.
type Matrix struct {
	mu     sync.Mutex
	width  int
	height int
	frame  *image.RGBA
	sink   Sink
}

// NewMatrix creates a surface of the given dimensions
func NewMatrix(width, height int, sink Sink) (*Matrix, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", width, height)
	}
	if sink == nil {
		sink = DiscardSink{}
	}
	return &Matrix{
		width:  width,
		height: height,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
		sink:   sink,
	}, nil
}

// Bounds returns the pixel grid rectangle
func (m *Matrix) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// Frame returns the current frame buffer
func (m *Matrix) Frame() *image.RGBA {
	return m.frame
}

// Clear fills the frame with black
func (m *Matrix) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	draw.Draw(m.frame, m.frame.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
}

// Push flushes the frame to the sink
func (m *Matrix) Push() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sink.Push(m.frame)
}
