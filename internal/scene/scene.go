// Package scene describes overlay content in YAML files and applies it to
// the compositor as an ordinary client.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/overlayd/internal/cursor"
	"github.com/Norgate-AV/overlayd/internal/geom"
)

// Scene is a scene file.
type Scene struct {
	Groups []Group `yaml:"groups"`
}

// Group is one window group of a scene.
type Group struct {
	Name    string   `yaml:"name"`
	Z       int32    `yaml:"z"`
	Opacity *float64 `yaml:"opacity"`
	Hidden  bool     `yaml:"hidden"`
	Buffer  *Buffer  `yaml:"buffer"`
	Windows []Window `yaml:"windows"`
}

// Buffer is a group's dimming layer.
type Buffer struct {
	Color   Color   `yaml:"color"`
	Opacity float64 `yaml:"opacity"`
}

// Window is one window of a group. Its pixels are a solid Fill.
type Window struct {
	Name    string    `yaml:"name"`
	Rect    geom.Rect `yaml:"rect"`
	Opacity *float64  `yaml:"opacity"`
	Hidden  bool      `yaml:"hidden"`
	Cursor  string    `yaml:"cursor"`
	Fill    Color     `yaml:"fill"`
	Alpha   *uint8    `yaml:"alpha"`
	Focused bool      `yaml:"focused"`
}

// Color is written as "#RRGGBB", "0xRRGGBB" or a plain integer.
type Color geom.Color

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)

	var (
		v   uint64
		err error
	)

	switch {
	case strings.HasPrefix(raw, "#"):
		v, err = strconv.ParseUint(raw[1:], 16, 32)
	default:
		v, err = strconv.ParseUint(raw, 0, 32)
	}

	if err != nil || v > geom.MaxRGB {
		return fmt.Errorf("line %d: invalid colour %q", node.Line, node.Value)
	}

	*c = Color(geom.ColorFromRGB(uint32(v)))

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return geom.Color(c).String(), nil
}

func opacityOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}

	return *p
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse decodes and validates a scene document. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	var s Scene

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

// Validate checks the scene can be applied without the service rejecting
// any part of it.
func (s *Scene) Validate() error {
	var errs []error

	for i, g := range s.Groups {
		name := g.label(i)

		if o := opacityOr(g.Opacity, 1); o < 0 || o > 1 {
			errs = append(errs, fmt.Errorf("%s: opacity %v not in [0,1]", name, o))
		}

		if g.Buffer != nil && (g.Buffer.Opacity < 0 || g.Buffer.Opacity > 1) {
			errs = append(errs, fmt.Errorf("%s: buffer opacity %v not in [0,1]", name, g.Buffer.Opacity))
		}

		focused := 0
		for j, w := range g.Windows {
			wname := name + "/" + w.label(j)

			if w.Rect.Empty() {
				errs = append(errs, fmt.Errorf("%s: rect %s has no area", wname, w.Rect))
			}

			if o := opacityOr(w.Opacity, 1); o < 0 || o > 1 {
				errs = append(errs, fmt.Errorf("%s: opacity %v not in [0,1]", wname, o))
			}

			if _, err := cursor.Parse(w.Cursor); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", wname, err))
			}

			if w.Focused {
				focused++
				if w.Hidden {
					errs = append(errs, fmt.Errorf("%s: a hidden window cannot be focused", wname))
				}
			}
		}

		if focused > 1 {
			errs = append(errs, fmt.Errorf("%s: %d windows marked focused", name, focused))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid scene: %w", errors.Join(errs...))
	}

	return nil
}

func (g Group) label(i int) string {
	if g.Name != "" {
		return g.Name
	}

	return fmt.Sprintf("group[%d]", i)
}

func (w Window) label(i int) string {
	if w.Name != "" {
		return w.Name
	}

	return fmt.Sprintf("window[%d]", i)
}
