package colorize

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/occugraph/pkg/errors"
)

// RGB is an opaque color triplet.
type RGB struct {
	R, G, B uint8
}

// Black is the base color of incoming-weight coloring.
var Black = RGB{}

// String returns the triplet as "r,g,b".
func (c RGB) String() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// RGBA renders the color with the given opacity, e.g. "rgba(50,50,200,0.5)".
func (c RGB) RGBA(opacity float64) string {
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, FormatOpacity(opacity))
}

// FormatOpacity prints the shortest decimal form of o that still carries a
// fractional digit: 1 → "1.0", 0.3 → "0.3".
func FormatOpacity(o float64) string {
	s := strconv.FormatFloat(o, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ParseRGB parses a "r,g,b" triplet with components in 0..255.
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, errors.New(errors.ErrCodeInvalidConfig, "color %q must have three components", s)
	}
	var out [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return RGB{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "color %q component %d", s, i)
		}
		out[i] = uint8(v)
	}
	return RGB{out[0], out[1], out[2]}, nil
}

// Palette maps a category to its color.
type Palette map[string]RGB

// ParsePalette converts a category → "r,g,b" mapping into a Palette.
func ParsePalette(raw map[string]string) (Palette, error) {
	p := make(Palette, len(raw))
	for _, k := range sortedKeys(raw) {
		c, err := ParseRGB(raw[k])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette entry %q", k)
		}
		p[k] = c
	}
	return p, nil
}

// Strings converts the palette back to its "r,g,b" form.
func (p Palette) Strings() map[string]string {
	out := make(map[string]string, len(p))
	for k, c := range p {
		out[k] = c.String()
	}
	return out
}

// Categories returns the palette keys in sorted order.
func (p Palette) Categories() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Hex renders the color with opacity as a Graphviz-compatible "#rrggbbaa".
func (c RGB) Hex(opacity float64) string {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, uint8(opacity*255+0.5))
}

// ParseRGBA parses a color produced by [RGB.RGBA].
func ParseRGBA(s string) (RGB, float64, error) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(s), "rgba(")
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	if !ok {
		return RGB{}, 0, errors.New(errors.ErrCodeInvalidInput, "color %q is not rgba(...)", s)
	}
	i := strings.LastIndex(inner, ",")
	if i < 0 {
		return RGB{}, 0, errors.New(errors.ErrCodeInvalidInput, "color %q has no opacity", s)
	}
	rgb, err := ParseRGB(inner[:i])
	if err != nil {
		return RGB{}, 0, err
	}
	opacity, err := strconv.ParseFloat(strings.TrimSpace(inner[i+1:]), 64)
	if err != nil {
		return RGB{}, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "color %q opacity", s)
	}
	return rgb, opacity, nil
}
