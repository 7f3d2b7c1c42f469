package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// HSL is a hue/saturation/lightness triple. H is in degrees [0, 360);
// S and L are fractions in [0, 1].
type HSL struct {
	H float64
	S float64
	L float64
}

// String renders the triple as a style parameter value, e.g. "174 84% 26%".
func (c HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%",
		int(math.Round(c.H)),
		int(math.Round(c.S*100)),
		int(math.Round(c.L*100)))
}

// HexToHSL converts a #RRGGBB color to HSL using the standard colorimetric
// formula. Ties between maximal channels break in red, green, blue order.
func HexToHSL(hex string) (HSL, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return HSL{}, fmt.Errorf("%w: %q", domain.ErrInvalidHexColor, hex)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return HSL{}, fmt.Errorf("%w: %q", domain.ErrInvalidHexColor, hex)
	}

	r := float64(value>>16&0xff) / 255
	g := float64(value>>8&0xff) / 255
	b := float64(value&0xff) / 255

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2

	if max == min {
		return HSL{H: 0, S: 0, L: l}, nil
	}

	d := max - min
	var s float64
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	var h float64
	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	case b:
		h = (r-g)/d + 4
	}
	h *= 60

	return HSL{H: h, S: s, L: l}, nil
}

// Hex converts the triple back to a #rrggbb color (standard inverse).
func (c HSL) Hex() string {
	if c.S == 0 {
		v := channelByte(c.L)
		return fmt.Sprintf("#%02x%02x%02x", v, v, v)
	}

	var q float64
	if c.L < 0.5 {
		q = c.L * (1 + c.S)
	} else {
		q = c.L + c.S - c.L*c.S
	}
	p := 2*c.L - q
	h := c.H / 360

	r := hueToChannel(p, q, h+1.0/3)
	g := hueToChannel(p, q, h)
	b := hueToChannel(p, q, h-1.0/3)
	return fmt.Sprintf("#%02x%02x%02x", channelByte(r), channelByte(g), channelByte(b))
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func channelByte(v float64) int {
	b := int(math.Round(v * 255))
	if b < 0 {
		return 0
	}
	if b > 255 {
		return 255
	}
	return b
}
