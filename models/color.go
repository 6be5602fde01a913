package models

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor reads #RGB, #RRGGBB, #RRGGBBAA or a CSS color name.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.RGBA{}, false
	}
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[s]
		return c, ok
	}

	hex := s[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return color.RGBA{}, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	a := uint8(v)
	r, g, b := uint8(v>>24), uint8(v>>16), uint8(v>>8)
	// color.RGBA is alpha-premultiplied.
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 0xff),
		G: uint8(uint16(g) * uint16(a) / 0xff),
		B: uint8(uint16(b) * uint16(a) / 0xff),
		A: a,
	}, true
}
