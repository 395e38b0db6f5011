package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// basicColors are the CSS level 1 color keywords.
var basicColors = map[string]color.RGBA{
	"black":   {0, 0, 0, 0xff},
	"silver":  {0xc0, 0xc0, 0xc0, 0xff},
	"gray":    {0x80, 0x80, 0x80, 0xff},
	"grey":    {0x80, 0x80, 0x80, 0xff},
	"white":   {0xff, 0xff, 0xff, 0xff},
	"maroon":  {0x80, 0, 0, 0xff},
	"red":     {0xff, 0, 0, 0xff},
	"purple":  {0x80, 0, 0x80, 0xff},
	"fuchsia": {0xff, 0, 0xff, 0xff},
	"green":   {0, 0x80, 0, 0xff},
	"lime":    {0, 0xff, 0, 0xff},
	"olive":   {0x80, 0x80, 0, 0xff},
	"yellow":  {0xff, 0xff, 0, 0xff},
	"navy":    {0, 0, 0x80, 0xff},
	"blue":    {0, 0, 0xff, 0xff},
	"teal":    {0, 0x80, 0x80, 0xff},
	"aqua":    {0, 0xff, 0xff, 0xff},
}

// Color interprets a property as a color value. Recognized are the basic
// color keywords, 'transparent' and hex notations #rgb and #rrggbb.
func (p Property) Color() (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(string(p)))
	if c, ok := basicColors[v]; ok {
		return c, nil
	}
	if v == "transparent" {
		return color.Transparent, nil
	}
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			if rgb, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 0xff}, nil
			}
		}
	}
	return nil, fmt.Errorf("not recognized as a color: %q", v)
}

// ColorString returns a hex notation for c, suitable for a property value.
func ColorString(c color.Color) string {
	if c == nil {
		return "transparent"
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "transparent"
	}
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
