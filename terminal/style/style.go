package style

import (
	"fmt"

	"github.com/hnimtadd/rowio/terminal/color"
	"github.com/hnimtadd/rowio/terminal/sgr"
	"github.com/hnimtadd/rowio/terminal/utils"
	"github.com/mitchellh/hashstructure/v2"
)

// Style is the text attribute for a cell: the colors plus the SGR flags.
// A row stores one Style per column (run-length compressed), so this is
// a plain value type with equality.
type Style struct {
	// Various colors, self-explanatory
	ForegroundColor Color
	BackgroundColor Color
	UnderlineColor  Color

	Bold          bool
	Italic        bool
	Faint         bool
	Blink         bool
	Inverse       bool
	Invisible     bool
	Strikethrough bool
	Overline      bool
	Underline     sgr.UnderlineType
}

// BG returns the background color for a cell with this style given the
// palette to use.
func (s *Style) BG(palette *color.Palette) *color.RGB {
	switch s.BackgroundColor.Type {
	case ColorTypeNone:
		return nil
	case ColorTypePalette:
		return &palette[s.BackgroundColor.Palette]
	case ColorTypeRGB:
		return &s.BackgroundColor.RGB
	default:
		return nil
	}
}

// FG returns the foreground color for a cell with this style given the
// palette. boldIsBright maps the named colors to their bright variants
// when the style is bold.
func (s *Style) FG(palette *color.Palette, boldIsBright bool) *color.RGB {
	switch s.ForegroundColor.Type {
	case ColorTypeNone:
		return nil
	case ColorTypePalette:
		if boldIsBright && s.Bold {
			brightOffset := color.ColorTypeBrightBlack
			if color.ColorType(s.ForegroundColor.Palette) < brightOffset {
				return &palette[color.ColorType(s.ForegroundColor.Palette)+
					brightOffset]
			}
		}
		return &palette[s.ForegroundColor.Palette]
	case ColorTypeRGB:
		return &s.ForegroundColor.RGB
	default:
		return nil
	}
}

// UColor returns the underline color for this style.
func (s *Style) UColor(palette *color.Palette) *color.RGB {
	switch s.UnderlineColor.Type {
	case ColorTypeNone:
		return nil
	case ColorTypePalette:
		return &palette[s.UnderlineColor.Palette]
	case ColorTypeRGB:
		return &s.UnderlineColor.RGB
	default:
		// we should never get here, but if we do, just return nil
		return nil
	}
}

func (s *Style) Reset() {
	*s = Style{}
}

func (s *Style) IsDefault() bool {
	return *s == Style{}
}

func (s Style) Hash() uint64 {
	hashed, err := hashstructure.Hash(s, hashstructure.FormatV2, nil)
	utils.Assert(err == nil, fmt.Sprintf("failed to hash style: %v", err))
	return hashed
}

func (s Style) Equals(other Style) bool {
	return s == other
}

// The color for an SGR attribute. A color can come from multiple sources
// so we use this to track the source plus color value so that we can properly
// react to things like palette changes.
type Color struct {
	Type    ColorType
	Palette uint8
	RGB     color.RGB
}

func (c Color) String() string {
	switch c.Type {
	case ColorTypeNone:
		return "Color.none"
	case ColorTypePalette:
		return fmt.Sprintf("Color.palette{{ %d }}", c.Palette)
	case ColorTypeRGB:
		return fmt.Sprintf("Color.rgb{{ %d, %d, %d }}", c.RGB.R, c.RGB.G, c.RGB.B)
	default:
		return "Color.unknown"
	}
}

type ColorType int

const (
	ColorTypeNone ColorType = iota
	ColorTypePalette
	ColorTypeRGB
)
