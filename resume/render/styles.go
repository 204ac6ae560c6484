package render

import "strings"

// RGB is a color in 0-255 components as fpdf expects.
type RGB struct{ R, G, B int }

// TextStyle captures the font settings for one kind of text.
type TextStyle struct {
	Family string
	Style  string // fpdf style string: "", "B", "I", "BI"
	Size   float64
}

// Palette colors a document. Primary draws headings and bands; Accent draws rules and
// secondary text; Text is body copy.
type Palette struct {
	Primary RGB
	Accent  RGB
	Text    RGB
	Muted   RGB
	Light   RGB
}

// DefaultColor is used whenever no scheme was chosen.
const DefaultColor = "blue"

// ColorChoices lists the schemes in the order they are offered to the user.
var ColorChoices = []string{"blue", "green", "red", "purple", "orange", "navy"}

var palettes = map[string]Palette{
	"blue":   {Primary: RGB{52, 152, 219}, Accent: RGB{41, 128, 185}, Text: RGB{44, 62, 80}, Muted: RGB{127, 140, 141}, Light: RGB{235, 245, 251}},
	"green":  {Primary: RGB{39, 174, 96}, Accent: RGB{30, 132, 73}, Text: RGB{44, 62, 80}, Muted: RGB{127, 140, 141}, Light: RGB{233, 247, 239}},
	"red":    {Primary: RGB{231, 76, 60}, Accent: RGB{192, 57, 43}, Text: RGB{44, 62, 80}, Muted: RGB{127, 140, 141}, Light: RGB{253, 237, 236}},
	"purple": {Primary: RGB{142, 68, 173}, Accent: RGB{108, 52, 131}, Text: RGB{44, 62, 80}, Muted: RGB{127, 140, 141}, Light: RGB{244, 236, 247}},
	"orange": {Primary: RGB{243, 156, 18}, Accent: RGB{211, 84, 0}, Text: RGB{44, 62, 80}, Muted: RGB{127, 140, 141}, Light: RGB{254, 245, 231}},
	"navy":   {Primary: RGB{44, 62, 80}, Accent: RGB{52, 73, 94}, Text: RGB{33, 33, 33}, Muted: RGB{127, 140, 141}, Light: RGB{234, 236, 238}},
}

// PaletteFor returns the palette named by scheme, falling back to DefaultColor.
func PaletteFor(scheme string) Palette {
	if p, ok := palettes[strings.ToLower(strings.TrimSpace(scheme))]; ok {
		return p
	}
	return palettes[DefaultColor]
}

// IsColor reports whether scheme names a known palette.
func IsColor(scheme string) bool {
	_, ok := palettes[scheme]
	return ok
}

var (
	nameStyle    = TextStyle{Family: "Helvetica", Style: "B", Size: 22}
	headingStyle = TextStyle{Family: "Helvetica", Style: "B", Size: 12}
	titleStyle   = TextStyle{Family: "Helvetica", Style: "B", Size: 11}
	orgStyle     = TextStyle{Family: "Helvetica", Style: "I", Size: 10}
	metaStyle    = TextStyle{Family: "Helvetica", Style: "", Size: 9}
	bodyStyle    = TextStyle{Family: "Helvetica", Style: "", Size: 10}
)
