package analytics

// Palette is cycled by emission order to colour distribution slices and rankings
var Palette = [8]string{
	"hsl(162, 72%, 52%)",
	"hsl(264, 67%, 55%)",
	"hsl(85, 55%, 55%)",
	"hsl(45, 93%, 58%)",
	"hsl(199, 89%, 50%)",
	"hsl(0, 72%, 55%)",
	"hsl(280, 65%, 60%)",
	"hsl(120, 50%, 50%)",
}

// Named colours used for fixed series
const (
	ColorPrimary   = "hsl(162, 72%, 52%)"
	ColorSecondary = "hsl(264, 67%, 55%)"
	ColorAccent    = "hsl(85, 55%, 55%)"
	ColorWarning   = "hsl(45, 93%, 58%)"
	ColorInfo      = "hsl(199, 89%, 50%)"
)

// PaletteColor returns the colour for the i-th emitted item
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}
