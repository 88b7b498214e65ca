package poster

import (
	"fmt"
	"strconv"
)

type PaperSize string

const (
	PaperA3 PaperSize = "A3"
	PaperA4 PaperSize = "A4"
	PaperA5 PaperSize = "A5"
	PaperA6 PaperSize = "A6"
)

// Dimensions is the physical portrait size of a sheet in millimetres.
type Dimensions struct {
	WidthMm  float64 `json:"widthMm"`
	HeightMm float64 `json:"heightMm"`
}

var paperDimensions = map[PaperSize]Dimensions{
	PaperA3: {WidthMm: 297, HeightMm: 420},
	PaperA4: {WidthMm: 210, HeightMm: 297},
	PaperA5: {WidthMm: 148, HeightMm: 210},
	PaperA6: {WidthMm: 105, HeightMm: 148},
}

func PaperSizes() []PaperSize {
	return []PaperSize{PaperA3, PaperA4, PaperA5, PaperA6}
}

func (s PaperSize) IsValid() bool {
	_, ok := paperDimensions[s]
	return ok
}

func (s PaperSize) String() string {
	return string(s)
}

// Lookup returns the dimensions of size and whether the size is known.
func Lookup(size PaperSize) (Dimensions, bool) {
	d, ok := paperDimensions[size]
	return d, ok
}

// DimensionsOf is total over the closed PaperSize set. Any other value is a
// programming error upstream and panics.
func DimensionsOf(size PaperSize) Dimensions {
	d, ok := paperDimensions[size]
	if !ok {
		panic(fmt.Sprintf("poster: unknown paper size %q", string(size)))
	}
	return d
}

func (d Dimensions) Ratio() float64 {
	return d.WidthMm / d.HeightMm
}

// AspectRatio renders the CSS aspect-ratio value, e.g. "210 / 297".
func (d Dimensions) AspectRatio() string {
	return formatNumber(d.WidthMm) + " / " + formatNumber(d.HeightMm)
}

func (d Dimensions) Label() string {
	return formatNumber(d.WidthMm) + " x " + formatNumber(d.HeightMm) + " mm"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
