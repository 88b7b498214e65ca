package poster

const (
	cssPxPerInch = 96.0
	mmPerInch    = 25.4
)

// Tile is one poster wrapped in a box of its exact physical size.
type Tile struct {
	Config     PosterConfig `json:"config"`
	WidthMm    float64      `json:"widthMm"`
	HeightMm   float64      `json:"heightMm"`
	AvoidBreak bool         `json:"avoidBreak"`
}

// Sheet is the print layout: tiles flowed left to right, top to bottom.
type Sheet struct {
	Tiles []Tile  `json:"tiles"`
	GapMm float64 `json:"gapMm"`
}

// BuildSheet maps items to print tiles, one per item, in order. It performs
// no I/O. Every size must be a known PaperSize.
func BuildSheet(items []PosterConfig) Sheet {
	tiles := make([]Tile, 0, len(items))
	for _, item := range items {
		dims := DimensionsOf(item.Size)
		tiles = append(tiles, Tile{
			Config:     item,
			WidthMm:    dims.WidthMm,
			HeightMm:   dims.HeightMm,
			AvoidBreak: true,
		})
	}
	return Sheet{Tiles: tiles, GapMm: 0}
}

// BuildQueueSheet is BuildSheet over queue items. Quantity does not multiply
// tiles; the sheet holds exactly the listed items.
func BuildQueueSheet(items []PrintQueueItem) Sheet {
	configs := make([]PosterConfig, 0, len(items))
	for _, item := range items {
		configs = append(configs, item.PosterConfig)
	}
	return BuildSheet(configs)
}

// MmToPx converts millimetres to CSS pixels.
func MmToPx(mm float64) float64 {
	return mm / mmPerInch * cssPxPerInch
}

// MmToInches is used for print APIs that take paper sizes in inches.
func MmToInches(mm float64) float64 {
	return mm / mmPerInch
}

// FitZoom is the zoom that makes a design-width poster fill widthMm.
func FitZoom(widthMm float64) float64 {
	return MmToPx(widthMm) / DesignWidthPx
}

// PageDimensions is the paper the sheet prints on: large enough for its
// biggest tile, A4 when the sheet is empty.
func (s Sheet) PageDimensions() Dimensions {
	if len(s.Tiles) == 0 {
		return DimensionsOf(PaperA4)
	}
	var page Dimensions
	for _, tile := range s.Tiles {
		if tile.WidthMm > page.WidthMm {
			page.WidthMm = tile.WidthMm
		}
		if tile.HeightMm > page.HeightMm {
			page.HeightMm = tile.HeightMm
		}
	}
	return page
}
