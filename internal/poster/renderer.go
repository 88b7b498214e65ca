// Package poster composes price-tag posters from a PosterConfig. Composition
// is pure: paper geometry, campaign styles and brand settings are looked up
// from fixed tables or passed in through Options, never read from globals.
package poster

import (
	"math"
	"sort"
	"strings"
)

// DesignWidthPx is the reference width every poster is composed at. Layout
// offsets are expressed in pixels of this surface; zoom is applied on top.
const DesignWidthPx = 400.0

const (
	footerCodeLength     = 6
	templateTextColor    = "#0F172A"
	headerTextColor      = "#FFFFFF"
	defaultBrandName     = "RexCart"
	defaultWatermarkText = "Criado com RexCart"
)

type Mode string

const (
	ModeStandard Mode = "standard"
	ModeTemplate Mode = "template"
)

type LayerKind string

const (
	LayerBackgroundImage LayerKind = "background-image"
	LayerPriceBgImage    LayerKind = "price-bg-image"
	LayerHeader          LayerKind = "header"
	LayerProductName     LayerKind = "product-name"
	LayerDescription     LayerKind = "description"
	LayerPrice           LayerKind = "price"
	LayerFooter          LayerKind = "footer"
	LayerLogoImage       LayerKind = "logo-image"
	LayerWatermark       LayerKind = "watermark"
)

// Stacking order, bottom to top. Not configurable per poster.
const (
	ZBackground = 0
	ZPriceBg    = 10
	ZContent    = 20
	ZLogo       = 30
	ZOverlay    = 40
)

type Placement string

const (
	PlacementFlow         Placement = "flow"
	PlacementCover        Placement = "cover"
	PlacementCenter       Placement = "center"
	PlacementBottomRight  Placement = "bottom-right"
	PlacementBottomAnchor Placement = "bottom"
)

type Layer struct {
	Kind       LayerKind   `json:"kind"`
	Key        ElementKey  `json:"key,omitempty"`
	Z          int         `json:"z"`
	Placement  Placement   `json:"placement"`
	Text       string      `json:"text,omitempty"`
	Secondary  string      `json:"secondary,omitempty"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	Color      string      `json:"color,omitempty"`
	Background string      `json:"background,omitempty"`
	Transform  Transform   `json:"transform"`
	Price      *PriceBlock `json:"price,omitempty"`
	Decoration string      `json:"decoration,omitempty"`
}

type Poster struct {
	ID          string        `json:"id"`
	Size        PaperSize     `json:"size"`
	Mode        Mode          `json:"mode"`
	Dimensions  Dimensions    `json:"dimensions"`
	WidthPx     float64       `json:"widthPx"`
	HeightPx    float64       `json:"heightPx"`
	AspectRatio string        `json:"aspectRatio"`
	Zoom        float64       `json:"zoom"`
	Style       CampaignStyle `json:"style"`
	Layers      []Layer       `json:"layers"`
}

// Brand carries the site settings the poster shows.
type Brand struct {
	Name          string `json:"name"`
	WatermarkText string `json:"watermarkText"`
}

func DefaultBrand() Brand {
	return Brand{Name: defaultBrandName, WatermarkText: defaultWatermarkText}
}

// Options are the caller-supplied inputs besides the poster itself.
// Watermark is resolved by the caller from the subscription plan.
type Options struct {
	Zoom      float64
	Watermark bool
	Brand     Brand
}

type Renderer struct {
	designWidth float64
}

func NewRenderer() *Renderer {
	return &Renderer{designWidth: DesignWidthPx}
}

// Compose builds the layered poster for cfg. An unknown paper size panics,
// see DimensionsOf.
func (r *Renderer) Compose(cfg PosterConfig, opts Options) Poster {
	dims := DimensionsOf(cfg.Size)

	zoom := opts.Zoom
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	brand := opts.Brand
	if strings.TrimSpace(brand.Name) == "" {
		brand.Name = defaultBrandName
	}
	if strings.TrimSpace(brand.WatermarkText) == "" {
		brand.WatermarkText = defaultWatermarkText
	}

	width := r.designWidth
	if width <= 0 {
		width = DesignWidthPx
	}

	p := Poster{
		ID:          cfg.ID,
		Size:        cfg.Size,
		Dimensions:  dims,
		WidthPx:     width,
		HeightPx:    width / dims.Ratio(),
		AspectRatio: dims.AspectRatio(),
		Zoom:        zoom,
	}

	if cfg.UsesTemplate() {
		p.Mode = ModeTemplate
		p.Layers = composeTemplate(cfg)
	} else {
		p.Mode = ModeStandard
		p.Style = StyleOf(cfg.Campaign)
		p.Layers = composeStandard(cfg, p.Style, brand)
	}

	if opts.Watermark {
		p.Layers = append(p.Layers, Layer{
			Kind:      LayerWatermark,
			Z:         ZOverlay,
			Placement: PlacementBottomRight,
			Text:      brand.WatermarkText,
			Transform: Identity(),
		})
	}

	sort.SliceStable(p.Layers, func(i, j int) bool {
		return p.Layers[i].Z < p.Layers[j].Z
	})

	return p
}

func composeStandard(cfg PosterConfig, style CampaignStyle, brand Brand) []Layer {
	layout := cfg.Layout
	layers := make([]Layer, 0, 6)

	header := Layer{
		Kind:       LayerHeader,
		Z:          ZContent,
		Placement:  PlacementFlow,
		Text:       style.Label,
		Color:      headerTextColor,
		Background: style.Accent,
		Transform:  Identity(),
	}
	if cfg.Campaign == CampaignOffer {
		header.Decoration = "curve"
	}
	layers = append(layers, header)

	if layout.Visible(ElementProductName) {
		layers = append(layers, Layer{
			Kind:      LayerProductName,
			Key:       ElementProductName,
			Z:         ZContent,
			Placement: PlacementFlow,
			Text:      cfg.ProductName,
			Color:     layout.ColorFor(ElementProductName, style.Text),
			Transform: layout.Transform(ElementProductName),
		})
	}

	if cfg.Description != "" && layout.Visible(ElementDescription) {
		layers = append(layers, Layer{
			Kind:      LayerDescription,
			Key:       ElementDescription,
			Z:         ZContent,
			Placement: PlacementFlow,
			Text:      cfg.Description,
			Color:     layout.ColorFor(ElementDescription, style.Text),
			Transform: layout.Transform(ElementDescription),
		})
	}

	if layout.Visible(ElementPrice) {
		block := NewPriceBlock(cfg.Price, cfg.OldPrice, cfg.Unit)
		layers = append(layers, Layer{
			Kind:      LayerPrice,
			Key:       ElementPrice,
			Z:         ZContent,
			Placement: PlacementBottomAnchor,
			Text:      block.Text(),
			Color:     layout.ColorFor(ElementPrice, style.Text),
			Transform: layout.Transform(ElementPrice),
			Price:     &block,
		})
	}

	layers = append(layers, Layer{
		Kind:      LayerFooter,
		Z:         ZContent,
		Placement: PlacementFlow,
		Text:      "CÓD DO PRODUTO: " + truncateRunes(cfg.ProductID, footerCodeLength),
		Secondary: brand.Name,
		Color:     style.Text,
		Transform: Identity(),
	})

	return layers
}

func composeTemplate(cfg PosterConfig) []Layer {
	layout := cfg.Layout
	layers := make([]Layer, 0, 6)

	layers = append(layers, Layer{
		Kind:      LayerBackgroundImage,
		Z:         ZBackground,
		Placement: PlacementCover,
		ImageURL:  cfg.BackgroundImageURL,
		Transform: Identity(),
	})

	if cfg.LogoURL != "" && layout.Visible(ElementLogo) {
		layers = append(layers, Layer{
			Kind:      LayerLogoImage,
			Key:       ElementLogo,
			Z:         ZLogo,
			Placement: PlacementCover,
			ImageURL:  cfg.LogoURL,
			Transform: layout.Transform(ElementLogo),
		})
	}

	if cfg.PriceBgURL != "" && layout.Visible(ElementPriceBg) {
		layers = append(layers, Layer{
			Kind:      LayerPriceBgImage,
			Key:       ElementPriceBg,
			Z:         ZPriceBg,
			Placement: PlacementCover,
			ImageURL:  cfg.PriceBgURL,
			Transform: layout.Transform(ElementPriceBg),
		})
	}

	if layout.Visible(ElementProductName) {
		layers = append(layers, Layer{
			Kind:      LayerProductName,
			Key:       ElementProductName,
			Z:         ZContent,
			Placement: PlacementCenter,
			Text:      cfg.ProductName,
			Color:     layout.ColorFor(ElementProductName, templateTextColor),
			Transform: layout.Transform(ElementProductName),
		})
	}

	if cfg.Description != "" && layout.Visible(ElementDescription) {
		layers = append(layers, Layer{
			Kind:      LayerDescription,
			Key:       ElementDescription,
			Z:         ZContent,
			Placement: PlacementCenter,
			Text:      cfg.Description,
			Color:     layout.ColorFor(ElementDescription, templateTextColor),
			Transform: layout.Transform(ElementDescription),
		})
	}

	if layout.Visible(ElementPrice) {
		block := NewPriceBlock(cfg.Price, cfg.OldPrice, cfg.Unit)
		layers = append(layers, Layer{
			Kind:      LayerPrice,
			Key:       ElementPrice,
			Z:         ZContent,
			Placement: PlacementCenter,
			Text:      block.Text(),
			Color:     layout.ColorFor(ElementPrice, templateTextColor),
			Transform: layout.Transform(ElementPrice),
			Price:     &block,
		})
	}

	return layers
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
