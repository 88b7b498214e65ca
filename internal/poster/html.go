package poster

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/revinhocontact-cloud/rxcartcart/pkg/utils"
)

const baseStylesheet = `
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:Inter,Arial,Helvetica,sans-serif;-webkit-print-color-adjust:exact;print-color-adjust:exact}
.rx-frame{position:relative;overflow:hidden}
.rx-poster{position:relative;overflow:hidden;font-size:16px;transform-origin:0 0;border-style:solid;border-width:4px}
.rx-standard{display:flex;flex-direction:column}
.rx-template{border-width:0;background:#FFFFFF}
.rx-layer{z-index:auto}
.rx-header{padding:.6em 1em;text-align:center;font-size:1.6em;font-weight:900;text-transform:uppercase;letter-spacing:.04em}
.rx-header.rx-curve{border-bottom-left-radius:50% 1.2em;border-bottom-right-radius:50% 1.2em;padding-bottom:1em}
.rx-product-name{padding:.4em .8em 0;text-align:center;font-size:2.2em;font-weight:800;line-height:1.1;text-transform:uppercase;display:-webkit-box;-webkit-line-clamp:3;-webkit-box-orient:vertical;overflow:hidden}
.rx-description{padding:.3em 1.2em 0;text-align:center;font-size:1em;line-height:1.3}
.rx-price{margin-top:auto;padding:0 .8em;text-align:center;font-weight:900;line-height:1}
.rx-old-price{font-size:1.1em;font-weight:600;opacity:.8}
.rx-discount{margin-left:.3em;font-size:.9em}
.rx-price-main{display:flex;align-items:flex-start;justify-content:center}
.rx-currency{font-size:1.6em;margin-top:.6em;margin-right:.15em}
.rx-integer{font-size:6em;letter-spacing:-.04em}
.rx-cents{font-size:2.6em;margin-top:.2em}
.rx-unit{font-size:1.2em;align-self:flex-end;margin-bottom:1em;margin-left:.3em}
.rx-footer{display:flex;justify-content:space-between;padding:.6em 1em;font-size:.75em;font-weight:700;text-transform:uppercase}
.rx-at-cover{position:absolute;top:0;left:0;width:100%;height:100%}
.rx-background-image{object-fit:cover}
.rx-price-bg-image,.rx-logo-image{object-fit:contain}
.rx-template .rx-at-center{position:absolute;left:0;width:100%;margin:0}
.rx-template .rx-product-name{top:30%}
.rx-template .rx-description{top:45%}
.rx-template .rx-price{top:55%}
.rx-watermark{position:absolute;right:.6em;bottom:.6em;padding:.2em .5em;font-size:.7em;font-weight:700;color:#0F172A;background:rgba(255,255,255,.8);border-radius:.3em}
.rx-sheet{display:flex;flex-wrap:wrap;align-content:flex-start}
.print-item{overflow:hidden;break-inside:avoid;page-break-inside:avoid}
`

const posterTemplates = `
{{define "poster"}}<div class="rx-frame" style="{{.FrameStyle}}"><div class="rx-poster rx-{{.Mode}}" data-poster-id="{{.ID}}" data-size="{{.Size}}" style="{{.Style}}">{{range .Layers}}{{template "layer" .}}{{end}}</div></div>{{end}}

{{define "layer"}}{{if .IsImage}}{{if .Image}}<img class="rx-layer rx-{{.Kind}} rx-at-{{.Placement}}" src="{{.Image}}" alt="" style="{{.Style}}">{{end}}{{else if .Price}}<div class="rx-layer rx-price rx-at-{{.Placement}}" style="{{.Style}}">{{with .Price}}{{if .ShowOldPrice}}<div class="rx-old-price"><s>{{.OldPriceLabel}}</s>{{if .DiscountPercent}}<span class="rx-discount">-{{.DiscountPercent}}%</span>{{end}}</div>{{end}}<div class="rx-price-main"><span class="rx-currency">{{.Currency}}</span><span class="rx-integer">{{.Integer}}</span>{{if .Cents}}<span class="rx-cents">{{.Separator}}{{.Cents}}</span>{{end}}{{if .Unit}}<span class="rx-unit">{{.Unit}}</span>{{end}}</div>{{end}}</div>{{else}}<div class="rx-layer rx-{{.Kind}} rx-at-{{.Placement}}{{if .Decoration}} rx-{{.Decoration}}{{end}}" style="{{.Style}}">{{if .Secondary}}<span>{{.Text}}</span><span class="rx-secondary">{{.Secondary}}</span>{{else}}{{.Text}}{{end}}</div>{{end}}{{end}}

{{define "document"}}<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{default "RexCart" .Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body>{{range .Tiles}}<div class="print-item" style="{{.Style}}">{{template "poster" .Poster}}</div>{{end}}</body>
</html>{{end}}

{{define "sheet"}}<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{default "RexCart" .Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body><div class="rx-sheet">{{range .Tiles}}<div class="print-item" style="{{.Style}}">{{template "poster" .Poster}}</div>{{end}}</div></body>
</html>{{end}}
`

var htmlTemplates = template.Must(template.New("poster-html").Funcs(utils.GetTemplateFuncs()).Parse(posterTemplates))

type layerView struct {
	Kind       string
	Placement  string
	Text       string
	Secondary  string
	Decoration string
	IsImage    bool
	Image      template.URL
	Price      *PriceBlock
	Style      template.CSS
}

type posterView struct {
	ID         string
	Size       string
	Mode       string
	FrameStyle template.CSS
	Style      template.CSS
	Layers     []layerView
}

type tileView struct {
	Style  template.CSS
	Poster posterView
}

type documentView struct {
	Title      string
	Stylesheet template.CSS
	Tiles      []tileView
}

// RenderHTML writes p as a self-contained HTML fragment. Styles are inline;
// the fragment expects the classes from Stylesheet.
func RenderHTML(w io.Writer, p Poster) error {
	if err := htmlTemplates.ExecuteTemplate(w, "poster", newPosterView(p)); err != nil {
		return fmt.Errorf("render poster: %w", err)
	}
	return nil
}

// RenderDocument writes a full HTML page holding a single poster, with the
// page sized to the poster's paper.
func RenderDocument(w io.Writer, p Poster, title string) error {
	view := documentView{
		Title:      title,
		Stylesheet: Stylesheet(p.Dimensions),
		Tiles: []tileView{{
			Style:  tileStyle(p.Dimensions),
			Poster: newPosterView(p),
		}},
	}
	if err := htmlTemplates.ExecuteTemplate(w, "document", view); err != nil {
		return fmt.Errorf("render poster document: %w", err)
	}
	return nil
}

// RenderSheetHTML composes every tile at the zoom that fills its paper width
// and writes the print document.
func RenderSheetHTML(w io.Writer, sheet Sheet, r *Renderer, opts Options) error {
	if r == nil {
		r = NewRenderer()
	}

	view := documentView{
		Title:      "Impressão",
		Stylesheet: Stylesheet(sheet.PageDimensions()),
		Tiles:      make([]tileView, 0, len(sheet.Tiles)),
	}
	for _, tile := range sheet.Tiles {
		tileOpts := opts
		tileOpts.Zoom = FitZoom(tile.WidthMm)
		p := r.Compose(tile.Config, tileOpts)
		view.Tiles = append(view.Tiles, tileView{
			Style:  tileStyle(Dimensions{WidthMm: tile.WidthMm, HeightMm: tile.HeightMm}),
			Poster: newPosterView(p),
		})
	}

	if err := htmlTemplates.ExecuteTemplate(w, "sheet", view); err != nil {
		return fmt.Errorf("render print sheet: %w", err)
	}
	return nil
}

// Stylesheet is the shared poster CSS plus an @page rule for page.
func Stylesheet(page Dimensions) template.CSS {
	var b strings.Builder
	b.WriteString("@page{size:")
	b.WriteString(utils.FormatFloat(page.WidthMm))
	b.WriteString("mm ")
	b.WriteString(utils.FormatFloat(page.HeightMm))
	b.WriteString("mm;margin:0}")
	b.WriteString(baseStylesheet)
	return template.CSS(b.String())
}

func tileStyle(d Dimensions) template.CSS {
	return template.CSS("width:" + utils.FormatFloat(d.WidthMm) + "mm;height:" + utils.FormatFloat(d.HeightMm) + "mm")
}

func newPosterView(p Poster) posterView {
	zoom := p.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	frame := cssDecls{}
	frame.add("width", px(p.WidthPx*zoom))
	frame.add("height", px(p.HeightPx*zoom))

	style := cssDecls{}
	style.add("width", px(p.WidthPx))
	style.add("height", px(p.HeightPx))
	style.add("aspect-ratio", p.AspectRatio)
	if zoom != 1 {
		style.add("transform", "scale("+formatNumber(zoom)+")")
	}
	if p.Mode == ModeStandard {
		style.addColor("background-color", p.Style.Background)
		style.addColor("color", p.Style.Text)
		style.addColor("border-color", p.Style.Border)
	}

	layers := make([]layerView, 0, len(p.Layers))
	for _, l := range p.Layers {
		layers = append(layers, newLayerView(l))
	}

	return posterView{
		ID:         p.ID,
		Size:       string(p.Size),
		Mode:       string(p.Mode),
		FrameStyle: frame.css(),
		Style:      style.css(),
		Layers:     layers,
	}
}

func newLayerView(l Layer) layerView {
	view := layerView{
		Kind:       string(l.Kind),
		Placement:  string(l.Placement),
		Text:       l.Text,
		Secondary:  l.Secondary,
		Decoration: l.Decoration,
		Price:      l.Price,
	}

	switch l.Kind {
	case LayerBackgroundImage, LayerPriceBgImage, LayerLogoImage:
		view.IsImage = true
		view.Image = utils.SafeImageURL(l.ImageURL)
	}

	style := cssDecls{}
	style.add("z-index", strconv.Itoa(l.Z))
	if l.Placement != PlacementFlow && l.Placement != PlacementBottomAnchor {
		style.add("position", "absolute")
	} else {
		style.add("position", "relative")
	}
	style.addColor("color", l.Color)
	style.addColor("background-color", l.Background)
	if !l.Transform.IsIdentity() {
		style.add("transform", l.Transform.CSS())
		style.add("transform-origin", "center")
	}
	view.Style = style.css()

	return view
}

type cssDecls []string

func (d *cssDecls) add(property, value string) {
	if value == "" {
		return
	}
	*d = append(*d, property+":"+value)
}

// addColor drops anything that is not a plain hex colour, so user supplied
// overrides cannot inject declarations.
func (d *cssDecls) addColor(property, value string) {
	if !utils.IsHexColor(value) {
		return
	}
	d.add(property, strings.TrimSpace(value))
}

func (d cssDecls) css() template.CSS {
	return template.CSS(strings.Join(d, ";"))
}

func px(v float64) string {
	return formatNumber(v) + "px"
}
