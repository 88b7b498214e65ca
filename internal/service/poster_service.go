package service

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

const maxPreviewZoom = 4

var (
	ErrInvalidPoster = errors.New("invalid poster")
	ErrInvalidZoom   = errors.New("invalid zoom")
)

var (
	posterMetricsOnce    sync.Once
	postersRenderedTotal *prometheus.CounterVec
)

func initPosterMetrics() {
	posterMetricsOnce.Do(func() {
		postersRenderedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rexcart",
			Subsystem: "posters",
			Name:      "rendered_total",
			Help:      "Posters composed, by output format",
		}, []string{"output"})
	})
}

// Viewer is who a poster is rendered for. The plan decides the watermark.
type Viewer struct {
	UserID uint
	Plan   authorization.Plan
}

// BrandSource supplies the branding printed on posters.
type BrandSource interface {
	Brand() poster.Brand
}

type PosterService struct {
	renderer  *poster.Renderer
	brand     BrandSource
	templates *TemplateService
	pdf       PDFExporter
}

// NewPosterService wires the renderer. pdf may be nil when PDF export is
// disabled.
func NewPosterService(brand BrandSource, templates *TemplateService, pdf PDFExporter) *PosterService {
	initPosterMetrics()
	return &PosterService{
		renderer:  poster.NewRenderer(),
		brand:     brand,
		templates: templates,
		pdf:       pdf,
	}
}

// Resolve turns an editor payload into a poster configuration. When the
// payload names a template and carries no background of its own, the
// template's assets and layout are copied in; payload layout entries replace
// the template's entry for the same element.
func (s *PosterService) Resolve(ctx context.Context, userID uint, req models.PosterRequest) (poster.PosterConfig, error) {
	cfg := poster.PosterConfig{
		ProductID:          strings.TrimSpace(req.ProductID),
		ProductName:        validator.SanitizeString(req.ProductName),
		Price:              req.Price,
		OldPrice:           req.OldPrice,
		Unit:               strings.ToUpper(strings.TrimSpace(req.Unit)),
		Description:        validator.SanitizeString(req.Description),
		Campaign:           poster.CampaignType(req.Campaign),
		Size:               poster.PaperSize(req.Size),
		Layout:             LayoutFromRequest(req.Layout),
		BackgroundImageURL: strings.TrimSpace(req.BackgroundImageURL),
		PriceBgURL:         strings.TrimSpace(req.PriceBgURL),
		LogoURL:            strings.TrimSpace(req.LogoURL),
		TemplateID:         strings.TrimSpace(req.TemplateID),
	}

	if !cfg.Size.IsValid() || !cfg.Campaign.IsValid() || cfg.ProductName == "" {
		return poster.PosterConfig{}, ErrInvalidPoster
	}

	if cfg.TemplateID != "" && cfg.BackgroundImageURL == "" && s.templates != nil {
		tpl, err := s.templates.Get(ctx, userID, cfg.TemplateID)
		if err != nil {
			return poster.PosterConfig{}, err
		}
		overrides := cfg.Layout
		cfg = poster.ApplyTemplate(cfg, *tpl)
		cfg.Layout = cfg.Layout.Merge(overrides)
	}

	return cfg, nil
}

func (s *PosterService) options(viewer Viewer, zoom float64) poster.Options {
	return poster.Options{
		Zoom:      zoom,
		Watermark: viewer.Plan.Watermarked(),
		Brand:     s.brand.Brand(),
	}
}

// ValidZoom reports whether zoom is a finite value in (0, maxPreviewZoom].
func ValidZoom(zoom float64) bool {
	return !math.IsNaN(zoom) && !math.IsInf(zoom, 0) && zoom > 0 && zoom <= maxPreviewZoom
}

// Compose lays out one poster for viewer at zoom.
func (s *PosterService) Compose(cfg poster.PosterConfig, viewer Viewer, zoom float64) poster.Poster {
	return s.renderer.Compose(cfg, s.options(viewer, zoom))
}

// PreviewHTML renders one poster as a standalone HTML page.
func (s *PosterService) PreviewHTML(ctx context.Context, viewer Viewer, req models.PosterRequest, zoom float64) ([]byte, error) {
	cfg, err := s.Resolve(ctx, viewer.UserID, req)
	if err != nil {
		return nil, err
	}
	if !ValidZoom(zoom) {
		return nil, ErrInvalidZoom
	}

	var buf bytes.Buffer
	if err := poster.RenderDocument(&buf, s.Compose(cfg, viewer, zoom), cfg.ProductName); err != nil {
		return nil, err
	}
	postersRenderedTotal.WithLabelValues("preview").Inc()
	return buf.Bytes(), nil
}

// SheetHTML renders queue items as the print document, one tile each.
func (s *PosterService) SheetHTML(ctx context.Context, viewer Viewer, items []poster.PrintQueueItem) ([]byte, error) {
	html, sheet, err := s.renderSheet(ctx, viewer, items)
	if err != nil {
		return nil, err
	}
	postersRenderedTotal.WithLabelValues("html").Add(float64(len(sheet.Tiles)))
	return html, nil
}

// SheetPDF is SheetHTML printed to PDF.
func (s *PosterService) SheetPDF(ctx context.Context, viewer Viewer, items []poster.PrintQueueItem) ([]byte, error) {
	if s.pdf == nil {
		return nil, ErrPDFDisabled
	}

	html, sheet, err := s.renderSheet(ctx, viewer, items)
	if err != nil {
		return nil, err
	}

	pdf, err := s.pdf.Export(ctx, string(html), sheet.PageDimensions())
	if err != nil {
		return nil, err
	}
	postersRenderedTotal.WithLabelValues("pdf").Add(float64(len(sheet.Tiles)))
	return pdf, nil
}

func (s *PosterService) renderSheet(ctx context.Context, viewer Viewer, items []poster.PrintQueueItem) ([]byte, poster.Sheet, error) {
	sheet := poster.BuildQueueSheet(validItems(ctx, items))

	var buf bytes.Buffer
	if err := poster.RenderSheetHTML(&buf, sheet, s.renderer, s.options(viewer, 1)); err != nil {
		return nil, sheet, err
	}
	return buf.Bytes(), sheet, nil
}

// validItems drops stored items whose paper size is no longer known, since
// composing them would panic.
func validItems(ctx context.Context, items []poster.PrintQueueItem) []poster.PrintQueueItem {
	valid := make([]poster.PrintQueueItem, 0, len(items))
	for _, item := range items {
		if !item.Size.IsValid() {
			logger.FromContext(ctx).WithField("poster_id", item.ID).Warn("Skipping poster with unknown paper size")
			continue
		}
		valid = append(valid, item)
	}
	return valid
}
