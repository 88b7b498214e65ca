package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
)

type recordingExporter struct {
	html  string
	paper poster.Dimensions
}

func (e *recordingExporter) Export(ctx context.Context, html string, paper poster.Dimensions) ([]byte, error) {
	e.html = html
	e.paper = paper
	return []byte("%PDF-1.4"), nil
}

func queueItem(id string, size poster.PaperSize) poster.PrintQueueItem {
	return poster.PrintQueueItem{
		PosterConfig: poster.PosterConfig{
			ID:          id,
			ProductID:   "prod-" + id,
			ProductName: "Produto " + id,
			Price:       4.5,
			Unit:        "UN",
			Campaign:    poster.CampaignNormal,
			Size:        size,
		},
		Quantity: 3,
	}
}

func TestPreviewWatermarkFollowsPlan(t *testing.T) {
	svc := NewPosterService(staticBrand{poster.Brand{Name: "Mercado Sol", WatermarkText: "Criado com RexCart"}}, nil, nil)
	ctx := context.Background()

	free, err := svc.PreviewHTML(ctx, Viewer{UserID: 1, Plan: authorization.PlanFree}, posterRequest("Arroz"), 1)
	if err != nil {
		t.Fatalf("PreviewHTML returned error: %v", err)
	}
	if !strings.Contains(string(free), "Criado com RexCart") {
		t.Fatalf("free plan preview must carry the watermark")
	}
	if !strings.Contains(string(free), "Mercado Sol") {
		t.Fatalf("preview must carry the configured brand")
	}

	pro, err := svc.PreviewHTML(ctx, Viewer{UserID: 1, Plan: authorization.PlanPro}, posterRequest("Arroz"), 1)
	if err != nil {
		t.Fatalf("PreviewHTML returned error: %v", err)
	}
	if strings.Contains(string(pro), "Criado com RexCart") {
		t.Fatalf("pro plan preview must not carry the watermark")
	}
}

func TestSheetHTMLSkipsUnknownSizes(t *testing.T) {
	svc := NewPosterService(staticBrand{poster.DefaultBrand()}, nil, nil)

	html, err := svc.SheetHTML(context.Background(), Viewer{Plan: authorization.PlanPro}, []poster.PrintQueueItem{
		queueItem("a", poster.PaperA6),
		queueItem("b", poster.PaperSize("B4")),
		queueItem("c", poster.PaperA6),
	})
	if err != nil {
		t.Fatalf("SheetHTML returned error: %v", err)
	}
	if got := strings.Count(string(html), `class="print-item"`); got != 2 {
		t.Fatalf("expected 2 tiles, got %d", got)
	}
	if !strings.Contains(string(html), "@page{size:105mm 148mm;margin:0}") {
		t.Fatalf("expected A6 page rule in sheet")
	}
}

func TestSheetPDF(t *testing.T) {
	disabled := NewPosterService(staticBrand{poster.DefaultBrand()}, nil, nil)
	if _, err := disabled.SheetPDF(context.Background(), Viewer{}, nil); !errors.Is(err, ErrPDFDisabled) {
		t.Fatalf("expected ErrPDFDisabled, got %v", err)
	}

	exporter := &recordingExporter{}
	svc := NewPosterService(staticBrand{poster.DefaultBrand()}, nil, exporter)

	pdf, err := svc.SheetPDF(context.Background(), Viewer{Plan: authorization.PlanEnterprise}, []poster.PrintQueueItem{
		queueItem("a", poster.PaperA5),
		queueItem("b", poster.PaperA4),
	})
	if err != nil {
		t.Fatalf("SheetPDF returned error: %v", err)
	}
	if string(pdf) != "%PDF-1.4" {
		t.Fatalf("unexpected pdf bytes %q", pdf)
	}
	if exporter.paper != poster.DimensionsOf(poster.PaperA4) {
		t.Fatalf("expected the largest tile as paper, got %+v", exporter.paper)
	}
	if strings.Count(exporter.html, `class="print-item"`) != 2 {
		t.Fatalf("quantity must not multiply tiles")
	}
}

func TestPreviewRejectsInvalidZoom(t *testing.T) {
	svc := NewPosterService(staticBrand{poster.Brand{Name: "Mercado Sol"}}, nil, nil)
	ctx := context.Background()
	viewer := Viewer{UserID: 1, Plan: authorization.PlanPro}

	for _, zoom := range []float64{math.NaN(), math.Inf(1), 0, -2, 4.01} {
		html, err := svc.PreviewHTML(ctx, viewer, posterRequest("Arroz"), zoom)
		if !errors.Is(err, ErrInvalidZoom) {
			t.Fatalf("zoom %v: expected ErrInvalidZoom, got %v", zoom, err)
		}
		if len(html) != 0 {
			t.Fatalf("zoom %v: expected no output", zoom)
		}
	}

	html, err := svc.PreviewHTML(ctx, viewer, posterRequest("Arroz"), 4)
	if err != nil || strings.Contains(string(html), "NaN") {
		t.Fatalf("PreviewHTML at max zoom = %v", err)
	}
}
