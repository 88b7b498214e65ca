package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
)

var ErrPDFDisabled = errors.New("pdf export is disabled")

const waitForAssets = `Promise.all([
	document.fonts.ready,
	...Array.from(document.images).map(img => img.complete ? null : new Promise(resolve => {
		const done = () => resolve(null);
		setTimeout(done, 5000);
		img.onload = done;
		img.onerror = done;
	}))
]).then(() => true)`

// PDFExporter prints an HTML document through headless Chrome.
type PDFExporter interface {
	Export(ctx context.Context, html string, paper poster.Dimensions) ([]byte, error)
}

type ChromePDFExporter struct {
	execPath string
	timeout  time.Duration
}

func NewChromePDFExporter(execPath string) *ChromePDFExporter {
	return &ChromePDFExporter{execPath: execPath, timeout: 60 * time.Second}
}

// Export loads html into a blank tab and prints it with the page size the
// document's @page rule asks for; paper is the fallback.
func (e *ChromePDFExporter) Export(ctx context.Context, html string, paper poster.Dimensions) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForAssets, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(poster.MmToInches(paper.WidthMm)).
				WithPaperHeight(poster.MmToInches(paper.HeightMm)).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdf, nil
}
