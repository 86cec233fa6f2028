package export

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
)

// A4 portrait geometry.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
	// MillimetersPerPixel converts CSS pixels (96 dpi) to millimeters.
	MillimetersPerPixel = 0.264583
)

// Image is a rasterized preview.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// Rasterizer turns rendered preview HTML into a PNG.
type Rasterizer interface {
	Rasterize(ctx context.Context, html string) (Image, error)
}

// Placement is where an image lands on the page, in millimeters.
type Placement struct {
	X, Y          float64
	Width, Height float64
}

// FitPage scales a widthPx x heightPx image to fit an A4 page inside a
// uniform margin, keeping its aspect ratio. The image is centered
// horizontally and starts at the top margin.
func FitPage(widthPx, heightPx int, marginMM float64) (Placement, error) {
	if widthPx <= 0 || heightPx <= 0 {
		return Placement{}, fmt.Errorf("%w: %dx%d", ErrInvalidImage, widthPx, heightPx)
	}
	wMM := float64(widthPx) * MillimetersPerPixel
	hMM := float64(heightPx) * MillimetersPerPixel
	scale := math.Min((PageWidthMM-2*marginMM)/wMM, (PageHeightMM-2*marginMM)/hMM)

	w := wMM * scale
	h := hMM * scale
	return Placement{
		X:      (PageWidthMM - w) / 2,
		Y:      marginMM,
		Width:  w,
		Height: h,
	}, nil
}

// SnapshotGenerator rasterizes the HTML preview and places the picture on a
// single A4 page.
type SnapshotGenerator struct {
	renderer   render.Renderer
	rasterizer Rasterizer
}

func NewSnapshotGenerator(renderer render.Renderer, rasterizer Rasterizer) *SnapshotGenerator {
	return &SnapshotGenerator{renderer: renderer, rasterizer: rasterizer}
}

func (g *SnapshotGenerator) Generate(ctx context.Context, job Job) ([]byte, error) {
	if g.rasterizer == nil {
		return nil, ErrNoRasterizer
	}

	html, err := g.renderer.RenderHTML(render.RenderInput{
		Invoice: job.Invoice,
		Footer:  job.Settings.FooterText,
	})
	if err != nil {
		return nil, fmt.Errorf("render preview: %w", err)
	}

	img, err := g.rasterizer.Rasterize(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("rasterize preview: %w", err)
	}

	place, err := FitPage(img.Width, img.Height, job.Settings.MarginMM)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(job.Settings.MarginMM, job.Settings.MarginMM, job.Settings.MarginMM)
	pdf.SetAutoPageBreak(false, job.Settings.MarginMM)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("preview", opts, bytes.NewReader(img.PNG))
	pdf.ImageOptions("preview", place.X, place.Y, place.Width, place.Height, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return buf.Bytes(), nil
}
