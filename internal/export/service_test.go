package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallbiznis/invoicemaker/internal/clock"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var exportDay = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

type generatorFunc func(ctx context.Context, job Job) ([]byte, error)

func (f generatorFunc) Generate(ctx context.Context, job Job) ([]byte, error) {
	return f(ctx, job)
}

func staticPDF(context.Context, Job) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}

type mockRasterizer struct {
	mock.Mock
}

func (m *mockRasterizer) Rasterize(ctx context.Context, html string) (Image, error) {
	args := m.Called(ctx, html)
	return args.Get(0).(Image), args.Error(1)
}

func sequentialJobIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("job-%d", n.Add(1))
	}
}

func newTestService(clk clock.Clock, cfg config.ExportConfig, gen Generator, log *zap.Logger) *Service {
	return NewService(Options{
		Clock:      clk,
		Settings:   config.NewStaticExportConfigHolder(cfg),
		Generators: map[string]Generator{cfg.Generator: gen},
		NewJobID:   sequentialJobIDs(),
		Log:        log,
	})
}

func testInvoice() domain.InvoiceData {
	inv := domain.DefaultInvoice(exportDay)
	inv.InvoiceNumber = "INV-7"
	inv.Items = []domain.InvoiceItem{{ID: "a", Description: "Design", Quantity: 2, Rate: 50}}
	return inv
}

func noDelay() config.ExportConfig {
	cfg := config.DefaultExportConfig()
	cfg.SettleDelay = 0
	return cfg
}

func TestExportProducesNamedPDF(t *testing.T) {
	svc := newTestService(clock.NewFakeClock(exportDay), noDelay(), generatorFunc(staticPDF), nil)

	res, err := svc.Export(context.Background(), testInvoice())
	require.NoError(t, err)
	assert.Equal(t, Result{
		JobID:       "job-1",
		FileName:    "Invoice-INV-7-2024-01-15.pdf",
		ContentType: ContentTypePDF,
		Content:     []byte("%PDF-fake"),
	}, res)

	inv := testInvoice()
	inv.InvoiceNumber = ""
	res, err = svc.Export(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, "Invoice-001-2024-01-15.pdf", res.FileName)
}

func TestExportWaitsForSettleDelayAndRejectsConcurrentExport(t *testing.T) {
	clk := clock.NewFakeClock(exportDay)
	svc := newTestService(clk, config.DefaultExportConfig(), generatorFunc(staticPDF), nil)

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := svc.Export(context.Background(), testInvoice())
		done <- outcome{res, err}
	}()

	require.Eventually(t, func() bool { return clk.Waiters() == 1 }, time.Second, time.Millisecond)
	assert.True(t, svc.Status().InProgress)

	_, err := svc.Export(context.Background(), testInvoice())
	assert.ErrorIs(t, err, ErrExportInProgress)

	clk.Advance(299 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("export finished before the settle delay")
	case <-time.After(20 * time.Millisecond):
	}

	clk.Advance(time.Millisecond)
	got := <-done
	require.NoError(t, got.err)
	assert.Equal(t, "job-1", got.res.JobID)
	assert.False(t, svc.Status().InProgress)
}

func TestExportFailureSetsNoticeAndClearsFlag(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	var calls atomic.Int32
	gen := generatorFunc(func(ctx context.Context, job Job) ([]byte, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return staticPDF(ctx, job)
	})
	svc := newTestService(clock.NewFakeClock(exportDay), noDelay(), gen, zap.New(core))

	_, err := svc.Export(context.Background(), testInvoice())
	require.ErrorIs(t, err, ErrExportFailed)

	status := svc.Status()
	assert.False(t, status.InProgress)
	require.NotNil(t, status.Notice)
	assert.Equal(t, Notice{JobID: "job-1", Message: FailureMessage, At: exportDay}, *status.Notice)

	entries := logs.FilterMessage("export failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "job-1", entries[0].ContextMap()["export_job_id"])

	svc.DismissNotice()
	assert.Nil(t, svc.Status().Notice)

	_, err = svc.Export(context.Background(), testInvoice())
	require.NoError(t, err, "a failed export never blocks the next one")
	assert.Equal(t, int32(2), calls.Load(), "no automatic retry")
}

func TestExportCancelledWhileSettling(t *testing.T) {
	clk := clock.NewFakeClock(exportDay)
	svc := newTestService(clk, config.DefaultExportConfig(), generatorFunc(func(context.Context, Job) ([]byte, error) {
		t.Error("generator must not run")
		return nil, nil
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Export(ctx, testInvoice())
	assert.ErrorIs(t, err, ErrExportFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, svc.Status().InProgress)
}

func TestExportUnknownGenerator(t *testing.T) {
	cfg := noDelay()
	svc := NewService(Options{
		Clock:      clock.NewFakeClock(exportDay),
		Settings:   config.NewStaticExportConfigHolder(cfg),
		Generators: map[string]Generator{},
	})

	_, err := svc.Export(context.Background(), testInvoice())
	assert.ErrorIs(t, err, ErrUnknownGenerator)
}

func TestFitPage(t *testing.T) {
	p, err := FitPage(794, 1123, 10)
	require.NoError(t, err)
	assert.InDelta(t, 190, p.Width, 0.01)
	assert.InDelta(t, 10, p.X, 0.01)
	assert.Equal(t, 10.0, p.Y)
	assert.Less(t, p.Height, 277.0)

	tall, err := FitPage(100, 1000, 10)
	require.NoError(t, err)
	assert.InDelta(t, 277, tall.Height, 0.01)
	assert.InDelta(t, (PageWidthMM-tall.Width)/2, tall.X, 1e-9)
	assert.InDelta(t, tall.Width/tall.Height, 0.1, 1e-9)

	_, err = FitPage(0, 100, 10)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func pngImage(t *testing.T, w, h int) Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return Image{PNG: buf.Bytes(), Width: w, Height: h}
}

func TestSnapshotGenerator(t *testing.T) {
	raster := &mockRasterizer{}
	raster.On("Rasterize", mock.Anything, mock.MatchedBy(func(html string) bool {
		return bytes.Contains([]byte(html), []byte("INV-7"))
	})).Return(pngImage(t, 80, 120), nil).Once()

	gen := NewSnapshotGenerator(render.NewRenderer(), raster)
	out, err := gen.Generate(context.Background(), Job{Invoice: testInvoice(), Settings: config.DefaultExportConfig()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	raster.AssertExpectations(t)
}

func TestSnapshotGeneratorErrors(t *testing.T) {
	job := Job{Invoice: testInvoice(), Settings: config.DefaultExportConfig()}

	_, err := NewSnapshotGenerator(render.NewRenderer(), nil).Generate(context.Background(), job)
	assert.ErrorIs(t, err, ErrNoRasterizer)

	raster := &mockRasterizer{}
	raster.On("Rasterize", mock.Anything, mock.Anything).Return(Image{}, errors.New("chrome crashed")).Once()
	_, err = NewSnapshotGenerator(render.NewRenderer(), raster).Generate(context.Background(), job)
	assert.ErrorContains(t, err, "chrome crashed")

	raster = &mockRasterizer{}
	raster.On("Rasterize", mock.Anything, mock.Anything).Return(Image{PNG: []byte("nope"), Width: 10, Height: 10}, nil).Once()
	_, err = NewSnapshotGenerator(render.NewRenderer(), raster).Generate(context.Background(), job)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestNativeGenerator(t *testing.T) {
	inv := testInvoice()
	inv.Discount = 10
	inv.TaxType = domain.TaxTypeVAT
	inv.TaxRate = 8
	inv.Notes = "Thank you"
	inv.FromAddress = "1 Main St\nSpringfield"

	out, err := NewNativeGenerator().Generate(context.Background(), Job{Invoice: inv, Settings: config.DefaultExportConfig()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestNativeGeneratorWithoutItems(t *testing.T) {
	inv := testInvoice()
	inv.Items = []domain.InvoiceItem{}

	out, err := NewNativeGenerator().Generate(context.Background(), Job{Invoice: inv, Settings: config.DefaultExportConfig()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestCommandRasterizerRequiresCommand(t *testing.T) {
	r := NewCommandRasterizer(config.NewStaticExportConfigHolder(config.DefaultExportConfig()))
	_, err := r.Rasterize(context.Background(), "<html></html>")
	assert.ErrorIs(t, err, ErrNoRasterizer)
}
