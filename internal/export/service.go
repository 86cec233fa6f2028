// Package export turns an invoice draft into a downloadable A4 PDF.
package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallbiznis/invoicemaker/internal/clock"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/ids"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/invoice/format"
	obsctx "github.com/smallbiznis/invoicemaker/internal/observability/context"
	"github.com/smallbiznis/invoicemaker/internal/observability/logger"
	"github.com/smallbiznis/invoicemaker/internal/observability/metrics"
	"github.com/smallbiznis/invoicemaker/internal/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const ContentTypePDF = "application/pdf"

// FailureMessage is shown to the user when an export fails.
const FailureMessage = "Failed to generate PDF. Please try again."

// Result is a finished export.
type Result struct {
	JobID       string `json:"jobId"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"-"`
}

// Job is the input handed to a Generator.
type Job struct {
	ID       string
	Invoice  domain.InvoiceData
	Settings config.ExportConfig
}

// Generator renders a PDF document.
type Generator interface {
	Generate(ctx context.Context, job Job) ([]byte, error)
}

// Notice describes the last failed export until it is dismissed.
type Notice struct {
	JobID   string    `json:"jobId"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Status struct {
	InProgress bool    `json:"inProgress"`
	Notice     *Notice `json:"notice"`
}

// Service runs one export at a time. A failed export leaves a notice and
// is never retried automatically.
type Service struct {
	clock      clock.Clock
	settings   *config.ExportConfigHolder
	generators map[string]Generator
	newJobID   func() string
	metrics    *metrics.EditorMetrics
	log        *zap.Logger

	inFlight atomic.Bool

	mu     sync.Mutex
	notice *Notice
}

type Options struct {
	Clock      clock.Clock
	Settings   *config.ExportConfigHolder
	Generators map[string]Generator
	NewJobID   func() string
	Metrics    *metrics.EditorMetrics
	Log        *zap.Logger
}

func NewService(opts Options) *Service {
	s := &Service{
		clock:      opts.Clock,
		settings:   opts.Settings,
		generators: opts.Generators,
		newJobID:   opts.NewJobID,
		metrics:    opts.Metrics,
		log:        opts.Log,
	}
	if s.clock == nil {
		s.clock = clock.SystemClock{}
	}
	if s.settings == nil {
		s.settings = config.NewStaticExportConfigHolder(config.DefaultExportConfig())
	}
	if s.newJobID == nil {
		s.newJobID = ids.NewJobID
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("export")
	return s
}

// Export waits for the settle delay, then generates the PDF for invoice.
// A second call while one is running fails with ErrExportInProgress.
func (s *Service) Export(ctx context.Context, invoice domain.InvoiceData) (Result, error) {
	settings := s.settings.Get()
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.ObserveExport(settings.Generator, metrics.ExportStatusRejected, 0)
		return Result{}, ErrExportInProgress
	}
	defer s.inFlight.Store(false)

	job := Job{ID: s.newJobID(), Invoice: invoice.Clone(), Settings: settings}
	ctx = obsctx.WithExportJobID(ctx, job.ID)
	ctx, span := tracing.Start(ctx, "export.generate", attribute.String("generator", settings.Generator))
	log := logger.WithContext(ctx, s.log)

	started := s.clock.Now()
	result, err := s.run(ctx, job)
	tracing.End(span, err)
	elapsed := s.clock.Now().Sub(started)

	if err != nil {
		s.setNotice(&Notice{JobID: job.ID, Message: FailureMessage, At: s.clock.Now()})
		s.metrics.ObserveExport(settings.Generator, metrics.ExportStatusFailure, elapsed)
		log.Error("export failed", zap.String("generator", settings.Generator), zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.setNotice(nil)
	s.metrics.ObserveExport(settings.Generator, metrics.ExportStatusSuccess, elapsed)
	log.Info("export finished",
		zap.String("generator", settings.Generator),
		zap.String("file_name", result.FileName),
		zap.Int("bytes", len(result.Content)),
	)
	return result, nil
}

func (s *Service) run(ctx context.Context, job Job) (Result, error) {
	if err := s.settle(ctx, job.Settings.SettleDelay); err != nil {
		return Result{}, err
	}

	gen, ok := s.generators[job.Settings.Generator]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownGenerator, job.Settings.Generator)
	}

	fileName, err := format.FormatExportFileName(job.Settings.FileNameTemplate, job.Invoice.InvoiceNumber, s.clock.Now())
	if err != nil {
		return Result{}, err
	}

	content, err := gen.Generate(ctx, job)
	if err != nil {
		return Result{}, err
	}
	if len(content) == 0 {
		return Result{}, errors.New("generator returned an empty document")
	}

	return Result{
		JobID:       job.ID,
		FileName:    fileName,
		ContentType: ContentTypePDF,
		Content:     content,
	}, nil
}

// settle gives the preview time to reach a stable layout.
func (s *Service) settle(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.clock.After(delay):
		return nil
	}
}

// Status reports whether an export is running and the pending failure
// notice, if any.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := Status{InProgress: s.inFlight.Load()}
	if s.notice != nil {
		n := *s.notice
		status.Notice = &n
	}
	return status
}

// DismissNotice clears the failure notice.
func (s *Service) DismissNotice() {
	s.setNotice(nil)
}

func (s *Service) setNotice(n *Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = n
}
