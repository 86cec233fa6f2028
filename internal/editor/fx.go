package editor

import (
	"context"

	"github.com/smallbiznis/invoicemaker/internal/clock"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/draft"
	"github.com/smallbiznis/invoicemaker/internal/export"
	"github.com/smallbiznis/invoicemaker/internal/ids"
	"github.com/smallbiznis/invoicemaker/internal/locale"
	"github.com/smallbiznis/invoicemaker/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("editor",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Store     *draft.InvoiceStore
	Locale    locale.Locale
	Clock     clock.Clock
	IDs       *ids.Generator
	Exporter  *export.Service
	Settings  *config.ExportConfigHolder
	Metrics   *metrics.EditorMetrics `optional:"true"`
	Log       *zap.Logger
}

// New builds the controller and loads the draft on fx start, before the
// HTTP listener accepts requests.
func New(p Params) *Controller {
	c := NewController(Options{
		Store:    p.Store,
		Locale:   p.Locale,
		Clock:    p.Clock,
		IDs:      p.IDs,
		Exporter: p.Exporter,
		Settings: p.Settings,
		Metrics:  p.Metrics,
		Log:      p.Log,
	})
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return c.Start(ctx)
		},
	})
	return c
}
