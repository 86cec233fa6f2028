package export

import (
	"github.com/smallbiznis/invoicemaker/internal/clock"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/ids"
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
	"github.com/smallbiznis/invoicemaker/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("export",
	fx.Provide(
		fx.Annotate(NewCommandRasterizer, fx.As(new(Rasterizer))),
		New,
	),
)

type Params struct {
	fx.In

	Clock      clock.Clock
	Settings   *config.ExportConfigHolder
	Renderer   render.Renderer
	Rasterizer Rasterizer             `optional:"true"`
	Metrics    *metrics.EditorMetrics `optional:"true"`
	Log        *zap.Logger
}

func New(p Params) *Service {
	return NewService(Options{
		Clock:    p.Clock,
		Settings: p.Settings,
		Generators: map[string]Generator{
			config.GeneratorNative:   NewNativeGenerator(),
			config.GeneratorSnapshot: NewSnapshotGenerator(p.Renderer, p.Rasterizer),
		},
		NewJobID: ids.NewJobID,
		Metrics:  p.Metrics,
		Log:      p.Log,
	})
}
