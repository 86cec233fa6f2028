package draft

import (
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/draft/storage"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("draft",
	storage.Module,
	fx.Provide(NewInvoiceStore),
)

// InvoiceStore is the store holding the single invoice draft.
type InvoiceStore = Store[domain.InvoiceData]

type Params struct {
	fx.In

	Storage storage.Storage
	Config  config.Config
	Log     *zap.Logger
	Metrics *metrics.EditorMetrics `optional:"true"`
}

func NewInvoiceStore(p Params) *InvoiceStore {
	return NewStore[domain.InvoiceData](p.Storage, p.Config.DraftKey, p.Log, p.Metrics)
}
