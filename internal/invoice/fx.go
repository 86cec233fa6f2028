package invoice

import (
	"github.com/smallbiznis/invoicemaker/internal/invoice/render"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice",
	fx.Provide(render.NewRenderer),
)
