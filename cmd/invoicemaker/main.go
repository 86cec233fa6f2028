package main

import (
	"github.com/smallbiznis/invoicemaker/internal/clock"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/draft"
	"github.com/smallbiznis/invoicemaker/internal/editor"
	"github.com/smallbiznis/invoicemaker/internal/export"
	"github.com/smallbiznis/invoicemaker/internal/ids"
	"github.com/smallbiznis/invoicemaker/internal/invoice"
	"github.com/smallbiznis/invoicemaker/internal/locale"
	"github.com/smallbiznis/invoicemaker/internal/observability"
	"github.com/smallbiznis/invoicemaker/internal/server"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		clock.Module,
		ids.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Invoice editing
		locale.Module,
		invoice.Module,
		draft.Module,
		export.Module,
		editor.Module,

		server.Module,
	)
	app.Run()
}
