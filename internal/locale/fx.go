package locale

import (
	"github.com/smallbiznis/invoicemaker/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("locale",
	fx.Provide(New),
)

// New detects the process locale once at startup. A valid APP_LOCALE from
// the config wins over the environment.
func New(cfg config.Config, log *zap.Logger) Locale {
	l := FromEnv()
	if tag, ok := Normalize(cfg.Locale); ok {
		l = Resolve(tag)
	}
	log.Info("locale detected",
		zap.String("tag", l.Tag),
		zap.String("currency", l.Currency),
		zap.String("date_style", string(l.DateStyle)),
	)
	return l
}
