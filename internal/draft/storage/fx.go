package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("draft-storage",
	fx.Provide(New),
)

// New opens the backend named by DRAFT_STORAGE. Open failures abort startup.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Storage, error) {
	s, err := open(lc, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s draft storage: %w", cfg.DraftStorage, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return s.Close()
		},
	})

	log.Info("draft storage ready",
		zap.String("backend", BackendName(s)),
		zap.String("key", cfg.DraftKey),
	)
	return s, nil
}

func open(lc fx.Lifecycle, cfg config.Config) (Storage, error) {
	switch cfg.DraftStorage {
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageLevelDB:
		return OpenLevelDB(cfg.DraftPath)
	case config.StorageRedis:
		addr := strings.TrimSpace(cfg.RedisAddr)
		if addr == "" {
			return nil, errors.New("redis addr is required")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: strings.TrimSpace(cfg.RedisPassword),
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, err
		}
		return NewRedis(client), nil
	default:
		if !cfg.UsesSQL() {
			return nil, fmt.Errorf("unsupported draft storage %q", cfg.DraftStorage)
		}
		conn, err := db.Open(lc, cfg)
		if err != nil {
			return nil, err
		}
		return NewSQL(conn)
	}
}
