package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/invoicemaker/internal/migration"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Draft is one persisted draft row.
type Draft struct {
	Key       string         `gorm:"column:draft_key;primaryKey;size:191"`
	Payload   datatypes.JSON `gorm:"column:payload;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
}

func (Draft) TableName() string { return "drafts" }

// SQL stores drafts in the drafts table of a gorm database.
type SQL struct {
	db      *gorm.DB
	dialect string
}

// NewSQL prepares the drafts table: postgres through the embedded
// migrations, other dialects through AutoMigrate.
func NewSQL(db *gorm.DB) (*SQL, error) {
	dialect := db.Dialector.Name()
	if dialect == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		if err := migration.RunMigrations(sqlDB); err != nil {
			return nil, err
		}
	} else if err := db.AutoMigrate(&Draft{}); err != nil {
		return nil, fmt.Errorf("migrate drafts: %w", err)
	}
	return &SQL{db: db, dialect: dialect}, nil
}

func (s *SQL) Get(ctx context.Context, key string) (string, bool, error) {
	var row Draft
	err := s.db.WithContext(ctx).Where("draft_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(row.Payload), true, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	row := Draft{
		Key:       key,
		Payload:   datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "draft_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&row).Error
}

// Close is a no-op; the connection pool belongs to the fx lifecycle.
func (s *SQL) Close() error { return nil }

func (s *SQL) Backend() string { return s.dialect }
