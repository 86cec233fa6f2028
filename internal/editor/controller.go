// Package editor owns the invoice draft for the session and applies every
// edit to it.
package editor

import (
	"context"
	"sync"
	"time"

	"github.com/smallbiznis/invoicemaker/internal/clock"
	"github.com/smallbiznis/invoicemaker/internal/config"
	"github.com/smallbiznis/invoicemaker/internal/export"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/smallbiznis/invoicemaker/internal/locale"
	"github.com/smallbiznis/invoicemaker/internal/observability/logger"
	"github.com/smallbiznis/invoicemaker/internal/observability/metrics"
	"go.uber.org/zap"
)

const defaultSavedSignal = 1500 * time.Millisecond

// Mutation names used for metrics and logs.
const (
	OpUpdateField   = "update_field"
	OpAddItem       = "add_item"
	OpUpdateItem    = "update_item"
	OpRemoveItem    = "remove_item"
	OpReorderItems  = "reorder_items"
	OpReset         = "reset"
	OpLocaleDefault = "locale_defaults"
)

// DraftStore persists the draft between sessions.
type DraftStore interface {
	Load(ctx context.Context, def domain.InvoiceData) (domain.InvoiceData, bool)
	Save(ctx context.Context, v domain.InvoiceData)
	Loaded() bool
}

// IDGenerator issues item ids.
type IDGenerator interface {
	NewItemID() string
}

// Exporter turns a draft into a downloadable PDF.
type Exporter interface {
	Export(ctx context.Context, invoice domain.InvoiceData) (export.Result, error)
}

// Confirmer asks the user to approve a destructive action. It may block.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// ResetPrompt is shown before the draft is replaced by the default.
const ResetPrompt = "Are you sure you want to reset the invoice? This will clear all data."

// Snapshot is a consistent read of the controller state.
type Snapshot struct {
	Invoice  domain.InvoiceData  `json:"invoice"`
	Totals   domain.Totals       `json:"totals"`
	Saved    bool                `json:"saved"`
	Loaded   bool                `json:"loaded"`
	Restored bool                `json:"restored"`
	Valid    bool                `json:"valid"`
	Issues   []domain.FieldError `json:"issues,omitempty"`
}

// Controller serializes all edits to the single current draft. Every
// accepted edit replaces the draft, persists it and raises the saved signal.
type Controller struct {
	store    DraftStore
	locale   locale.Locale
	clock    clock.Clock
	ids      IDGenerator
	exporter Exporter
	settings *config.ExportConfigHolder
	metrics  *metrics.EditorMetrics
	log      *zap.Logger

	mu            sync.Mutex
	current       domain.InvoiceData
	started       bool
	restored      bool
	localeApplied bool
	savedUntil    time.Time
}

type Options struct {
	Store    DraftStore
	Locale   locale.Locale
	Clock    clock.Clock
	IDs      IDGenerator
	Exporter Exporter
	Settings *config.ExportConfigHolder
	Metrics  *metrics.EditorMetrics
	Log      *zap.Logger
}

func NewController(opts Options) *Controller {
	c := &Controller{
		store:    opts.Store,
		locale:   opts.Locale,
		clock:    opts.Clock,
		ids:      opts.IDs,
		exporter: opts.Exporter,
		settings: opts.Settings,
		metrics:  opts.Metrics,
		log:      opts.Log,
	}
	if c.clock == nil {
		c.clock = clock.SystemClock{}
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.Named("editor")
	return c
}

// Start loads the stored draft, or the locale-seeded default, and applies
// the locale defaults once. Edits fail with ErrNotReady until Start returns.
// Calling Start again does nothing.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}

	loaded, restored := c.store.Load(ctx, c.defaultInvoice())
	c.current = loaded.Normalize(c.ids.NewItemID)
	c.restored = restored
	c.started = true

	c.applyLocaleDefaultsOnce(ctx)

	log := logger.WithContext(ctx, c.log)
	if issues := c.current.Issues(); len(issues) > 0 {
		log.Warn("draft has invalid fields",
			zap.Bool("restored", restored),
			zap.Any("issues", issues),
		)
	}
	log.Info("draft ready",
		zap.Bool("restored", restored),
		zap.Int("items", len(c.current.Items)),
		zap.String("currency", c.current.Currency),
	)
	return nil
}

// applyLocaleDefaultsOnce switches a draft still on the fallback currency to
// the detected locale. A draft where the user chose USD on purpose cannot be
// told apart and is switched as well.
func (c *Controller) applyLocaleDefaultsOnce(ctx context.Context) {
	if c.localeApplied {
		return
	}
	c.localeApplied = true

	if c.current.Currency != domain.FallbackCurrency || c.locale.Currency == "" || c.locale.Currency == domain.FallbackCurrency {
		return
	}
	next := c.current.Clone()
	next.Currency = c.locale.Currency
	next.Language = c.locale.Tag
	c.commitLocked(ctx, OpLocaleDefault, next)
}

func (c *Controller) defaultInvoice() domain.InvoiceData {
	currency := c.locale.Currency
	if currency == "" {
		currency = domain.FallbackCurrency
	}
	language := c.locale.Tag
	if language == "" {
		language = domain.FallbackLanguage
	}
	return domain.DefaultInvoiceForLocale(c.clock.Now(), currency, language)
}

// Current returns the draft with freshly computed totals and validity.
func (c *Controller) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Locale returns the locale detected at startup.
func (c *Controller) Locale() locale.Locale {
	return c.locale
}

func (c *Controller) snapshotLocked() Snapshot {
	inv := c.current.Clone()
	issues := inv.Issues()
	return Snapshot{
		Invoice:  inv,
		Totals:   domain.Calculate(inv),
		Saved:    c.started && c.clock.Now().Before(c.savedUntil),
		Loaded:   c.started && c.store.Loaded(),
		Restored: c.restored,
		Valid:    len(issues) == 0,
		Issues:   issues,
	}
}

// UpdateField replaces one top-level field.
func (c *Controller) UpdateField(ctx context.Context, field domain.Field, value any) (Snapshot, error) {
	snap, _, err := c.mutate(ctx, OpUpdateField, func(d domain.InvoiceData) (domain.InvoiceData, bool, error) {
		next, err := d.WithField(field, value)
		if err != nil {
			return d, false, err
		}
		return next, true, nil
	})
	return snap, err
}

// AddItem appends an empty line with quantity 1 and returns it.
func (c *Controller) AddItem(ctx context.Context) (Snapshot, domain.InvoiceItem, error) {
	var item domain.InvoiceItem
	snap, _, err := c.mutate(ctx, OpAddItem, func(d domain.InvoiceData) (domain.InvoiceData, bool, error) {
		item = domain.NewItem(c.ids.NewItemID())
		return d.WithItemAdded(item), true, nil
	})
	return snap, item, err
}

// UpdateItem applies the set fields of patch. An unknown id changes nothing
// and reports false.
func (c *Controller) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (Snapshot, bool, error) {
	return c.mutate(ctx, OpUpdateItem, func(d domain.InvoiceData) (domain.InvoiceData, bool, error) {
		next, ok := d.WithItemUpdated(id, patch)
		return next, ok, nil
	})
}

// RemoveItem drops a line. An unknown id changes nothing and reports false.
func (c *Controller) RemoveItem(ctx context.Context, id string) (Snapshot, bool, error) {
	return c.mutate(ctx, OpRemoveItem, func(d domain.InvoiceData) (domain.InvoiceData, bool, error) {
		next, ok := d.WithItemRemoved(id)
		return next, ok, nil
	})
}

// ReorderItems replaces the items with a permutation of themselves.
func (c *Controller) ReorderItems(ctx context.Context, seq []domain.InvoiceItem) (Snapshot, error) {
	snap, _, err := c.mutate(ctx, OpReorderItems, func(d domain.InvoiceData) (domain.InvoiceData, bool, error) {
		next, err := d.WithItemsReordered(seq)
		return next, err == nil, err
	})
	return snap, err
}

// ReorderItemIDs reorders the items to follow ids.
func (c *Controller) ReorderItemIDs(ctx context.Context, ids []string) (Snapshot, error) {
	snap, _, err := c.mutate(ctx, OpReorderItems, func(d domain.InvoiceData) (domain.InvoiceData, bool, error) {
		next, err := d.WithItemIDsOrdered(ids)
		return next, err == nil, err
	})
	return snap, err
}

// ResetToDefault replaces the draft with the locale-seeded default once
// confirmer approves. The confirmation runs without holding the lock.
func (c *Controller) ResetToDefault(ctx context.Context, confirmer Confirmer) (Snapshot, bool, error) {
	if confirmer == nil {
		return Snapshot{}, false, ErrNoConfirmer
	}
	if !c.ready() {
		return Snapshot{}, false, ErrNotReady
	}

	ok, err := confirmer.Confirm(ctx, ResetPrompt)
	if err != nil {
		return c.Current(), false, err
	}
	if !ok {
		return c.Current(), false, nil
	}

	return c.mutate(ctx, OpReset, func(domain.InvoiceData) (domain.InvoiceData, bool, error) {
		return c.defaultInvoice(), true, nil
	})
}

// Export renders the current draft through the configured exporter.
func (c *Controller) Export(ctx context.Context) (export.Result, error) {
	if c.exporter == nil {
		return export.Result{}, ErrNoExporter
	}
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return export.Result{}, ErrNotReady
	}
	inv := c.current.Clone()
	c.mu.Unlock()

	return c.exporter.Export(ctx, inv)
}

func (c *Controller) ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

type mutation func(domain.InvoiceData) (domain.InvoiceData, bool, error)

func (c *Controller) mutate(ctx context.Context, op string, fn mutation) (Snapshot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return Snapshot{}, false, ErrNotReady
	}

	next, changed, err := fn(c.current)
	if err != nil || !changed {
		return c.snapshotLocked(), false, err
	}
	c.commitLocked(ctx, op, next)
	return c.snapshotLocked(), true, nil
}

func (c *Controller) commitLocked(ctx context.Context, op string, next domain.InvoiceData) {
	c.current = next
	c.store.Save(ctx, next)
	c.savedUntil = c.clock.Now().Add(c.savedSignal())
	c.metrics.IncMutation(op)

	logger.WithContext(ctx, c.log).Debug("draft updated", zap.String("operation", op))
}

func (c *Controller) savedSignal() time.Duration {
	if c.settings == nil {
		return defaultSavedSignal
	}
	if d := c.settings.Get().SavedSignal; d > 0 {
		return d
	}
	return defaultSavedSignal
}
