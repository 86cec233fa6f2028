package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/smallbiznis/invoicemaker/internal/draft/storage"
	"github.com/smallbiznis/invoicemaker/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStorage) Set(ctx context.Context, key, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockStorage) Close() error { return nil }

func sampleDraft() domain.InvoiceData {
	d := domain.DefaultInvoice(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	d.InvoiceNumber = "INV-042"
	d.ToName = "Globex"
	d.Items = []domain.InvoiceItem{
		{ID: "a", Description: "Design", Quantity: 2, Rate: 50},
		{ID: "b", Description: "Hosting", Quantity: 1, Rate: 25},
	}
	d.Discount = 10
	d.TaxType = domain.TaxTypeVAT
	d.TaxRate = 8
	return d
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore[domain.InvoiceData](storage.NewMemory(), "invoice-draft", zap.NewNop(), nil)
	want := sampleDraft()

	store.Save(ctx, want)

	got, found := store.Load(ctx, domain.DefaultInvoice(time.Now()))
	require.True(t, found)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_AbsentReturnsDefaultAndMarksLoaded(t *testing.T) {
	store := NewStore[domain.InvoiceData](storage.NewMemory(), "invoice-draft", zap.NewNop(), nil)
	def := domain.DefaultInvoice(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	assert.False(t, store.Loaded())
	got, found := store.Load(context.Background(), def)
	assert.False(t, found)
	assert.Equal(t, def, got)
	assert.True(t, store.Loaded())
}

func TestStore_CorruptPayloadFallsBack(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.Set(ctx, "invoice-draft", "{not json"))

	core, logs := observer.New(zapcore.WarnLevel)
	store := NewStore[domain.InvoiceData](mem, "invoice-draft", zap.New(core), nil)
	def := sampleDraft()

	got, found := store.Load(ctx, def)
	assert.False(t, found)
	assert.Equal(t, def, got)
	assert.True(t, store.Loaded())
	assert.Equal(t, 1, logs.FilterMessage("draft unparseable, using default").Len())
}

func TestStore_ReadErrorFallsBack(t *testing.T) {
	m := &mockStorage{}
	m.On("Get", mock.Anything, "invoice-draft").Return("", false, errors.New("disk gone"))

	store := NewStore[domain.InvoiceData](m, "invoice-draft", zap.NewNop(), nil)
	def := sampleDraft()

	got, found := store.Load(context.Background(), def)
	assert.False(t, found)
	assert.Equal(t, def, got)
	assert.True(t, store.Loaded())
	m.AssertExpectations(t)
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	m := &mockStorage{}
	m.On("Set", mock.Anything, "invoice-draft", mock.AnythingOfType("string")).Return(errors.New("quota exceeded"))

	core, logs := observer.New(zapcore.ErrorLevel)
	store := NewStore[domain.InvoiceData](m, "invoice-draft", zap.New(core), nil)

	assert.NotPanics(t, func() {
		store.Save(context.Background(), sampleDraft())
	})
	m.AssertExpectations(t)

	entries := logs.FilterMessage("draft save failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "invoice-draft", entries[0].ContextMap()["key"])
}

func TestStore_SaveOverwritesWholeValue(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	store := NewStore[domain.InvoiceData](mem, "invoice-draft", zap.NewNop(), nil)

	first := sampleDraft()
	store.Save(ctx, first)

	second := first.Clone()
	second.Items = nil
	second.Notes = "cleared"
	store.Save(ctx, second)

	got, found := store.Load(ctx, domain.InvoiceData{})
	require.True(t, found)
	assert.Empty(t, got.Items)
	assert.Equal(t, "cleared", got.Notes)
}
