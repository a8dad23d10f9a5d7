package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/origenapp/origen-core/internal/gateway"
	"github.com/origenapp/origen-core/internal/origen"
	"github.com/origenapp/origen-core/internal/syncx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *gateway.Memory) {
	t.Helper()
	gw := gateway.NewMemory()
	s := New(gw, syncx.Noop{}, nil, Options{
		DebounceWindow: 20 * time.Millisecond,
		SavedHold:      40 * time.Millisecond,
	})
	t.Cleanup(s.Close)
	return s, gw
}

func TestAddProductWriteThrough(t *testing.T) {
	s, gw := newTestStore(t)
	ctx := context.Background()

	p := origen.Product{Code: "REM-1", Name: "Remera Logo", Type: origen.ProductRemera, Size: "M", Price: 100}
	require.NoError(t, s.AddProduct(ctx, p))

	list := s.Products()
	require.Len(t, list, 1)
	assert.Equal(t, "REM-1", list[0].Code)
	assert.False(t, list[0].CreationDate.IsZero())

	// The gateway holds the durable copy.
	stored, err := gw.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestAddProductFailureLeavesStateUntouched(t *testing.T) {
	s, gw := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, origen.Product{Code: "REM-1", Type: origen.ProductRemera}))
	before := s.Products()

	boom := errors.New("write rejected")
	gw.FailNext(boom)
	err := s.AddProduct(ctx, origen.Product{Code: "REM-2", Type: origen.ProductRemera})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, before, s.Products())
}

func TestRemoveProductUnconditional(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, origen.Product{Code: "REM-1", Type: origen.ProductRemera}))
	require.NoError(t, s.AddMovement(ctx, origen.Movement{Code: "REM-1", Type: origen.MovementIngreso, Quantity: 3}))

	require.NoError(t, s.RemoveProduct(ctx, "REM-1"))
	assert.Empty(t, s.Products())
	// The ledger keeps answering for the deleted code.
	assert.Equal(t, 3, s.Stock("REM-1"))
}

func TestUpdateGlobalPriceRemapsWholeType(t *testing.T) {
	s, gw := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, origen.Product{Code: "REM-1", Type: origen.ProductRemera, Price: 100}))
	require.NoError(t, s.AddProduct(ctx, origen.Product{Code: "REM-2", Type: origen.ProductRemera, Price: 120}))
	require.NoError(t, s.AddProduct(ctx, origen.Product{Code: "BUZ-1", Type: origen.ProductBuzo, Price: 200}))

	require.NoError(t, s.UpdateGlobalPrice(ctx, origen.ProductRemera, 150))

	for _, p := range s.Products() {
		switch p.Type {
		case origen.ProductRemera:
			assert.Equal(t, 150.0, p.Price)
		case origen.ProductBuzo:
			assert.Equal(t, 200.0, p.Price)
		}
	}

	// Failure applies to neither side of the batch.
	gw.FailNext(errors.New("down"))
	require.Error(t, s.UpdateGlobalPrice(ctx, origen.ProductBuzo, 999))
	for _, p := range s.Products() {
		if p.Type == origen.ProductBuzo {
			assert.Equal(t, 200.0, p.Price)
		}
	}
}

func TestStockDerivedFromLedger(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddMovement(ctx, origen.Movement{Code: "REM-1", Type: origen.MovementIngreso, Quantity: 10}))
	require.NoError(t, s.AddMovement(ctx, origen.Movement{Code: "REM-1", Type: origen.MovementVenta, Quantity: 3}))

	assert.Equal(t, 7, s.Stock("REM-1"))
	assert.Equal(t, 0, s.Stock("OTHER"))
}

func TestBaptismStatusTransitions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddBaptism(ctx, origen.Baptism{ID: "b1", FullName: "Ana Pérez"}))
	b := s.Baptisms()[0]
	assert.Equal(t, origen.PendingYes, b.Pending)
	assert.Nil(t, b.CompletedAt)
	assert.False(t, b.CreatedAt.IsZero())

	require.NoError(t, s.UpdateBaptismStatus(ctx, "b1", origen.PendingNo))
	b = s.Baptisms()[0]
	assert.Equal(t, origen.PendingNo, b.Pending)
	require.NotNil(t, b.CompletedAt)

	// Reverting to pending clears the completion date.
	require.NoError(t, s.UpdateBaptismStatus(ctx, "b1", origen.PendingYes))
	b = s.Baptisms()[0]
	assert.Equal(t, origen.PendingYes, b.Pending)
	assert.Nil(t, b.CompletedAt)
}

func TestPresentationStatusTransitions(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddPresentation(ctx, origen.Presentation{ID: "p1", ChildName: "Mateo"}))
	require.NoError(t, s.UpdatePresentationStatus(ctx, "p1", origen.PendingNo))
	p := s.Presentations()[0]
	require.NotNil(t, p.CompletedAt)

	require.NoError(t, s.UpdatePresentationStatus(ctx, "p1", origen.PendingYes))
	p = s.Presentations()[0]
	assert.Nil(t, p.CompletedAt)
}

func TestUnknownStatusTargetIsNoop(t *testing.T) {
	s, gw := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateBaptismStatus(ctx, "missing", origen.PendingNo))
	stored, err := gw.Baptisms(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, s.Baptisms())
}

func TestLoanReturnDate(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddLoan(ctx, origen.Loan{ID: "l1", BorrowerName: "Juan", ProductType: origen.ProductBuzo, Size: "L"}))
	l := s.Loans()[0]
	assert.Equal(t, origen.PendingYes, l.Status)
	assert.False(t, l.LoanDate.IsZero())
	assert.Nil(t, l.ReturnDate)

	require.NoError(t, s.UpdateLoanStatus(ctx, "l1", origen.PendingNo))
	l = s.Loans()[0]
	assert.Equal(t, origen.PendingNo, l.Status)
	require.NotNil(t, l.ReturnDate)

	require.NoError(t, s.UpdateLoanStatus(ctx, "l1", origen.PendingYes))
	assert.Nil(t, s.Loans()[0].ReturnDate)
}

func TestEventsRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddEvent(ctx, origen.Event{ID: "e1", Name: "Retiro", Link: "https://example.org/r"}))
	require.NoError(t, s.EditEvent(ctx, origen.Event{ID: "e1", Name: "Retiro 2026", Link: "https://example.org/r2"}))
	e := s.Events()[0]
	assert.Equal(t, "Retiro 2026", e.Name)

	require.NoError(t, s.RemoveEvent(ctx, "e1"))
	assert.Empty(t, s.Events())
}

func TestReloadReplacesCollections(t *testing.T) {
	gw := gateway.NewMemory()
	ctx := context.Background()
	require.NoError(t, gw.AddProduct(ctx, origen.Product{Code: "REM-1", Type: origen.ProductRemera}))
	require.NoError(t, gw.AddMovement(ctx, origen.Movement{ID: "m1", Code: "REM-1", Type: origen.MovementIngreso, Quantity: 2}))

	s := New(gw, syncx.Noop{}, nil, Options{})
	t.Cleanup(s.Close)
	assert.True(t, s.Loading())

	s.Reload(ctx)
	assert.False(t, s.Loading())
	assert.Len(t, s.Products(), 1)
	assert.Equal(t, 2, s.Stock("REM-1"))
}

func TestReloadSchemaMissingSetsDegraded(t *testing.T) {
	s, gw := newTestStore(t)
	ctx := context.Background()

	gw.SetSchemaMissing(true)
	s.Reload(ctx)
	assert.True(t, s.Degraded())

	// Flag persists across queries, clears on the next good reload.
	assert.True(t, s.Degraded())
	gw.SetSchemaMissing(false)
	s.Reload(ctx)
	assert.False(t, s.Degraded())
}

func TestReloadSwallowsTransientFailures(t *testing.T) {
	s, gw := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddProduct(ctx, origen.Product{Code: "REM-1", Type: origen.ProductRemera}))
	s.Reload(ctx)
	require.Len(t, s.Products(), 1)

	// One fetch fails mid-reload: no degraded flag, surviving collections
	// refresh, the failed one keeps its previous value.
	gw.FailNext(errors.New("connection reset"))
	s.Reload(ctx)
	assert.False(t, s.Degraded())
	assert.Len(t, s.Products(), 1)
}

func TestCrossInstanceConvergence(t *testing.T) {
	gw := gateway.NewMemory()
	hub := syncx.NewHub()

	a := New(gw, hub.Join(), nil, Options{})
	t.Cleanup(a.Close)
	b := New(gw, hub.Join(), nil, Options{})
	t.Cleanup(b.Close)
	ctx := context.Background()
	a.Reload(ctx)
	b.Reload(ctx)

	require.NoError(t, a.AddBaptism(ctx, origen.Baptism{ID: "b1", FullName: "Ana Pérez"}))

	// A's mutation published a signal; B answered with a full reload.
	require.Eventually(t, func() bool {
		for _, x := range b.Baptisms() {
			if x.ID == "b1" {
				return true
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)

	// A itself already applied the change locally, no echo needed.
	assert.Len(t, a.Baptisms(), 1)
}
