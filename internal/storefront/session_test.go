package storefront

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorstore/internal/cart"
	"authorstore/internal/catalog"
	"authorstore/internal/checkout"
)

type fakeRelay struct {
	mu      sync.Mutex
	orders  []checkout.Order
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeRelay) Submit(ctx context.Context, order checkout.Order) error {
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.orders = append(f.orders, order)
	return nil
}

var (
	bookA = catalog.Book{ID: catalog.BookID("A"), Title: "A", Price: decimal.NewFromInt(59)}
	bookB = catalog.Book{ID: catalog.BookID("B"), Title: "B", Price: decimal.NewFromInt(69)}
	valid = checkout.Form{Name: "Dana", Phone: "050", Address: "Haifa", Email: "d@x"}
)

func addBook(t *testing.T, s *Session, b catalog.Book, qty int) {
	t.Helper()
	if s.Snapshot().View == ViewCheckout {
		require.NoError(t, s.Back())
	}
	require.NoError(t, s.Select(b))
	require.NoError(t, s.AddToCart(qty))
}

func TestEndToEndPurchase(t *testing.T) {
	s := NewSession()
	relay := &fakeRelay{}

	addBook(t, s, bookA, 2)
	addBook(t, s, bookB, 1)
	snap := s.Snapshot()
	assert.Equal(t, ViewCheckout, snap.View)
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(187)))

	require.NoError(t, s.RemoveFromCart(0))
	snap = s.Snapshot()
	require.Len(t, snap.Cart, 1)
	assert.Equal(t, "B", snap.Cart[0].Title)
	assert.True(t, snap.Total.Equal(decimal.NewFromInt(69)))

	require.NoError(t, s.SubmitOrder(context.Background(), valid, relay))
	snap = s.Snapshot()
	assert.Equal(t, ViewConfirmation, snap.View)
	assert.Empty(t, snap.Cart)
	require.Len(t, relay.orders, 1)
	assert.Equal(t, "B (כמות: 1, ₪69)", relay.orders[0].Summary)

	require.NoError(t, s.ReturnHome())
	assert.Equal(t, ViewCatalog, s.Snapshot().View)
}

func TestInvalidTransitionsLeaveStateIntact(t *testing.T) {
	s := NewSession()

	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, s.AddToCart(1), ErrInvalidTransition)
	assert.ErrorIs(t, s.ReturnHome(), ErrInvalidTransition)
	assert.ErrorIs(t, s.RemoveFromCart(0), ErrInvalidTransition)
	assert.ErrorIs(t, s.SubmitOrder(context.Background(), valid, &fakeRelay{}), ErrInvalidTransition)
	assert.Equal(t, ViewCatalog, s.Snapshot().View)

	require.NoError(t, s.Select(bookA))
	assert.ErrorIs(t, s.Select(bookB), ErrInvalidTransition)
	assert.Equal(t, "A", s.Snapshot().SelectedBook.Title)
}

func TestBackFromCheckoutKeepsCart(t *testing.T) {
	s := NewSession()
	addBook(t, s, bookA, 1)

	require.NoError(t, s.Back())
	snap := s.Snapshot()
	assert.Equal(t, ViewCatalog, snap.View)
	assert.Len(t, snap.Cart, 1)
}

func TestAddToCartRejectsZeroQuantity(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.Select(bookA))

	assert.ErrorIs(t, s.AddToCart(0), cart.ErrInvalidQuantity)
	assert.Equal(t, ViewBookDetail, s.Snapshot().View)
}

func TestValidationAbortsBeforeRelay(t *testing.T) {
	s := NewSession()
	relay := &fakeRelay{}
	addBook(t, s, bookA, 1)

	form := valid
	form.Phone = "   "
	err := s.SubmitOrder(context.Background(), form, relay)

	var ve *checkout.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"phone"}, ve.FieldNames())
	assert.Empty(t, relay.orders)

	snap := s.Snapshot()
	assert.Equal(t, ViewCheckout, snap.View)
	assert.Equal(t, form, snap.Form)
	assert.Contains(t, snap.Errors, "phone")
}

func TestRelayFailureKeepsCart(t *testing.T) {
	s := NewSession()
	relay := &fakeRelay{err: errors.New("connection refused")}
	addBook(t, s, bookA, 1)

	err := s.SubmitOrder(context.Background(), valid, relay)
	assert.ErrorIs(t, err, ErrRelay)

	snap := s.Snapshot()
	assert.Equal(t, ViewCheckout, snap.View)
	assert.Len(t, snap.Cart, 1)
	assert.False(t, snap.Submitting)
}

func TestEmptyCartCannotCheckout(t *testing.T) {
	s := NewSession()
	addBook(t, s, bookA, 1)
	require.NoError(t, s.RemoveFromCart(0))

	assert.ErrorIs(t, s.SubmitOrder(context.Background(), valid, &fakeRelay{}), ErrEmptyCart)
}

type panicRelay struct{}

func (panicRelay) Submit(context.Context, checkout.Order) error {
	panic("relay exploded")
}

func TestPanickingRelayDoesNotWedgeSession(t *testing.T) {
	s := NewSession()
	addBook(t, s, bookA, 1)

	assert.Panics(t, func() {
		_ = s.SubmitOrder(context.Background(), valid, panicRelay{})
	})

	snap := s.Snapshot()
	assert.False(t, snap.Submitting)
	assert.Equal(t, ViewCheckout, snap.View)
	assert.Len(t, snap.Cart, 1)

	relay := &fakeRelay{}
	require.NoError(t, s.SubmitOrder(context.Background(), valid, relay))
	assert.Equal(t, ViewConfirmation, s.Snapshot().View)
	assert.Len(t, relay.orders, 1)
}

func TestConcurrentSubmitRejected(t *testing.T) {
	s := NewSession()
	relay := &fakeRelay{block: make(chan struct{}), entered: make(chan struct{})}
	addBook(t, s, bookA, 1)

	done := make(chan error, 1)
	go func() { done <- s.SubmitOrder(context.Background(), valid, relay) }()
	<-relay.entered

	assert.True(t, s.Snapshot().Submitting)
	assert.ErrorIs(t, s.SubmitOrder(context.Background(), valid, relay), ErrSubmissionInFlight)
	assert.ErrorIs(t, s.RemoveFromCart(0), ErrSubmissionInFlight)

	close(relay.block)
	require.NoError(t, <-done)
	assert.Equal(t, ViewConfirmation, s.Snapshot().View)
	assert.Len(t, relay.orders, 1)
}
