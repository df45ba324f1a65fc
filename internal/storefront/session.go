// Package storefront drives one visitor through catalog, book page, purchase
// page and confirmation.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"authorstore/internal/cart"
	"authorstore/internal/catalog"
	"authorstore/internal/checkout"
)

var (
	ErrInvalidTransition  = errors.New("transition not allowed from current view")
	ErrSubmissionInFlight = errors.New("order submission already in progress")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrRelay              = errors.New("order relay failed")
)

// View is the page a visitor is currently looking at.
type View int

const (
	ViewCatalog View = iota
	ViewBookDetail
	ViewCheckout
	ViewConfirmation
)

func (v View) String() string {
	switch v {
	case ViewCatalog:
		return "catalog"
	case ViewBookDetail:
		return "book"
	case ViewCheckout:
		return "checkout"
	case ViewConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Session is the flow state of a single visitor. All methods are safe for
// concurrent use; each one is applied atomically.
type Session struct {
	mu         sync.Mutex
	view       View
	selected   *catalog.Book
	cart       *cart.Cart
	form       checkout.Form
	errors     map[string]string
	submitting bool
}

func NewSession() *Session {
	return &Session{cart: cart.New()}
}

// Snapshot is a read-only copy of the session for rendering.
type Snapshot struct {
	View         View              `json:"view"`
	SelectedBook *catalog.Book     `json:"selectedBook,omitempty"`
	Cart         []cart.Item       `json:"cart"`
	Total        decimal.Decimal   `json:"total"`
	Form         checkout.Form     `json:"form"`
	Errors       map[string]string `json:"errors,omitempty"`
	Submitting   bool              `json:"submitting"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		View:       s.view,
		Cart:       s.cart.Items(),
		Total:      s.cart.Total(),
		Form:       s.form,
		Submitting: s.submitting,
	}
	if s.selected != nil {
		b := *s.selected
		snap.SelectedBook = &b
	}
	if len(s.errors) > 0 {
		snap.Errors = make(map[string]string, len(s.errors))
		for k, v := range s.errors {
			snap.Errors[k] = v
		}
	}
	return snap
}

func (s *Session) transitionError(op string) error {
	return fmt.Errorf("%s from %s: %w", op, s.view, ErrInvalidTransition)
}

// Select opens the book page.
func (s *Session) Select(book catalog.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != ViewCatalog {
		return s.transitionError("select")
	}
	s.selected = &book
	s.view = ViewBookDetail
	return nil
}

// Back returns to the catalog from the book page or the purchase page. The
// cart is kept.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.submitting:
		return ErrSubmissionInFlight
	case s.view == ViewBookDetail, s.view == ViewCheckout:
		s.selected = nil
		s.view = ViewCatalog
		return nil
	default:
		return s.transitionError("back")
	}
}

// AddToCart appends the selected book and opens the purchase page in one step.
func (s *Session) AddToCart(quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != ViewBookDetail || s.selected == nil {
		return s.transitionError("add to cart")
	}
	if err := s.cart.Add(*s.selected, quantity); err != nil {
		return err
	}
	s.view = ViewCheckout
	return nil
}

// RemoveFromCart drops the line at index while on the purchase page.
func (s *Session) RemoveFromCart(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return ErrSubmissionInFlight
	}
	if s.view != ViewCheckout {
		return s.transitionError("remove from cart")
	}
	return s.cart.Remove(index)
}

// SubmitOrder validates form, then makes exactly one relay call. The lock is
// released while the relay runs; concurrent submits get ErrSubmissionInFlight.
// On failure nothing local is rolled back and the visitor stays on the
// purchase page.
func (s *Session) SubmitOrder(ctx context.Context, form checkout.Form, relay checkout.Relay) error {
	s.mu.Lock()
	if s.view != ViewCheckout {
		err := s.transitionError("submit order")
		s.mu.Unlock()
		return err
	}
	if s.submitting {
		s.mu.Unlock()
		return ErrSubmissionInFlight
	}
	s.form = form
	if err := form.Validate(); err != nil {
		var ve *checkout.ValidationError
		if errors.As(err, &ve) {
			s.errors = ve.Fields
		}
		s.mu.Unlock()
		return err
	}
	s.errors = nil
	if s.cart.Len() == 0 {
		s.mu.Unlock()
		return ErrEmptyCart
	}
	order := checkout.BuildOrder(form, s.cart.Items())
	s.submitting = true
	s.mu.Unlock()

	// A panicking relay must not leave the session in flight.
	returned := false
	defer func() {
		if !returned {
			s.mu.Lock()
			s.submitting = false
			s.mu.Unlock()
		}
	}()
	err := relay.Submit(ctx, order)
	returned = true

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRelay, err)
	}
	s.cart.Clear()
	s.form = checkout.Form{}
	s.selected = nil
	s.view = ViewConfirmation
	return nil
}

// ReturnHome leaves the confirmation page.
func (s *Session) ReturnHome() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != ViewConfirmation {
		return s.transitionError("return home")
	}
	s.view = ViewCatalog
	return nil
}
