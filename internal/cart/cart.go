// Package cart holds the ordered list of line items a visitor intends to buy.
//
// Line items have no identity of their own: they are addressed by position,
// and adding the same book twice yields two separate lines.
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"authorstore/internal/catalog"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrIndexOutOfRange = errors.New("cart index out of range")
)

// Item is a catalog book copied at add time plus the chosen quantity.
type Item struct {
	catalog.Book
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is not safe for concurrent use; callers serialise access.
type Cart struct {
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// Add appends book with the given quantity.
func (c *Cart) Add(book catalog.Book, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("add %q x%d: %w", book.Title, quantity, ErrInvalidQuantity)
	}
	c.items = append(c.items, Item{Book: book, Quantity: quantity})
	return nil
}

// Remove drops the line at index, keeping the others in order.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("remove %d of %d: %w", index, len(c.items), ErrIndexOutOfRange)
	}
	next := make([]Item, 0, len(c.items)-1)
	next = append(next, c.items[:index]...)
	next = append(next, c.items[index+1:]...)
	c.items = next
	return nil
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) Clear() {
	c.items = nil
}

// Total sums price times quantity over all lines. It is computed on every call.
func (c *Cart) Total() decimal.Decimal {
	return Total(c.items)
}

// Total sums the line totals of items.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}
