package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"authorstore/internal/cart"
)

// Order is the payload handed to the relay. It exists only for the duration
// of one submission.
type Order struct {
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address string          `json:"address"`
	Email   string          `json:"email"`
	Total   decimal.Decimal `json:"total"`
	Summary string          `json:"order"`
}

// Payload is the relay wire format; total travels as a JSON number.
type Payload struct {
	Name    string      `json:"name"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	Email   string      `json:"email"`
	Total   json.Number `json:"total"`
	Order   string      `json:"order"`
}

// Relay forwards an order to the site owner. Implementations make exactly one
// attempt and do not interpret the response body.
type Relay interface {
	Submit(ctx context.Context, order Order) error
}

// BuildOrder combines the contact form with the cart lines.
func BuildOrder(form Form, items []cart.Item) Order {
	f := form.Trimmed()
	return Order{
		Name:    f.Name,
		Phone:   f.Phone,
		Address: f.Address,
		Email:   f.Email,
		Total:   cart.Total(items),
		Summary: Summary(items),
	}
}

// Summary renders the cart as "<title> (כמות: <qty>, ₪<lineTotal>)" entries
// joined by ", ".
func Summary(items []cart.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (כמות: %d, ₪%s)", it.Title, it.Quantity, it.LineTotal().String()))
	}
	return strings.Join(parts, ", ")
}

// Payload converts the order to its wire format.
func (o Order) Payload() Payload {
	return Payload{
		Name:    o.Name,
		Phone:   o.Phone,
		Address: o.Address,
		Email:   o.Email,
		Total:   json.Number(o.Total.String()),
		Order:   o.Summary,
	}
}
