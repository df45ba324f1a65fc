package checkout

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// AlertMissingFields is shown when the form fails validation.
	AlertMissingFields = "אנא מלא את כל השדות הנדרשים בטופס."
	// AlertRelayFailure is shown when the order could not be handed to the relay.
	AlertRelayFailure = "שגיאה בחיבור לשרת. אנא נסה שוב."
	// AlertEmptyCart is shown when an order is submitted with nothing in the cart.
	AlertEmptyCart = "סל הקניות ריק. אנא הוסף ספר לפני ביצוע ההזמנה."
)

var fieldMessages = map[string]string{
	"name":    "שם הוא שדה חובה",
	"phone":   "טלפון הוא שדה חובה",
	"address": "כתובת היא שדה חובה",
	"email":   "כתובת דואר אלקטרוני הוא שדה חובה",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Form is the contact information collected on the purchase page.
type Form struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

// Trimmed returns the form with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Address: strings.TrimSpace(f.Address),
		Email:   strings.TrimSpace(f.Email),
	}
}

// ValidationError lists the missing fields with the message to show next to each.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := e.FieldNames()
	return "missing required fields: " + strings.Join(names, ", ")
}

// FieldNames returns the offending field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every required field is non-blank. It returns a
// *ValidationError naming exactly the blank fields.
func (f Form) Validate() error {
	err := validate.Struct(f.Trimmed())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		ve.Fields[fe.Field()] = fieldMessages[fe.Field()]
	}
	return ve
}
