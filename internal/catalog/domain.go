package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is one title offered by the storefront. Books are loaded once at
// startup and never mutated.
type Book struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Author          string          `json:"author"`
	Price           decimal.Decimal `json:"price"`
	Discount        string          `json:"discount,omitempty"`
	Cover           string          `json:"cover"`
	Images          []string        `json:"images"`
	Description     string          `json:"description"`
	LongDescription string          `json:"longDescription,omitempty"`
	Details         Details         `json:"details"`
}

// Details holds the bibliographic fields shown on the book page.
type Details struct {
	Pages           int    `json:"pages"`
	Language        string `json:"language"`
	Publisher       string `json:"publisher"`
	PublicationDate string `json:"publicationDate"`
	ISBN            string `json:"isbn"`
}

// bookNamespace seeds the name-based ids so a title always maps to the same id.
var bookNamespace = uuid.MustParse("8f1c6a52-4d0e-4b8e-9a57-3f4f2d7f61c1")

// BookID returns the stable id for a title.
func BookID(title string) uuid.UUID {
	return uuid.NewSHA1(bookNamespace, []byte(title))
}

// ImageAt returns the image shown at position i of the gallery, wrapping in
// both directions. Books without a gallery fall back to the cover.
func (b Book) ImageAt(i int) string {
	if len(b.Images) == 0 {
		return b.Cover
	}
	n := len(b.Images)
	return b.Images[((i%n)+n)%n]
}
