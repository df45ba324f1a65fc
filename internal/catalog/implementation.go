package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("book not found")
	// ErrLoading is returned while no usable catalog payload is available.
	ErrLoading = errors.New("catalog is loading")
)

//go:embed books.json
var defaultBooks []byte

// service implements the Service interface.
type service struct {
	books   []Book
	byID    map[uuid.UUID]int
	loadErr error
}

// NewDefaultService creates a catalog backed by the bundled book list.
func NewDefaultService(logger *zap.Logger) Service {
	return NewService(bytes.NewReader(defaultBooks), logger)
}

// NewService creates a catalog from a JSON array of books. A malformed payload
// is logged and leaves the catalog in the loading state rather than failing.
func NewService(r io.Reader, logger *zap.Logger) Service {
	books, err := DecodeBooks(r)
	if err != nil {
		logger.Error("invalid catalog payload", zap.Error(err))
		return &service{loadErr: err}
	}

	s := &service{
		books: books,
		byID:  make(map[uuid.UUID]int, len(books)),
	}
	for i, b := range books {
		s.byID[b.ID] = i
	}
	logger.Info("catalog loaded", zap.Int("books", len(books)))
	return s
}

// DecodeBooks parses a JSON array of books and assigns their ids.
func DecodeBooks(r io.Reader) ([]Book, error) {
	var books []Book
	if err := json.NewDecoder(r).Decode(&books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	seen := make(map[uuid.UUID]struct{}, len(books))
	for i := range books {
		if err := normalize(&books[i]); err != nil {
			return nil, fmt.Errorf("book %d: %w", i, err)
		}
		if _, dup := seen[books[i].ID]; dup {
			return nil, fmt.Errorf("book %d: duplicate title %q", i, books[i].Title)
		}
		seen[books[i].ID] = struct{}{}
	}
	return books, nil
}

// ParseBook decodes a single serialized book, as passed to the preview page.
func ParseBook(data string) (*Book, error) {
	var b Book
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		return nil, fmt.Errorf("decode book: %w", err)
	}
	if err := normalize(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

func normalize(b *Book) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return errors.New("title is required")
	}
	if b.Price.IsNegative() {
		return fmt.Errorf("negative price %s", b.Price)
	}
	if b.ID == uuid.Nil {
		b.ID = BookID(b.Title)
	}
	return nil
}

// ListBooks returns the catalog in display order.
func (s *service) ListBooks(ctx context.Context) ([]Book, error) {
	if s.loadErr != nil {
		return nil, ErrLoading
	}
	out := make([]Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

// GetBook retrieves a book by its id.
func (s *service) GetBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	if s.loadErr != nil {
		return nil, ErrLoading
	}
	i, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	b := s.books[i]
	return &b, nil
}
