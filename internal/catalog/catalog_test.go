package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultCatalog(t *testing.T) {
	svc := NewDefaultService(zap.NewNop())

	books, err := svc.ListBooks(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 3)

	assert.Equal(t, "תנו למספרים לדבר", books[0].Title)
	assert.True(t, books[0].Price.Equal(decimal.NewFromInt(59)))
	assert.True(t, books[1].Price.Equal(decimal.NewFromInt(69)))
	assert.Equal(t, 146, books[0].Details.Pages)
	assert.Equal(t, "חסכון של ₪29", books[2].Discount)

	got, err := svc.GetBook(context.Background(), books[1].ID)
	require.NoError(t, err)
	assert.Equal(t, books[1].Title, got.Title)
}

func TestBookIDIsStable(t *testing.T) {
	assert.Equal(t, BookID("עשרה פרקים על"), BookID("עשרה פרקים על"))
	assert.NotEqual(t, BookID("עשרה פרקים על"), BookID("תנו למספרים לדבר"))
}

func TestGetBookNotFound(t *testing.T) {
	svc := NewDefaultService(zap.NewNop())
	_, err := svc.GetBook(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMalformedPayloadLeavesCatalogLoading(t *testing.T) {
	svc := NewService(strings.NewReader(`[{"title": "broken"`), zap.NewNop())

	_, err := svc.ListBooks(context.Background())
	assert.ErrorIs(t, err, ErrLoading)
	_, err = svc.GetBook(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrLoading)
}

func TestDecodeBooksRejectsDuplicatesAndBlankTitles(t *testing.T) {
	_, err := DecodeBooks(strings.NewReader(`[{"title":"a","price":1},{"title":"a","price":2}]`))
	assert.Error(t, err)

	_, err = DecodeBooks(strings.NewReader(`[{"title":"  ","price":1}]`))
	assert.Error(t, err)

	_, err = DecodeBooks(strings.NewReader(`[{"title":"a","price":-1}]`))
	assert.Error(t, err)
}

func TestImageAtWraps(t *testing.T) {
	b := Book{Cover: "cover.jpg", Images: []string{"a", "b", "c"}}
	assert.Equal(t, "a", b.ImageAt(0))
	assert.Equal(t, "a", b.ImageAt(3))
	assert.Equal(t, "c", b.ImageAt(-1))
	assert.Equal(t, "cover.jpg", Book{Cover: "cover.jpg"}.ImageAt(5))
}

func newTestRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc, zap.NewNop()).Register(r)
	return r
}

func TestHandler(t *testing.T) {
	svc := NewDefaultService(zap.NewNop())
	router := newTestRouter(svc)
	books, _ := svc.ListBooks(context.Background())

	tests := []struct {
		name       string
		path       string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "list",
			path:       "/books",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got []Book
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Len(t, got, 3)
			},
		},
		{
			name:       "get",
			path:       "/books/" + books[0].ID.String(),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got Book
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, books[0].Title, got.Title)
			},
		},
		{name: "invalid id", path: "/books/not-a-uuid", wantStatus: http.StatusBadRequest},
		{name: "unknown id", path: "/books/" + uuid.NewString(), wantStatus: http.StatusNotFound},
		{
			name:       "preview malformed",
			path:       "/books/preview?bookData=" + url.QueryEscape("{oops"),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), `"status":"loading"`)
			},
		},
		{
			name:       "preview valid",
			path:       "/books/preview?bookData=" + url.QueryEscape(`{"title":"ספר","price":10}`),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got Book
				require.NoError(t, json.Unmarshal(body, &got))
				assert.Equal(t, BookID("ספר"), got.ID)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.check != nil {
				tc.check(t, rec.Body.Bytes())
			}
		})
	}
}

func TestHandlerLoadingState(t *testing.T) {
	router := newTestRouter(NewService(strings.NewReader("nope"), zap.NewNop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "loading")
}
