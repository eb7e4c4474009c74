package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/harshbookstore/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeLister struct {
	books []models.Book
	err   error
}

func (f *fakeLister) ApprovedBooks(ctx context.Context) ([]models.Book, error) {
	return f.books, f.err
}

func TestListReturnsApprovedBooks(t *testing.T) {
	approved := []models.Book{
		{
			ID:         primitive.NewObjectID(),
			Title:      "Dune",
			Author:     "Frank Herbert",
			Genre:      "Science Fiction",
			IsApproved: true,
			Uploader:   "alice",
			CreatedAt:  time.Now().UTC(),
		},
		{
			ID:         primitive.NewObjectID(),
			Title:      "Hyperion",
			Author:     "Dan Simmons",
			Genre:      "Science Fiction",
			IsApproved: true,
			Uploader:   "bob",
			CreatedAt:  time.Now().UTC(),
		},
	}
	h := &BooksHandler{Store: &fakeLister{books: approved}}

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got []models.Book
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	for _, b := range got {
		assert.True(t, b.IsApproved)
	}
	assert.Equal(t, "Dune", got[0].Title)
}

func TestListEmptyCatalogIsEmptyArray(t *testing.T) {
	h := &BooksHandler{Store: &fakeLister{books: []models.Book{}}}

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListStoreFault(t *testing.T) {
	h := &BooksHandler{Store: &fakeLister{err: errors.New("connection reset")}}

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body["message"])
}
