package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/harshbookstore/backend/models"
)

// BookLister is the read side of the catalog store.
type BookLister interface {
	ApprovedBooks(ctx context.Context) ([]models.Book, error)
}

type BooksHandler struct {
	Store BookLister
}

// List serves the public catalog: approved books only.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	books, err := h.Store.ApprovedBooks(r.Context())
	if err != nil {
		log.Println("list books:", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch books")
		return
	}
	respondJSON(w, http.StatusOK, books)
}
