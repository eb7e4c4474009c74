package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/harshbookstore/backend/models"
	"github.com/harshbookstore/backend/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookInserter is the write side of the catalog store.
type BookInserter interface {
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
}

type UploadHandler struct {
	Store    BookInserter
	Files    *storage.Store
	MaxBytes int64
}

// Upload accepts a multipart book submission: the pdf and coverImage files
// plus the metadata text fields. A new record always starts unapproved.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	saved, err := h.Files.SaveUploads(r.MultipartForm)
	if err != nil {
		var verr *storage.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Error())
			return
		}
		log.Println("save uploads:", err)
		respondError(w, http.StatusInternalServerError, "failed to store uploaded files")
		return
	}

	book := &models.Book{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Description: r.FormValue("description"),
		Genre:       r.FormValue("genre"),
		Uploader:    r.FormValue("uploader"),
		PDFURL:      saved.PDFPath,
		CoverImage:  saved.CoverPath,
		IsApproved:  false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := book.Validate(); err != nil {
		h.Files.Remove(saved)
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.Store.InsertBook(r.Context(), book)
	if err != nil {
		h.Files.Remove(saved)
		log.Println("insert book:", err)
		respondError(w, http.StatusBadRequest, "failed to save book record")
		return
	}
	book.ID = id
	respondJSON(w, http.StatusCreated, book)
}
