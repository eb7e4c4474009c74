package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBook() *Book {
	return &Book{
		Title:       "The Go Programming Language",
		Author:      "Donovan & Kernighan",
		Description: "A tour of Go.",
		Genre:       "Technology",
		PDFURL:      "/uploads/pdfs/pdf-1700000000000-abc.pdf",
		CoverImage:  "/uploads/covers/coverImage-1700000000000-abc.jpg",
		Uploader:    "alice",
		CreatedAt:   time.Now(),
	}
}

func TestBookValidate(t *testing.T) {
	require.NoError(t, validBook().Validate())
}

func TestBookValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Book)
		want   string
	}{
		{"missing title", func(b *Book) { b.Title = "" }, "title is required"},
		{"missing author", func(b *Book) { b.Author = "" }, "author is required"},
		{"missing description", func(b *Book) { b.Description = "" }, "description is required"},
		{"missing genre", func(b *Book) { b.Genre = "" }, "genre is required"},
		{"missing pdf url", func(b *Book) { b.PDFURL = "" }, "pdfUrl is required"},
		{"missing cover image", func(b *Book) { b.CoverImage = "" }, "coverImage is required"},
		{"missing uploader", func(b *Book) { b.Uploader = "" }, "uploader is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBook()
			tt.mutate(b)
			err := b.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestBookValidateCoverExtension(t *testing.T) {
	tests := []struct {
		name  string
		cover string
		ok    bool
	}{
		{"jpg", "/uploads/covers/coverImage-1-a.jpg", true},
		{"jpeg", "/uploads/covers/coverImage-1-a.jpeg", true},
		{"png", "/uploads/covers/coverImage-1-a.png", true},
		{"gif", "/uploads/covers/coverImage-1-a.gif", true},
		{"uppercase JPG", "/uploads/covers/coverImage-1-a.JPG", true},
		{"webp rejected", "/uploads/covers/coverImage-1-a.webp", false},
		{"pdf rejected", "/uploads/covers/coverImage-1-a.pdf", false},
		{"no extension", "/uploads/covers/coverImage-1-a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBook()
			b.CoverImage = tt.cover
			err := b.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "is not a valid image format")
			}
		})
	}
}

// Genre is free text, not an enum: anything non-empty passes.
func TestBookValidateGenreIsFreeText(t *testing.T) {
	b := validBook()
	b.Genre = "Speculative Cookbook Noir"
	assert.NoError(t, b.Validate())
}
