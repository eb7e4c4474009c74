// Package storage persists uploaded book files under a local uploads root,
// with pdfs/ and covers/ subdirectories so the file kind is readable from
// the path alone.
package storage

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	FieldPDF   = "pdf"
	FieldCover = "coverImage"

	// MaxFileSize caps each uploaded file at 10 MiB.
	MaxFileSize = 10 << 20

	pdfDir   = "pdfs"
	coverDir = "covers"

	pdfContentType  = "application/pdf"
	imageTypePrefix = "image/"
)

// ValidationError marks a rejected upload as a caller mistake rather than a
// storage fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// CheckPart decides whether an uploaded part is acceptable from its field
// name, declared content type and size. It is a pure decision: nothing is
// read or written.
func CheckPart(field, contentType string, size int64) *ValidationError {
	if size > MaxFileSize {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%s exceeds the 10 MiB size limit", field)}
	}
	switch field {
	case FieldPDF:
		if contentType != pdfContentType {
			return &ValidationError{Field: field, Reason: "invalid file type for pdf, only PDF is allowed"}
		}
	case FieldCover:
		if !strings.HasPrefix(contentType, imageTypePrefix) {
			return &ValidationError{Field: field, Reason: "invalid file type for coverImage, only images are allowed"}
		}
	default:
		return &ValidationError{Field: field, Reason: "unexpected file field " + field}
	}
	return nil
}

type Store struct {
	root string
}

// New prepares the uploads root, creating the pdfs and covers
// subdirectories if absent. A root that cannot be created is a startup
// failure, not something to paper over.
func New(root string) (*Store, error) {
	for _, dir := range []string{pdfDir, coverDir} {
		p := filepath.Join(root, dir)
		if err := os.MkdirAll(p, 0o777); err != nil {
			return nil, fmt.Errorf("create upload dir %s: %w", p, err)
		}
	}
	return &Store{root: root}, nil
}

// SavedFiles holds the web paths of a fully stored upload pair, as embedded
// in the Book record.
type SavedFiles struct {
	PDFPath   string
	CoverPath string

	pdfFile   string
	coverFile string
}

// SaveUploads validates and stores the pdf and coverImage files of a parsed
// multipart form. Both parts are checked before any byte reaches disk; if
// the cover write fails after the pdf was written, the pdf is removed so no
// orphan is left behind.
func (s *Store) SaveUploads(form *multipart.Form) (*SavedFiles, error) {
	pdf, err := singleFile(form, FieldPDF)
	if err != nil {
		return nil, err
	}
	cover, err := singleFile(form, FieldCover)
	if err != nil {
		return nil, err
	}
	if pdf == nil || cover == nil {
		return nil, &ValidationError{Reason: "Both PDF and cover image are required"}
	}
	if verr := CheckPart(FieldPDF, partContentType(pdf), pdf.Size); verr != nil {
		return nil, verr
	}
	if verr := CheckPart(FieldCover, partContentType(cover), cover.Size); verr != nil {
		return nil, verr
	}

	pdfName := uniqueName(FieldPDF, pdf.Filename)
	coverName := uniqueName(FieldCover, cover.Filename)

	pdfDst := filepath.Join(s.root, pdfDir, pdfName)
	if err := writeFile(pdfDst, pdf); err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}
	coverDst := filepath.Join(s.root, coverDir, coverName)
	if err := writeFile(coverDst, cover); err != nil {
		if rmErr := os.Remove(pdfDst); rmErr != nil {
			log.Println("remove orphaned pdf:", rmErr)
		}
		return nil, fmt.Errorf("store cover image: %w", err)
	}

	return &SavedFiles{
		PDFPath:   path.Join("/uploads", pdfDir, pdfName),
		CoverPath: path.Join("/uploads", coverDir, coverName),
		pdfFile:   pdfDst,
		coverFile: coverDst,
	}, nil
}

// Remove deletes a stored upload pair, for callers whose record creation
// failed after the files were written.
func (s *Store) Remove(saved *SavedFiles) {
	for _, f := range []string{saved.pdfFile, saved.coverFile} {
		if f == "" {
			continue
		}
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			log.Println("remove stored file:", err)
		}
	}
}

func singleFile(form *multipart.Form, field string) (*multipart.FileHeader, error) {
	if form == nil {
		return nil, nil
	}
	headers := form.File[field]
	switch len(headers) {
	case 0:
		return nil, nil
	case 1:
		return headers[0], nil
	default:
		return nil, &ValidationError{Field: field, Reason: "only one file is allowed for " + field}
	}
}

func partContentType(fh *multipart.FileHeader) string {
	return fh.Header.Get("Content-Type")
}

// uniqueName builds a collision-resistant stored filename. The millisecond
// timestamp plus a random UUID keeps concurrent writers from clashing
// without any locking.
func uniqueName(field, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), uuid.NewString(), ext)
}

func writeFile(dst string, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o666)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
