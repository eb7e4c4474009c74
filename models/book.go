package models

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Author      string             `bson:"author" json:"author" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Genre       string             `bson:"genre" json:"genre" validate:"required"`
	PDFURL      string             `bson:"pdfUrl" json:"pdfUrl" validate:"required"`
	CoverImage  string             `bson:"coverImage" json:"coverImage" validate:"required,imageext"`
	IsApproved  bool               `bson:"isApproved" json:"isApproved"`
	Uploader    string             `bson:"uploader" json:"uploader" validate:"required"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	// imageext keeps the cover-extension rule on the schema so every write
	// path is covered, not just the upload handler.
	_ = v.RegisterValidation("imageext", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(filepath.Ext(fl.Field().String())) {
		case ".jpg", ".jpeg", ".png", ".gif":
			return true
		}
		return false
	})

	return v
}

// Validate checks the record's required fields and the cover image
// extension, returning the first violation as a human-readable error.
func (b *Book) Validate() error {
	err := validate.Struct(b)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		if e.Tag() == "imageext" {
			return fmt.Errorf("%v is not a valid image format", e.Value())
		}
		return fmt.Errorf("%s is required", e.Field())
	}
	return err
}
