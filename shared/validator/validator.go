package validator

import (
	"encoding/json"
	"errors"
	"eventhub/shared/constant"
	"eventhub/shared/failure"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

var (
	ImageMimeTypes  = []string{"image/jpeg", "image/jpg", "image/png", "image/gif"}
	ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

	ErrFileMissing = errors.New("file is missing")
)

func allowedContentType(file *multipart.FileHeader, allowedTypes []string) bool {
	contentType := strings.ToLower(file.Header.Get(constant.RequestHeaderContentType))

	return slices.Contains(allowedTypes, contentType)
}

func withinSize(file *multipart.FileHeader, maxSizeMB float64) bool {
	bytesConversion := 1024.0
	maxSizeBytes := int64(maxSizeMB * bytesConversion * bytesConversion)

	return file.Size <= maxSizeBytes
}

func jsonTagName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonTagName)
}

// Validate decodes JSON from r into data and validates the result.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := Decode(r, data); err != nil {
		return err
	}

	return ValidateStruct(data)
}

// Decode only decodes JSON from r, leaving validation to the caller.
func Decode[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		return failure.Validation(details(err)) //nolint:wrapcheck
	}

	return nil
}

// ValidateFile checks an uploaded image against the allowed content types,
// extensions and the size limit in megabytes.
func ValidateFile(file *multipart.FileHeader, maxSizeMB int) error {
	if file == nil {
		return failure.BadRequest(ErrFileMissing) //nolint:wrapcheck
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !slices.Contains(ImageExtensions, ext) || !allowedContentType(file, ImageMimeTypes) {
		return failure.BadRequestFromString("Only image files are allowed") //nolint:wrapcheck
	}

	if !withinSize(file, float64(maxSizeMB)) {
		return failure.BadRequestFromString(fmt.Sprintf("File %s exceeds %d MB", file.Filename, maxSizeMB)) //nolint:wrapcheck
	}

	return nil
}
