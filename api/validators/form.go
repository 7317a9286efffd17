package validators

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

const maxFormField = 2000

// Form reads a multipart form field by field. Values that do not parse are
// collected and reported together by Err.
type Form struct {
	r       *http.Request
	invalid map[string]string
}

// ParseMultipartForm reads the whole form, capping the body at maxBytes.
func ParseMultipartForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*Form, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "form is too large").
				WithDetails(map[string]string{"body": fmt.Sprintf("must be at most %d bytes", maxBytes)})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return &Form{r: r, invalid: map[string]string{}}, nil
}

func (f *Form) Text(key string) string {
	return SanitizeString(f.r.FormValue(key), maxFormField)
}

// Raw returns the value untouched, for secrets such as passwords.
func (f *Form) Raw(key string) string {
	return f.r.FormValue(key)
}

// Number parses a decimal field; blank reads as zero.
func (f *Form) Number(key string) float64 {
	raw := strings.TrimSpace(f.r.FormValue(key))
	if raw == "" {
		return 0
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		f.invalid[key] = "must be a number"
		return 0
	}
	v, _ := d.Float64()
	return v
}

func (f *Form) Int(key string) int {
	raw := strings.TrimSpace(f.r.FormValue(key))
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		f.invalid[key] = "must be a whole number"
		return 0
	}
	return v
}

// Bool returns nil when the field is absent.
func (f *Form) Bool(key string) *bool {
	raw := strings.TrimSpace(f.r.FormValue(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		f.invalid[key] = "must be true or false"
		return nil
	}
	return &v
}

// File returns the uploaded file's name and content, or empty values when
// the field carries no file.
func (f *Form) File(key string) (string, []byte) {
	file, header, err := f.r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		f.invalid[key] = "could not be read"
		return "", nil
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		f.invalid[key] = "could not be read"
		return "", nil
	}
	return header.Filename, data
}

func (f *Form) Err() error {
	if len(f.invalid) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(f.invalid)
}
