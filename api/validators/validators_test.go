package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quantityBody struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":2}`))
	var body quantityBody
	require.NoError(t, DecodeJSONBody(r, &body))
	assert.Equal(t, 2, body.Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFieldsAndInvalidValues(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":2,"extra":true}`))
	err := DecodeJSONBody(r, &quantityBody{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":0}`))
	err = DecodeJSONBody(r, &quantityBody{})
	require.Error(t, err)
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "quantity")

	r = httptest.NewRequest("POST", "/", strings.NewReader(``))
	err = DecodeJSONBody(r, &quantityBody{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/?page=3&bad=x&big=500", nil)
	v, err := ParseQueryInt(r, "page", 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = ParseQueryInt(r, "missing", 7, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	_, err = ParseQueryInt(r, "bad", 1, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ParseQueryInt(r, "big", 1, 1, 100)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "apple", SanitizeString("  apple  ", 10))
	assert.Equal(t, "app", SanitizeString("apple", 3))
	assert.Equal(t, "apple", SanitizeString("apple", 0))
	assert.Equal(t, "आम", SanitizeString("आमरस", 2), "cuts on rune boundaries")
	assert.Equal(t, "ñandú", SanitizeString(" ñandú ", 5))
	assert.Equal(t, "ab", SanitizeString("a\xffb", 10), "invalid bytes are dropped")
}
