package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductSendsMultipartForm(t *testing.T) {
	var (
		gotMethod string
		gotFields map[string]string
		gotFile   string
		gotName   string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method + " " + r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotFields = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			gotFields[key] = values[0]
		}
		file, header, err := r.FormFile("productImage")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		gotFile, gotName = string(body), header.Filename
		_, _ = io.WriteString(w, `{"_id": 42, "productName": "Mango"}`)
	})

	product, err := client.CreateProduct(context.Background(), ProductForm{
		Name:       "Mango",
		Discount:   "10",
		SalePrice:  "120",
		CategoryID: "c1",
	}, &Upload{Field: "productImage", Name: "mango.png", Reader: strings.NewReader("png-bytes")})
	require.NoError(t, err)

	assert.Equal(t, "POST /products", gotMethod)
	assert.Equal(t, "Mango", gotFields["productName"])
	assert.Equal(t, "c1", gotFields["categoryId"])
	assert.Equal(t, "png-bytes", gotFile)
	assert.Equal(t, "mango.png", gotName)
	assert.Equal(t, "42", product.ID)
}

func TestUpdateBannerWithoutImageSendsOnlyFields(t *testing.T) {
	var hasFile bool
	var fields map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = r.MultipartForm.Value
		hasFile = len(r.MultipartForm.File) > 0
		_, _ = io.WriteString(w, `{"_id": "b1", "viewOrder": "2", "activeStatus": true}`)
	})

	banner, err := client.UpdateBanner(context.Background(), "b1", BannerForm{ViewOrder: "2", Active: "true"}, nil)
	require.NoError(t, err)
	assert.False(t, hasFile)
	assert.Equal(t, []string{"2"}, fields["viewOrder"])
	assert.Equal(t, 2, banner.ViewOrder)
	assert.True(t, banner.Active)
}

func TestReplyToResponsePutsReply(t *testing.T) {
	var gotPath string
	var body map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"_id": "r1", "name": "Asha", "reply": "Thanks"}`)
	})

	out, err := client.ReplyToResponse(context.Background(), "r1", "Thanks")
	require.NoError(t, err)
	assert.Equal(t, "PUT /responses/r1/reply", gotPath)
	assert.Equal(t, "Thanks", body["reply"])
	assert.Equal(t, "Thanks", out.Reply)
}

func TestContactResponsesDropsMalformedEntries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"_id": "r1", "name": "Asha"}, {"_id": "r2", "name": 7}]`)
	})

	list, err := client.ContactResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r1", list[0].ID)
}
