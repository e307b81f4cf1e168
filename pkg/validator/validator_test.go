package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewRequest struct {
	DrinkID string `json:"drink_id" validate:"required"`
	Rating  int    `json:"rating" validate:"gte=0,lte=5"`
	Comment string `json:"comment" validate:"max=300"`
}

func TestValidate_OK(t *testing.T) {
	err := Validate(reviewRequest{DrinkID: "d-1", Rating: 4, Comment: "good"})
	assert.NoError(t, err)
}

func TestValidate_FieldErrors(t *testing.T) {
	err := Validate(reviewRequest{Rating: 7, Comment: strings.Repeat("a", 301)})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := verr.Fields()
	assert.Equal(t, "is required", fields["drink_id"])
	assert.Equal(t, "must be less than or equal to 5", fields["rating"])
	assert.Equal(t, "must be at most 300", fields["comment"])
	assert.Contains(t, verr.Error(), "field 'drink_id' is required")
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"drink_id":"d-1","rating":3,"comment":"nice"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	var req reviewRequest
	require.NoError(t, DecodeAndValidate(w, r, &req))
	assert.Equal(t, 3, req.Rating)
}

func TestDecodeAndValidate_BadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	w := httptest.NewRecorder()

	var req reviewRequest
	err := DecodeAndValidate(w, r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
