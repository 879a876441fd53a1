package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cognitoidp/internal/idp"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want int
	}{
		{http.StatusOK, http.StatusOK},
		{http.StatusUnauthorized, http.StatusUnauthorized},
		{http.StatusNotFound, http.StatusNotFound},
		{http.StatusInternalServerError, http.StatusInternalServerError},
		{0, http.StatusInternalServerError},
		{http.StatusTeapot, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizeStatus(tt.in))
		})
	}
}

func TestMapProviderError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &idp.Error{Op: "delete_user", Status: http.StatusNotFound}, http.StatusNotFound},
		{"unauthorized", fmt.Errorf("wrapped: %w", &idp.Error{Status: http.StatusUnauthorized}), http.StatusUnauthorized},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var he *echo.HTTPError
			require.ErrorAs(t, mapProviderError(tt.err), &he)
			assert.Equal(t, tt.want, he.Code)
			assert.ErrorIs(t, he.Internal, tt.err)
		})
	}
}

func TestRespondEmptyBodyOnFailure(t *testing.T) {
	t.Parallel()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, respond(c, idp.Status[idp.TokenResponse](http.StatusNotFound)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCleanNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"admin", "viewer"}, cleanNames([]string{" admin ", "", "  ", "viewer"}))
}
