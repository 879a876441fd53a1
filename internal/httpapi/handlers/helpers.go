package handlers

import (
	"net/http"
	"strings"

	"cognitoidp/internal/idp"

	"github.com/labstack/echo/v4"
)

// respond writes the body of a 200 response as JSON. Any other status is
// sent with an empty body.
func respond[T any](c echo.Context, resp idp.Response[T]) error {
	if resp.IsOK() {
		return c.JSON(http.StatusOK, resp.Body)
	}
	return c.NoContent(normalizeStatus(resp.Status))
}

// respondVoid maps the error of a body-less operation to its status.
func respondVoid(c echo.Context, err error) error {
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return mapProviderError(err)
}

func mapProviderError(err error) error {
	status := normalizeStatus(idp.StatusOf(err))
	return echo.NewHTTPError(status, http.StatusText(status)).SetInternal(err)
}

func normalizeStatus(status int) int {
	switch status {
	case http.StatusOK, http.StatusUnauthorized, http.StatusNotFound:
		return status
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

func bindJSON(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

func pathParam(c echo.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Param(name))
	if v == "" {
		return "", badRequest(name + " is required")
	}
	return v, nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
