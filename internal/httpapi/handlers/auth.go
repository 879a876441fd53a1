package handlers

import (
	"net/http"
	"strings"

	"cognitoidp/internal/auth"
	"cognitoidp/internal/idp"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Login(c echo.Context) error {
	var body idp.LoginRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if strings.TrimSpace(body.Username) == "" || body.Password == "" {
		return badRequest("username and password are required")
	}
	return respond(c, h.idp.Login(c.Request().Context(), body))
}

func (h *Handler) Refresh(c echo.Context) error {
	var body idp.RefreshRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if body.RefreshToken == "" {
		return badRequest("refresh_token is required")
	}
	return respond(c, h.idp.Refresh(c.Request().Context(), body))
}

// Logout accepts the access token in the body or as a bearer header.
func (h *Handler) Logout(c echo.Context) error {
	var body idp.LogoutRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if body.AccessToken == "" {
		body.AccessToken = auth.BearerToken(c.Request())
	}
	if body.AccessToken == "" {
		return badRequest("access_token is required")
	}
	return respondVoid(c, h.idp.Logout(c.Request().Context(), body))
}

func (h *Handler) Revoke(c echo.Context) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if body.RefreshToken == "" {
		return badRequest("refresh_token is required")
	}
	return respondVoid(c, h.idp.RevokeRefreshToken(c.Request().Context(), body.RefreshToken))
}

func (h *Handler) Introspect(c echo.Context) error {
	var body struct {
		Token string `json:"token" form:"token"`
	}
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if body.Token == "" {
		return c.JSON(http.StatusOK, idp.IntrospectionResponse{Active: false})
	}
	return respond(c, h.idp.Introspect(c.Request().Context(), body.Token))
}

func (h *Handler) UserInfo(c echo.Context) error {
	token := auth.BearerToken(c.Request())
	if token == "" {
		return c.NoContent(http.StatusUnauthorized)
	}
	return respond(c, h.idp.GetUserInfo(c.Request().Context(), token))
}

func (h *Handler) MfaChallenge(c echo.Context) error {
	var body idp.MfaChallengeRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if body.AccessToken == "" {
		body.AccessToken = auth.BearerToken(c.Request())
	}
	if body.AccessToken == "" {
		return badRequest("access_token is required")
	}
	return respond(c, h.idp.MfaChallenge(c.Request().Context(), body))
}

func (h *Handler) MfaVerify(c echo.Context) error {
	var body idp.MfaVerifyRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if body.AccessToken == "" {
		body.AccessToken = auth.BearerToken(c.Request())
	}
	if body.AccessToken == "" && body.ChallengeID == "" {
		return badRequest("access_token or challenge_id is required")
	}
	if strings.TrimSpace(body.Code) == "" {
		return badRequest("code is required")
	}
	return respondVoid(c, h.idp.MfaVerify(c.Request().Context(), body))
}
