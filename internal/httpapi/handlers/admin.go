package handlers

import (
	"strings"

	"cognitoidp/internal/idp"

	"github.com/labstack/echo/v4"
)

func (h *Handler) CreateUser(c echo.Context) error {
	var body idp.CreateUserRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	body.Username = strings.TrimSpace(body.Username)
	if body.Username == "" {
		return badRequest("username is required")
	}
	return respond(c, h.idp.CreateUser(c.Request().Context(), body))
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	var body idp.UpdateUserRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	body.UserID = id
	return respond(c, h.idp.UpdateUser(c.Request().Context(), body))
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return respondVoid(c, h.idp.DeleteUser(c.Request().Context(), id))
}

func (h *Handler) ChangePassword(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	var body struct {
		NewPassword string `json:"new_password"`
	}
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	if body.NewPassword == "" {
		return badRequest("new_password is required")
	}
	return respondVoid(c, h.idp.ChangePassword(c.Request().Context(), idp.ChangePasswordRequest{
		UserID:      id,
		NewPassword: body.NewPassword,
	}))
}

func (h *Handler) ResetPassword(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return respondVoid(c, h.idp.ResetPassword(c.Request().Context(), id))
}

func (h *Handler) CreateRoles(c echo.Context) error {
	var body idp.CreateRolesRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	body.RoleNames = cleanNames(body.RoleNames)
	if len(body.RoleNames) == 0 {
		return badRequest("role_names is required")
	}
	return respond(c, h.idp.CreateRoles(c.Request().Context(), body))
}

func (h *Handler) GetRoles(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return respond(c, h.idp.GetRoles(c.Request().Context(), id))
}

func (h *Handler) AssignRoles(c echo.Context) error {
	req, err := bindRoleChange(c)
	if err != nil {
		return err
	}
	return respondVoid(c, h.idp.AssignRolesToUser(c.Request().Context(), req))
}

func (h *Handler) RemoveRoles(c echo.Context) error {
	req, err := bindRoleChange(c)
	if err != nil {
		return err
	}
	return respondVoid(c, h.idp.RemoveRolesFromUser(c.Request().Context(), req))
}

func bindRoleChange(c echo.Context) (idp.AssignRolesRequest, error) {
	id, err := pathParam(c, "id")
	if err != nil {
		return idp.AssignRolesRequest{}, err
	}
	var body struct {
		RoleNames []string `json:"role_names"`
	}
	if err := bindJSON(c, &body); err != nil {
		return idp.AssignRolesRequest{}, err
	}
	names := cleanNames(body.RoleNames)
	if len(names) == 0 {
		return idp.AssignRolesRequest{}, badRequest("role_names is required")
	}
	return idp.AssignRolesRequest{UserID: id, RoleNames: names}, nil
}

func (h *Handler) CreateScope(c echo.Context) error {
	var body idp.CreateScopeRequest
	if err := bindJSON(c, &body); err != nil {
		return err
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return badRequest("name is required")
	}
	return respond(c, h.idp.CreateScope(c.Request().Context(), body))
}

func (h *Handler) ListSessions(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	return respond(c, h.idp.ListSessions(c.Request().Context(), id))
}

func (h *Handler) RevokeSession(c echo.Context) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	sid, err := pathParam(c, "sid")
	if err != nil {
		return err
	}
	return respondVoid(c, h.idp.RevokeSession(c.Request().Context(), idp.RevokeSessionRequest{
		UserID:    id,
		SessionID: sid,
	}))
}
