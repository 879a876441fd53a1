// Package adapter exposes the Cognito services through the idp.Adapter contract.
package adapter

import (
	"context"

	"cognitoidp/internal/idp"
	"cognitoidp/internal/service"

	"github.com/sirupsen/logrus"
)

// Users is the token-holder half of the contract.
type Users interface {
	Login(ctx context.Context, req idp.LoginRequest) idp.Response[idp.TokenResponse]
	Refresh(ctx context.Context, req idp.RefreshRequest) idp.Response[idp.TokenResponse]
	Logout(ctx context.Context, req idp.LogoutRequest) error
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	Introspect(ctx context.Context, token string) idp.Response[idp.IntrospectionResponse]
	GetUserInfo(ctx context.Context, accessToken string) idp.Response[idp.UserInfoResponse]
}

// Admins is the administrative half of the contract.
type Admins interface {
	CreateUser(ctx context.Context, req idp.CreateUserRequest) idp.Response[idp.CreateUserResponse]
	UpdateUser(ctx context.Context, req idp.UpdateUserRequest) idp.Response[idp.UpdateUserResponse]
	DeleteUser(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, req idp.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, userID string) error
	CreateRoles(ctx context.Context, req idp.CreateRolesRequest) idp.Response[idp.CreateRolesResponse]
	AssignRolesToUser(ctx context.Context, req idp.AssignRolesRequest) error
	RemoveRolesFromUser(ctx context.Context, req idp.AssignRolesRequest) error
	GetRoles(ctx context.Context, userID string) idp.Response[[]string]
	CreateScope(ctx context.Context, req idp.CreateScopeRequest) idp.Response[idp.CreateScopeResponse]
	ListSessions(ctx context.Context, userID string) idp.Response[[]idp.SessionInfo]
	RevokeSession(ctx context.Context, req idp.RevokeSessionRequest) error
	MfaChallenge(ctx context.Context, req idp.MfaChallengeRequest) idp.Response[idp.MfaChallengeResponse]
	MfaVerify(ctx context.Context, req idp.MfaVerifyRequest) error
}

var (
	_ Users  = (*service.UserService)(nil)
	_ Admins = (*service.AdminService)(nil)
)

// Cognito forwards every call unchanged to the user or admin service.
type Cognito struct {
	users  Users
	admins Admins
	log    logrus.FieldLogger
}

var _ idp.Adapter = (*Cognito)(nil)

func New(users Users, admins Admins, logger logrus.FieldLogger) *Cognito {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Cognito{
		users:  users,
		admins: admins,
		log:    logger.WithField("component", "cognito_adapter"),
	}
}

func (a *Cognito) delegate(op string) {
	a.log.Debugf("delegating %s to cognito", op)
}

func (a *Cognito) Login(ctx context.Context, req idp.LoginRequest) idp.Response[idp.TokenResponse] {
	a.delegate("login")
	return a.users.Login(ctx, req)
}

func (a *Cognito) Refresh(ctx context.Context, req idp.RefreshRequest) idp.Response[idp.TokenResponse] {
	a.delegate("refresh")
	return a.users.Refresh(ctx, req)
}

func (a *Cognito) Logout(ctx context.Context, req idp.LogoutRequest) error {
	a.delegate("logout")
	return a.users.Logout(ctx, req)
}

func (a *Cognito) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	a.delegate("revoke refresh token")
	return a.users.RevokeRefreshToken(ctx, refreshToken)
}

func (a *Cognito) Introspect(ctx context.Context, token string) idp.Response[idp.IntrospectionResponse] {
	a.delegate("introspect")
	return a.users.Introspect(ctx, token)
}

func (a *Cognito) GetUserInfo(ctx context.Context, accessToken string) idp.Response[idp.UserInfoResponse] {
	a.delegate("get user info")
	return a.users.GetUserInfo(ctx, accessToken)
}

func (a *Cognito) CreateUser(ctx context.Context, req idp.CreateUserRequest) idp.Response[idp.CreateUserResponse] {
	a.delegate("create user")
	return a.admins.CreateUser(ctx, req)
}

func (a *Cognito) UpdateUser(ctx context.Context, req idp.UpdateUserRequest) idp.Response[idp.UpdateUserResponse] {
	a.delegate("update user")
	return a.admins.UpdateUser(ctx, req)
}

func (a *Cognito) DeleteUser(ctx context.Context, userID string) error {
	a.delegate("delete user")
	return a.admins.DeleteUser(ctx, userID)
}

func (a *Cognito) ChangePassword(ctx context.Context, req idp.ChangePasswordRequest) error {
	a.delegate("change password")
	return a.admins.ChangePassword(ctx, req)
}

func (a *Cognito) ResetPassword(ctx context.Context, userID string) error {
	a.delegate("reset password")
	return a.admins.ResetPassword(ctx, userID)
}

func (a *Cognito) CreateRoles(ctx context.Context, req idp.CreateRolesRequest) idp.Response[idp.CreateRolesResponse] {
	a.delegate("create roles")
	return a.admins.CreateRoles(ctx, req)
}

func (a *Cognito) AssignRolesToUser(ctx context.Context, req idp.AssignRolesRequest) error {
	a.delegate("assign roles")
	return a.admins.AssignRolesToUser(ctx, req)
}

func (a *Cognito) RemoveRolesFromUser(ctx context.Context, req idp.AssignRolesRequest) error {
	a.delegate("remove roles")
	return a.admins.RemoveRolesFromUser(ctx, req)
}

func (a *Cognito) GetRoles(ctx context.Context, userID string) idp.Response[[]string] {
	a.delegate("get roles")
	return a.admins.GetRoles(ctx, userID)
}

func (a *Cognito) CreateScope(ctx context.Context, req idp.CreateScopeRequest) idp.Response[idp.CreateScopeResponse] {
	a.delegate("create scope")
	return a.admins.CreateScope(ctx, req)
}

func (a *Cognito) ListSessions(ctx context.Context, userID string) idp.Response[[]idp.SessionInfo] {
	a.delegate("list sessions")
	return a.admins.ListSessions(ctx, userID)
}

func (a *Cognito) RevokeSession(ctx context.Context, req idp.RevokeSessionRequest) error {
	a.delegate("revoke session")
	return a.admins.RevokeSession(ctx, req)
}

func (a *Cognito) MfaChallenge(ctx context.Context, req idp.MfaChallengeRequest) idp.Response[idp.MfaChallengeResponse] {
	a.delegate("mfa challenge")
	return a.admins.MfaChallenge(ctx, req)
}

func (a *Cognito) MfaVerify(ctx context.Context, req idp.MfaVerifyRequest) error {
	a.delegate("mfa verify")
	return a.admins.MfaVerify(ctx, req)
}
