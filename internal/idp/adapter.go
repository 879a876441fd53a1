package idp

import "context"

// Adapter is the full identity-provider contract.
type Adapter interface {
	Login(ctx context.Context, req LoginRequest) Response[TokenResponse]
	Refresh(ctx context.Context, req RefreshRequest) Response[TokenResponse]
	Logout(ctx context.Context, req LogoutRequest) error
	RevokeRefreshToken(ctx context.Context, refreshToken string) error
	Introspect(ctx context.Context, token string) Response[IntrospectionResponse]
	GetUserInfo(ctx context.Context, accessToken string) Response[UserInfoResponse]

	CreateUser(ctx context.Context, req CreateUserRequest) Response[CreateUserResponse]
	UpdateUser(ctx context.Context, req UpdateUserRequest) Response[UpdateUserResponse]
	DeleteUser(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	ResetPassword(ctx context.Context, userID string) error

	CreateRoles(ctx context.Context, req CreateRolesRequest) Response[CreateRolesResponse]
	AssignRolesToUser(ctx context.Context, req AssignRolesRequest) error
	RemoveRolesFromUser(ctx context.Context, req AssignRolesRequest) error
	GetRoles(ctx context.Context, userID string) Response[[]string]
	CreateScope(ctx context.Context, req CreateScopeRequest) Response[CreateScopeResponse]

	ListSessions(ctx context.Context, userID string) Response[[]SessionInfo]
	RevokeSession(ctx context.Context, req RevokeSessionRequest) error

	MfaChallenge(ctx context.Context, req MfaChallengeRequest) Response[MfaChallengeResponse]
	MfaVerify(ctx context.Context, req MfaVerifyRequest) error
}
