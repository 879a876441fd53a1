// Package idp defines the provider-neutral identity contract served by the
// Cognito adapter and exposed over HTTP.
package idp

import "time"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Scope    string `json:"scope,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	// Username is needed to sign the request when the app client has a secret.
	Username string `json:"username,omitempty"`
}

type LogoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type IntrospectionResponse struct {
	Active   bool   `json:"active"`
	Subject  string `json:"sub,omitempty"`
	Username string `json:"username,omitempty"`
	Scope    string `json:"scope,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

type UserInfoResponse struct {
	Sub               string `json:"sub"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Name              string `json:"name,omitempty"`
	GivenName         string `json:"given_name,omitempty"`
	FamilyName        string `json:"family_name,omitempty"`
	Email             string `json:"email,omitempty"`
	EmailVerified     bool   `json:"email_verified"`
}

// CreateUserRequest leaves optional fields nil when the caller did not set them.
type CreateUserRequest struct {
	Username   string  `json:"username"`
	Email      *string `json:"email,omitempty"`
	GivenName  *string `json:"given_name,omitempty"`
	FamilyName *string `json:"family_name,omitempty"`
	Password   *string `json:"password,omitempty"`
}

type CreateUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type UpdateUserRequest struct {
	UserID     string  `json:"user_id"`
	Email      *string `json:"email,omitempty"`
	GivenName  *string `json:"given_name,omitempty"`
	FamilyName *string `json:"family_name,omitempty"`
}

type UpdateUserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type ChangePasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

type CreateRolesRequest struct {
	RoleNames []string `json:"role_names"`
}

type CreateRolesResponse struct {
	CreatedRoleNames []string `json:"created_role_names"`
	FailedRoleNames  []string `json:"failed_role_names,omitempty"`
}

type AssignRolesRequest struct {
	UserID    string   `json:"user_id"`
	RoleNames []string `json:"role_names"`
}

type CreateScopeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateScopeResponse struct {
	Name           string `json:"name"`
	ResourceServer string `json:"resource_server"`
	// FullName is the value clients request, "<resource server>/<name>".
	FullName string `json:"full_name"`
}

type SessionInfo struct {
	SessionID    string     `json:"session_id"`
	UserID       string     `json:"user_id"`
	DeviceName   string     `json:"device_name,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	LastAccessAt *time.Time `json:"last_access_at,omitempty"`
}

type RevokeSessionRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

type MfaChallengeRequest struct {
	AccessToken string `json:"access_token"`
	// Username labels the authenticator entry; optional.
	Username string `json:"username,omitempty"`
}

type MfaChallengeResponse struct {
	ChallengeID     string `json:"challenge_id,omitempty"`
	DeliveryMethod  string `json:"delivery_method"`
	SecretCode      string `json:"secret_code"`
	ProvisioningURI string `json:"provisioning_uri,omitempty"`
}

type MfaVerifyRequest struct {
	AccessToken string `json:"access_token"`
	ChallengeID string `json:"challenge_id,omitempty"`
	Code        string `json:"code"`
	DeviceName  string `json:"device_name,omitempty"`
}
