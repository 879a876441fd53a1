package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/idp"
	"cognitoidp/internal/secrethash"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const introspectionScope = "openid profile email"

// UserService implements the token-holder facing operations.
type UserService struct {
	base
	userGroup singleflight.Group
}

func NewUserService(opts Options) *UserService {
	return &UserService{base: newBase(opts, "user_service")}
}

func (s *UserService) Login(ctx context.Context, req idp.LoginRequest) idp.Response[idp.TokenResponse] {
	log := s.log.WithFields(logrus.Fields{"op": "login", "username": req.Username})
	log.Info("authenticating user")

	params := map[string]string{
		"USERNAME": req.Username,
		"PASSWORD": req.Password,
	}
	if s.cfg.HasClientSecret() {
		hash, err := secrethash.Calculate(s.cfg.ClientID, s.cfg.ClientSecret, req.Username)
		if err != nil {
			log.WithError(err).Error("secret hash unavailable")
			return idp.Status[idp.TokenResponse](http.StatusInternalServerError)
		}
		params["SECRET_HASH"] = hash
	}

	var out *cip.InitiateAuthOutput
	status, err := s.call(ctx, "login", func(ctx context.Context, api cognito.API) error {
		var err error
		out, err = api.InitiateAuth(ctx, &cip.InitiateAuthInput{
			AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
			ClientId:       aws.String(s.cfg.ClientID),
			AuthParameters: params,
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "login failed")
		return idp.Status[idp.TokenResponse](status)
	}
	if out.AuthenticationResult == nil {
		// A challenge (NEW_PASSWORD_REQUIRED, MFA) is not a completed login.
		log.WithField("challenge", string(out.ChallengeName)).Warn("login returned no tokens")
		return idp.Status[idp.TokenResponse](http.StatusUnauthorized)
	}

	log.Info("user authenticated")
	return idp.OK(tokensFrom(out.AuthenticationResult, ""))
}

func (s *UserService) Refresh(ctx context.Context, req idp.RefreshRequest) idp.Response[idp.TokenResponse] {
	log := s.log.WithField("op", "refresh")

	params := map[string]string{"REFRESH_TOKEN": req.RefreshToken}
	if s.cfg.HasClientSecret() && req.Username != "" {
		hash, err := secrethash.Calculate(s.cfg.ClientID, s.cfg.ClientSecret, req.Username)
		if err != nil {
			log.WithError(err).Error("secret hash unavailable")
			return idp.Status[idp.TokenResponse](http.StatusUnauthorized)
		}
		params["SECRET_HASH"] = hash
	}

	var out *cip.InitiateAuthOutput
	status, err := s.call(ctx, "refresh", func(ctx context.Context, api cognito.API) error {
		var err error
		out, err = api.InitiateAuth(ctx, &cip.InitiateAuthInput{
			AuthFlow:       types.AuthFlowTypeRefreshTokenAuth,
			ClientId:       aws.String(s.cfg.ClientID),
			AuthParameters: params,
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "refresh failed")
		return idp.Status[idp.TokenResponse](http.StatusUnauthorized)
	}
	if out.AuthenticationResult == nil {
		log.Warn("refresh returned no tokens")
		return idp.Status[idp.TokenResponse](http.StatusUnauthorized)
	}

	log.Debug("tokens refreshed")
	return idp.OK(tokensFrom(out.AuthenticationResult, req.RefreshToken))
}

// Logout signs the user out of every device. A refresh token in the request
// is revoked afterwards.
func (s *UserService) Logout(ctx context.Context, req idp.LogoutRequest) error {
	log := s.log.WithField("op", "logout")

	status, err := s.call(ctx, "logout", func(ctx context.Context, api cognito.API) error {
		_, err := api.GlobalSignOut(ctx, &cip.GlobalSignOutInput{AccessToken: aws.String(req.AccessToken)})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "global sign out failed")
		return s.opError("logout", status, err)
	}
	log.Info("user signed out globally")

	if req.RefreshToken != "" {
		return s.RevokeRefreshToken(ctx, req.RefreshToken)
	}
	return nil
}

func (s *UserService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	log := s.log.WithField("op", "revoke_refresh_token")

	in := &cip.RevokeTokenInput{
		ClientId: aws.String(s.cfg.ClientID),
		Token:    aws.String(refreshToken),
	}
	if s.cfg.HasClientSecret() {
		in.ClientSecret = aws.String(s.cfg.ClientSecret)
	}
	status, err := s.call(ctx, "revoke_refresh_token", func(ctx context.Context, api cognito.API) error {
		_, err := api.RevokeToken(ctx, in)
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "revoke refresh token failed")
		return s.opError("revoke_refresh_token", status, err)
	}
	log.Info("refresh token revoked")
	return nil
}

// Introspect reports an unauthorized token as inactive rather than failing.
func (s *UserService) Introspect(ctx context.Context, token string) idp.Response[idp.IntrospectionResponse] {
	log := s.log.WithField("op", "introspect")

	user, status, err := s.getUser(ctx, token)
	if err != nil {
		if status == http.StatusUnauthorized {
			log.WithField("code", cognito.ErrorCode(err)).Debug("token inactive")
			return idp.OK(idp.IntrospectionResponse{Active: false})
		}
		s.logFailure(log, status, err, "introspection failed")
		return idp.Status[idp.IntrospectionResponse](http.StatusInternalServerError)
	}

	attrs := attributeMap(user.UserAttributes)
	username := aws.ToString(user.Username)
	return idp.OK(idp.IntrospectionResponse{
		Active:   true,
		Subject:  firstNonEmpty(attrs["sub"], username),
		Username: username,
		Scope:    introspectionScope,
		ClientID: s.cfg.ClientID,
	})
}

func (s *UserService) GetUserInfo(ctx context.Context, accessToken string) idp.Response[idp.UserInfoResponse] {
	log := s.log.WithField("op", "get_user_info")

	user, status, err := s.getUser(ctx, accessToken)
	if err != nil {
		s.logFailure(log, status, err, "user info lookup failed")
		return idp.Status[idp.UserInfoResponse](http.StatusUnauthorized)
	}

	attrs := attributeMap(user.UserAttributes)
	username := aws.ToString(user.Username)
	verified, _ := strconv.ParseBool(attrs["email_verified"])
	return idp.OK(idp.UserInfoResponse{
		Sub:               firstNonEmpty(attrs["sub"], username),
		PreferredUsername: username,
		Name:              attrs["name"],
		GivenName:         attrs["given_name"],
		FamilyName:        attrs["family_name"],
		Email:             attrs["email"],
		EmailVerified:     verified,
	})
}

// getUser collapses concurrent lookups of the same access token into one
// call. The shared call is detached from any single caller's context; each
// caller still stops waiting when its own context ends.
func (s *UserService) getUser(ctx context.Context, accessToken string) (*cip.GetUserOutput, int, error) {
	sum := sha256.Sum256([]byte(accessToken))
	key := hex.EncodeToString(sum[:])

	type result struct {
		out    *cip.GetUserOutput
		status int
	}
	ch := s.userGroup.DoChan(key, func() (any, error) {
		var out *cip.GetUserOutput
		status, err := s.call(context.WithoutCancel(ctx), "get_user", func(ctx context.Context, api cognito.API) error {
			var err error
			out, err = api.GetUser(ctx, &cip.GetUserInput{AccessToken: aws.String(accessToken)})
			return err
		})
		return result{out: out, status: status}, err
	})

	select {
	case <-ctx.Done():
		return nil, cognito.Classify(ctx.Err()), ctx.Err()
	case res := <-ch:
		r, _ := res.Val.(result)
		if res.Err != nil {
			if r.status == 0 {
				r.status = cognito.Classify(res.Err)
			}
			return nil, r.status, res.Err
		}
		return r.out, http.StatusOK, nil
	}
}

func tokensFrom(res *types.AuthenticationResultType, refreshToken string) idp.TokenResponse {
	if refreshToken == "" {
		refreshToken = aws.ToString(res.RefreshToken)
	}
	tokenType := aws.ToString(res.TokenType)
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return idp.TokenResponse{
		AccessToken:  aws.ToString(res.AccessToken),
		RefreshToken: refreshToken,
		IDToken:      aws.ToString(res.IdToken),
		TokenType:    tokenType,
		ExpiresIn:    int64(res.ExpiresIn),
	}
}

func attributeMap(attrs []types.AttributeType) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		out[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
