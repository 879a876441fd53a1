package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/idp"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

// AdminService implements user, role, scope, session and MFA administration
// against one user pool.
type AdminService struct {
	base
	mfaIssuer string
}

func NewAdminService(opts Options) *AdminService {
	issuer := strings.TrimSpace(opts.MFAIssuer)
	if issuer == "" {
		issuer = "Cognito"
	}
	return &AdminService{
		base:      newBase(opts, "admin_service"),
		mfaIssuer: issuer,
	}
}

func (s *AdminService) CreateUser(ctx context.Context, req idp.CreateUserRequest) idp.Response[idp.CreateUserResponse] {
	log := s.log.WithFields(logrus.Fields{"op": "create_user", "username": req.Username})
	log.Info("creating user")

	attrs := userAttributes(req.Email, req.GivenName, req.FamilyName)
	in := &cip.AdminCreateUserInput{
		UserPoolId:     aws.String(s.cfg.UserPoolID),
		Username:       aws.String(req.Username),
		UserAttributes: attrs,
		MessageAction:  types.MessageActionTypeSuppress,
	}
	if req.Password != nil {
		in.TemporaryPassword = req.Password
	}

	var out *cip.AdminCreateUserOutput
	status, err := s.call(ctx, "create_user", func(ctx context.Context, api cognito.API) error {
		var err error
		out, err = api.AdminCreateUser(ctx, in)
		if err != nil {
			return err
		}
		if req.Password == nil {
			return nil
		}
		// Without this the account stays in FORCE_CHANGE_PASSWORD and cannot
		// use the password flow.
		_, err = api.AdminSetUserPassword(ctx, &cip.AdminSetUserPasswordInput{
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Username:   aws.String(req.Username),
			Password:   req.Password,
			Permanent:  true,
		})
		if err != nil {
			s.rollbackCreate(ctx, api, log, req.Username)
			return fmt.Errorf("set permanent password: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure(log, status, err, "create user failed")
		return idp.Status[idp.CreateUserResponse](http.StatusInternalServerError)
	}

	resp := idp.CreateUserResponse{Username: req.Username, Email: aws.ToString(req.Email)}
	if out.User != nil {
		created := attributeMap(out.User.Attributes)
		resp.Username = firstNonEmpty(aws.ToString(out.User.Username), req.Username)
		resp.ID = firstNonEmpty(created["sub"], resp.Username)
		resp.Email = firstNonEmpty(created["email"], resp.Email)
	} else {
		resp.ID = resp.Username
	}
	log.WithField("user_id", resp.ID).Info("user created")
	return idp.OK(resp)
}

// rollbackCreate deletes a user whose password could not be made permanent,
// so a retry does not hit UsernameExists.
func (s *AdminService) rollbackCreate(ctx context.Context, api cognito.API, log *logrus.Entry, username string) {
	_, err := api.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(s.cfg.UserPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		log.WithError(err).WithField("orphaned_user", username).
			Error("user left in FORCE_CHANGE_PASSWORD after failed create; delete it manually")
		return
	}
	log.Warn("user creation rolled back")
}

// UpdateUser only touches attributes that are set; the password is left alone.
func (s *AdminService) UpdateUser(ctx context.Context, req idp.UpdateUserRequest) idp.Response[idp.UpdateUserResponse] {
	log := s.log.WithFields(logrus.Fields{"op": "update_user", "user_id": req.UserID})

	attrs := userAttributes(req.Email, req.GivenName, req.FamilyName)
	if len(attrs) == 0 {
		log.Debug("nothing to update")
		return idp.OK(idp.UpdateUserResponse{ID: req.UserID, Username: req.UserID})
	}

	status, err := s.call(ctx, "update_user", func(ctx context.Context, api cognito.API) error {
		_, err := api.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
			UserPoolId:     aws.String(s.cfg.UserPoolID),
			Username:       aws.String(req.UserID),
			UserAttributes: attrs,
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "update user failed")
		return idp.Status[idp.UpdateUserResponse](http.StatusInternalServerError)
	}
	log.Info("user updated")
	return idp.OK(idp.UpdateUserResponse{ID: req.UserID, Username: req.UserID})
}

func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	log := s.log.WithFields(logrus.Fields{"op": "delete_user", "user_id": userID})

	status, err := s.call(ctx, "delete_user", func(ctx context.Context, api cognito.API) error {
		_, err := api.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Username:   aws.String(userID),
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "delete user failed")
		return s.opError("delete_user", status, err)
	}
	log.Info("user deleted")
	return nil
}

func (s *AdminService) ChangePassword(ctx context.Context, req idp.ChangePasswordRequest) error {
	log := s.log.WithFields(logrus.Fields{"op": "change_password", "user_id": req.UserID})

	status, err := s.call(ctx, "change_password", func(ctx context.Context, api cognito.API) error {
		_, err := api.AdminSetUserPassword(ctx, &cip.AdminSetUserPasswordInput{
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Username:   aws.String(req.UserID),
			Password:   aws.String(req.NewPassword),
			Permanent:  true,
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "change password failed")
		return s.opError("change_password", status, err)
	}
	log.Info("password changed")
	return nil
}

// ResetPassword starts the provider's out-of-band reset flow.
func (s *AdminService) ResetPassword(ctx context.Context, userID string) error {
	log := s.log.WithFields(logrus.Fields{"op": "reset_password", "user_id": userID})

	status, err := s.call(ctx, "reset_password", func(ctx context.Context, api cognito.API) error {
		_, err := api.AdminResetUserPassword(ctx, &cip.AdminResetUserPasswordInput{
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Username:   aws.String(userID),
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "reset password failed")
		return s.opError("reset_password", status, err)
	}
	log.Info("password reset initiated")
	return nil
}

func userAttributes(email, givenName, familyName *string) []types.AttributeType {
	var attrs []types.AttributeType
	if email != nil {
		attrs = append(attrs,
			types.AttributeType{Name: aws.String("email"), Value: email},
			types.AttributeType{Name: aws.String("email_verified"), Value: aws.String("true")},
		)
	}
	if givenName != nil {
		attrs = append(attrs, types.AttributeType{Name: aws.String("given_name"), Value: givenName})
	}
	if familyName != nil {
		attrs = append(attrs, types.AttributeType{Name: aws.String("family_name"), Value: familyName})
	}
	return attrs
}
