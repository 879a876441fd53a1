package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/idp"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/sirupsen/logrus"
)

// maxListPages bounds paginated listings.
const maxListPages = 100

// RoleBatchError lists the roles a batch operation could not apply.
type RoleBatchError struct {
	Failed []string
	Err    error
}

func (e *RoleBatchError) Error() string {
	return fmt.Sprintf("%d role(s) failed [%s]: %v", len(e.Failed), strings.Join(e.Failed, ", "), e.Err)
}

func (e *RoleBatchError) Unwrap() error { return e.Err }

// CreateRoles creates one group per name. A failing name is skipped and
// reported; it never aborts the batch.
func (s *AdminService) CreateRoles(ctx context.Context, req idp.CreateRolesRequest) idp.Response[idp.CreateRolesResponse] {
	log := s.log.WithField("op", "create_roles")
	log.WithField("count", len(req.RoleNames)).Info("creating roles")

	resp := idp.CreateRolesResponse{CreatedRoleNames: make([]string, 0, len(req.RoleNames))}
	for _, name := range req.RoleNames {
		status, err := s.call(ctx, "create_role", func(ctx context.Context, api cognito.API) error {
			_, err := api.CreateGroup(ctx, &cip.CreateGroupInput{
				GroupName:   aws.String(name),
				UserPoolId:  aws.String(s.cfg.UserPoolID),
				Description: aws.String("Role: " + name),
			})
			return err
		})
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"role":   name,
				"status": status,
				"code":   cognito.ErrorCode(err),
			}).Warn("skipping role")
			resp.FailedRoleNames = append(resp.FailedRoleNames, name)
			continue
		}
		resp.CreatedRoleNames = append(resp.CreatedRoleNames, name)
	}

	log.WithFields(logrus.Fields{
		"created": len(resp.CreatedRoleNames),
		"failed":  len(resp.FailedRoleNames),
	}).Info("roles created")
	return idp.OK(resp)
}

func (s *AdminService) AssignRolesToUser(ctx context.Context, req idp.AssignRolesRequest) error {
	return s.applyRoles(ctx, "assign_roles", req, func(ctx context.Context, api cognito.API, role string) error {
		_, err := api.AdminAddUserToGroup(ctx, &cip.AdminAddUserToGroupInput{
			GroupName:  aws.String(role),
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Username:   aws.String(req.UserID),
		})
		return err
	})
}

func (s *AdminService) RemoveRolesFromUser(ctx context.Context, req idp.AssignRolesRequest) error {
	return s.applyRoles(ctx, "remove_roles", req, func(ctx context.Context, api cognito.API, role string) error {
		_, err := api.AdminRemoveUserFromGroup(ctx, &cip.AdminRemoveUserFromGroupInput{
			GroupName:  aws.String(role),
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Username:   aws.String(req.UserID),
		})
		return err
	})
}

// applyRoles attempts every role in order and reports the ones that failed.
// When all failures share a status (a missing user gives 404 for each) that
// status is returned, otherwise 500.
func (s *AdminService) applyRoles(
	ctx context.Context,
	op string,
	req idp.AssignRolesRequest,
	apply func(ctx context.Context, api cognito.API, role string) error,
) error {
	log := s.log.WithFields(logrus.Fields{"op": op, "user_id": req.UserID})

	var (
		failed []string
		errs   []error
		status int
	)
	for _, role := range req.RoleNames {
		st, err := s.call(ctx, op, func(ctx context.Context, api cognito.API) error {
			return apply(ctx, api, role)
		})
		if err != nil {
			log.WithError(err).WithFields(logrus.Fields{"role": role, "status": st}).Warn("role change failed")
			failed = append(failed, role)
			errs = append(errs, fmt.Errorf("%s: %w", role, err))
			switch {
			case status == 0:
				status = st
			case status != st:
				status = http.StatusInternalServerError
			}
			continue
		}
		log.WithField("role", role).Debug("role change applied")
	}

	if len(failed) > 0 {
		log.WithField("failed", failed).Error("role batch incomplete")
		return s.opError(op, status, &RoleBatchError{Failed: failed, Err: errors.Join(errs...)})
	}
	log.WithField("count", len(req.RoleNames)).Info("roles updated")
	return nil
}

// GetRoles lists every group of the user. Provider failures are reported
// with their classified status rather than as an empty list.
func (s *AdminService) GetRoles(ctx context.Context, userID string) idp.Response[[]string] {
	log := s.log.WithFields(logrus.Fields{"op": "get_roles", "user_id": userID})

	roles := []string{}
	status, err := s.call(ctx, "get_roles", func(ctx context.Context, api cognito.API) error {
		var next *string
		for page := 0; page < maxListPages; page++ {
			out, err := api.AdminListGroupsForUser(ctx, &cip.AdminListGroupsForUserInput{
				UserPoolId: aws.String(s.cfg.UserPoolID),
				Username:   aws.String(userID),
				NextToken:  next,
			})
			if err != nil {
				return err
			}
			for _, g := range out.Groups {
				roles = append(roles, aws.ToString(g.GroupName))
			}
			next = out.NextToken
			if aws.ToString(next) == "" {
				return nil
			}
		}
		log.WithField("pages", maxListPages).Warn("group listing truncated")
		return nil
	})
	if err != nil {
		s.logFailure(log, status, err, "list roles failed")
		return idp.Status[[]string](status)
	}
	return idp.OK(roles)
}
