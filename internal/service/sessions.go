package service

import (
	"context"
	"time"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/idp"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"
)

// Sessions are backed by remembered devices; a device key is the session id.

func (s *AdminService) ListSessions(ctx context.Context, userID string) idp.Response[[]idp.SessionInfo] {
	log := s.log.WithFields(logrus.Fields{"op": "list_sessions", "user_id": userID})

	sessions := []idp.SessionInfo{}
	status, err := s.call(ctx, "list_sessions", func(ctx context.Context, api cognito.API) error {
		var next *string
		for page := 0; page < maxListPages; page++ {
			out, err := api.AdminListDevices(ctx, &cip.AdminListDevicesInput{
				UserPoolId:      aws.String(s.cfg.UserPoolID),
				Username:        aws.String(userID),
				PaginationToken: next,
			})
			if err != nil {
				return err
			}
			for _, d := range out.Devices {
				sessions = append(sessions, sessionFromDevice(userID, d))
			}
			next = out.PaginationToken
			if aws.ToString(next) == "" {
				return nil
			}
		}
		log.WithField("pages", maxListPages).Warn("device listing truncated")
		return nil
	})
	if err != nil {
		s.logFailure(log, status, err, "list sessions failed")
		return idp.Status[[]idp.SessionInfo](status)
	}
	return idp.OK(sessions)
}

func (s *AdminService) RevokeSession(ctx context.Context, req idp.RevokeSessionRequest) error {
	log := s.log.WithFields(logrus.Fields{"op": "revoke_session", "user_id": req.UserID, "session_id": req.SessionID})

	status, err := s.call(ctx, "revoke_session", func(ctx context.Context, api cognito.API) error {
		_, err := api.AdminForgetDevice(ctx, &cip.AdminForgetDeviceInput{
			UserPoolId: aws.String(s.cfg.UserPoolID),
			Username:   aws.String(req.UserID),
			DeviceKey:  aws.String(req.SessionID),
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "revoke session failed")
		return s.opError("revoke_session", status, err)
	}
	log.Info("session revoked")
	return nil
}

func sessionFromDevice(userID string, d types.DeviceType) idp.SessionInfo {
	attrs := attributeMap(d.DeviceAttributes)
	lastAccess := d.DeviceLastAuthenticatedDate
	if lastAccess == nil {
		lastAccess = d.DeviceLastModifiedDate
	}
	return idp.SessionInfo{
		SessionID:    aws.ToString(d.DeviceKey),
		UserID:       userID,
		DeviceName:   attrs["device_name"],
		CreatedAt:    utc(d.DeviceCreateDate),
		LastAccessAt: utc(lastAccess),
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
