package service

import (
	"context"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/idp"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/pquerna/otp/totp"
	"github.com/sirupsen/logrus"
)

const DeliveryMethodTOTP = "totp"

var ErrCodeRejected = errors.New("verification code rejected")

// MfaChallenge starts software token enrolment for the owner of the access
// token and returns the shared secret for an authenticator app.
func (s *AdminService) MfaChallenge(ctx context.Context, req idp.MfaChallengeRequest) idp.Response[idp.MfaChallengeResponse] {
	log := s.log.WithFields(logrus.Fields{"op": "mfa_challenge", "username": req.Username})

	var out *cip.AssociateSoftwareTokenOutput
	status, err := s.call(ctx, "mfa_challenge", func(ctx context.Context, api cognito.API) error {
		var err error
		out, err = api.AssociateSoftwareToken(ctx, &cip.AssociateSoftwareTokenInput{
			AccessToken: aws.String(req.AccessToken),
		})
		return err
	})
	if err != nil {
		s.logFailure(log, status, err, "software token association failed")
		if status == http.StatusUnauthorized {
			return idp.Status[idp.MfaChallengeResponse](status)
		}
		return idp.Status[idp.MfaChallengeResponse](http.StatusInternalServerError)
	}

	secret := aws.ToString(out.SecretCode)
	resp := idp.MfaChallengeResponse{
		ChallengeID:    aws.ToString(out.Session),
		DeliveryMethod: DeliveryMethodTOTP,
		SecretCode:     secret,
	}
	uri, err := provisioningURI(s.mfaIssuer, req.Username, secret)
	if err != nil {
		log.WithError(err).Warn("could not build provisioning uri")
	} else {
		resp.ProvisioningURI = uri
	}
	log.Info("software token association started")
	return idp.OK(resp)
}

// MfaVerify checks a code from the authenticator and, when accepted, makes
// software token MFA the user's preferred second factor.
func (s *AdminService) MfaVerify(ctx context.Context, req idp.MfaVerifyRequest) error {
	log := s.log.WithField("op", "mfa_verify")
	if req.AccessToken == "" && req.ChallengeID == "" {
		err := fmt.Errorf("%w: access token or challenge id required", ErrInvalidInput)
		log.WithError(err).Error("mfa verification rejected")
		return s.opError("mfa_verify", http.StatusInternalServerError, err)
	}

	in := &cip.VerifySoftwareTokenInput{
		UserCode: aws.String(req.Code),
	}
	if req.AccessToken != "" {
		in.AccessToken = aws.String(req.AccessToken)
	} else {
		in.Session = aws.String(req.ChallengeID)
	}
	if req.DeviceName != "" {
		in.FriendlyDeviceName = aws.String(req.DeviceName)
	}

	status, err := s.call(ctx, "mfa_verify", func(ctx context.Context, api cognito.API) error {
		out, err := api.VerifySoftwareToken(ctx, in)
		if err != nil {
			return err
		}
		if out.Status != types.VerifySoftwareTokenResponseTypeSuccess {
			return fmt.Errorf("%w: status %s", ErrCodeRejected, out.Status)
		}
		if req.AccessToken == "" {
			return nil
		}
		_, err = api.SetUserMFAPreference(ctx, &cip.SetUserMFAPreferenceInput{
			AccessToken: aws.String(req.AccessToken),
			SoftwareTokenMfaSettings: &types.SoftwareTokenMfaSettingsType{
				Enabled:      true,
				PreferredMfa: true,
			},
		})
		if err != nil {
			return fmt.Errorf("set mfa preference: %w", err)
		}
		return nil
	})
	if err != nil {
		if codeRejected(err) {
			status = http.StatusUnauthorized
		}
		s.logFailure(log, status, err, "mfa verification failed")
		return s.opError("mfa_verify", status, err)
	}
	log.Info("software token mfa enabled")
	return nil
}

func codeRejected(err error) bool {
	var mismatch *types.CodeMismatchException
	var enable *types.EnableSoftwareTokenMFAException
	return errors.Is(err, ErrCodeRejected) || errors.As(err, &mismatch) || errors.As(err, &enable)
}

// provisioningURI renders the otpauth:// URI for a base32 secret issued by
// the provider.
func provisioningURI(issuer, account, secret string) (string, error) {
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(strings.ToUpper(strings.TrimRight(secret, "=")))
	if err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}
	if account == "" {
		account = "user"
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
		Secret:      raw,
	})
	if err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return key.URL(), nil
}
