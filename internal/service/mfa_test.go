package service

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"cognitoidp/internal/idp"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 32 bytes in unpadded base32, the shape Cognito issues.
const testTOTPSecret = "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXPJBSQ"

// totpAPI verifies codes against a fixed secret the way the provider does.
func totpAPI() *fakeAPI {
	return &fakeAPI{
		associateSoftwareTokenFn: func(in *cip.AssociateSoftwareTokenInput) (*cip.AssociateSoftwareTokenOutput, error) {
			if aws.ToString(in.AccessToken) == "expired" {
				return nil, &types.NotAuthorizedException{}
			}
			return &cip.AssociateSoftwareTokenOutput{SecretCode: aws.String(testTOTPSecret)}, nil
		},
		verifySoftwareTokenFn: func(in *cip.VerifySoftwareTokenInput) (*cip.VerifySoftwareTokenOutput, error) {
			if !totp.Validate(aws.ToString(in.UserCode), testTOTPSecret) {
				return nil, &types.CodeMismatchException{}
			}
			return &cip.VerifySoftwareTokenOutput{Status: types.VerifySoftwareTokenResponseTypeSuccess}, nil
		},
	}
}

func TestMfaChallengeReturnsProvisioningURI(t *testing.T) {
	t.Parallel()

	opts, _ := testOptions(totpAPI(), testConfig())
	resp := NewAdminService(opts).MfaChallenge(context.Background(), idp.MfaChallengeRequest{AccessToken: "a", Username: "alice"})
	require.True(t, resp.IsOK())
	assert.Equal(t, testTOTPSecret, resp.Body.SecretCode)
	assert.Equal(t, DeliveryMethodTOTP, resp.Body.DeliveryMethod)

	u, err := url.Parse(resp.Body.ProvisioningURI)
	require.NoError(t, err)
	assert.Equal(t, "otpauth", u.Scheme)
	assert.Equal(t, "totp", u.Host)
	assert.Equal(t, "Acme", u.Query().Get("issuer"))
	assert.Equal(t, testTOTPSecret, u.Query().Get("secret"))
}

func TestMfaChallengeExpiredToken(t *testing.T) {
	t.Parallel()

	opts, _ := testOptions(totpAPI(), testConfig())
	resp := NewAdminService(opts).MfaChallenge(context.Background(), idp.MfaChallengeRequest{AccessToken: "expired"})
	assert.Equal(t, http.StatusUnauthorized, resp.Status)
}

func TestMfaVerifyEnablesPreference(t *testing.T) {
	t.Parallel()

	api := totpAPI()
	var pref *cip.SetUserMFAPreferenceInput
	api.setUserMFAPreferenceFn = func(in *cip.SetUserMFAPreferenceInput) (*cip.SetUserMFAPreferenceOutput, error) {
		pref = in
		return &cip.SetUserMFAPreferenceOutput{}, nil
	}
	opts, _ := testOptions(api, testConfig())

	code, err := totp.GenerateCode(testTOTPSecret, time.Now())
	require.NoError(t, err)

	require.NoError(t, NewAdminService(opts).MfaVerify(context.Background(), idp.MfaVerifyRequest{
		AccessToken: "a",
		Code:        code,
		DeviceName:  "phone",
	}))
	require.NotNil(t, pref)
	assert.True(t, pref.SoftwareTokenMfaSettings.Enabled)
	assert.True(t, pref.SoftwareTokenMfaSettings.PreferredMfa)
}

func TestMfaVerifyWrongCode(t *testing.T) {
	t.Parallel()

	api := totpAPI()
	opts, _ := testOptions(api, testConfig())

	err := NewAdminService(opts).MfaVerify(context.Background(), idp.MfaVerifyRequest{AccessToken: "a", Code: "000000x"})
	assert.Equal(t, http.StatusUnauthorized, idp.StatusOf(err))
	assert.Zero(t, api.count("SetUserMFAPreference"))
}

func TestMfaVerifyErrorStatus(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{verifySoftwareTokenFn: func(*cip.VerifySoftwareTokenInput) (*cip.VerifySoftwareTokenOutput, error) {
		return &cip.VerifySoftwareTokenOutput{Status: types.VerifySoftwareTokenResponseTypeError}, nil
	}}
	opts, _ := testOptions(api, testConfig())

	err := NewAdminService(opts).MfaVerify(context.Background(), idp.MfaVerifyRequest{ChallengeID: "session", Code: "123456"})
	assert.Equal(t, http.StatusUnauthorized, idp.StatusOf(err))
	assert.ErrorIs(t, err, ErrCodeRejected)
}

func TestMfaVerifyNeedsTokenOrChallenge(t *testing.T) {
	t.Parallel()

	api := totpAPI()
	opts, _ := testOptions(api, testConfig())

	err := NewAdminService(opts).MfaVerify(context.Background(), idp.MfaVerifyRequest{Code: "123456"})
	assert.Equal(t, http.StatusInternalServerError, idp.StatusOf(err))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, api.count("VerifySoftwareToken"))
}

func TestProvisioningURIRejectsBadSecret(t *testing.T) {
	t.Parallel()

	_, err := provisioningURI("Acme", "alice", "not base32!")
	assert.Error(t, err)
}
