package service

import (
	"context"
	"sync"

	"cognitoidp/internal/cognito"
	"cognitoidp/internal/config"
	"cognitoidp/internal/metrics"

	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// fakeAPI records every call and answers from per-operation hooks. An
// operation without a hook succeeds with an empty output.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	initiateAuthFn              func(*cip.InitiateAuthInput) (*cip.InitiateAuthOutput, error)
	globalSignOutFn             func(*cip.GlobalSignOutInput) (*cip.GlobalSignOutOutput, error)
	revokeTokenFn               func(*cip.RevokeTokenInput) (*cip.RevokeTokenOutput, error)
	getUserFn                   func(*cip.GetUserInput) (*cip.GetUserOutput, error)
	adminCreateUserFn           func(*cip.AdminCreateUserInput) (*cip.AdminCreateUserOutput, error)
	adminSetUserPasswordFn      func(*cip.AdminSetUserPasswordInput) (*cip.AdminSetUserPasswordOutput, error)
	adminResetUserPasswordFn    func(*cip.AdminResetUserPasswordInput) (*cip.AdminResetUserPasswordOutput, error)
	adminUpdateUserAttributesFn func(*cip.AdminUpdateUserAttributesInput) (*cip.AdminUpdateUserAttributesOutput, error)
	adminDeleteUserFn           func(*cip.AdminDeleteUserInput) (*cip.AdminDeleteUserOutput, error)
	createGroupFn               func(*cip.CreateGroupInput) (*cip.CreateGroupOutput, error)
	adminAddUserToGroupFn       func(*cip.AdminAddUserToGroupInput) (*cip.AdminAddUserToGroupOutput, error)
	adminRemoveUserFromGroupFn  func(*cip.AdminRemoveUserFromGroupInput) (*cip.AdminRemoveUserFromGroupOutput, error)
	adminListGroupsForUserFn    func(*cip.AdminListGroupsForUserInput) (*cip.AdminListGroupsForUserOutput, error)
	adminListDevicesFn          func(*cip.AdminListDevicesInput) (*cip.AdminListDevicesOutput, error)
	adminForgetDeviceFn         func(*cip.AdminForgetDeviceInput) (*cip.AdminForgetDeviceOutput, error)
	associateSoftwareTokenFn    func(*cip.AssociateSoftwareTokenInput) (*cip.AssociateSoftwareTokenOutput, error)
	verifySoftwareTokenFn       func(*cip.VerifySoftwareTokenInput) (*cip.VerifySoftwareTokenOutput, error)
	setUserMFAPreferenceFn      func(*cip.SetUserMFAPreferenceInput) (*cip.SetUserMFAPreferenceOutput, error)
	describeResourceServerFn    func(*cip.DescribeResourceServerInput) (*cip.DescribeResourceServerOutput, error)
	createResourceServerFn      func(*cip.CreateResourceServerInput) (*cip.CreateResourceServerOutput, error)
	updateResourceServerFn      func(*cip.UpdateResourceServerInput) (*cip.UpdateResourceServerOutput, error)
}

var _ cognito.API = (*fakeAPI)(nil)

func (f *fakeAPI) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) count(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeAPI) InitiateAuth(_ context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.record("InitiateAuth")
	if f.initiateAuthFn != nil {
		return f.initiateAuthFn(in)
	}
	return &cip.InitiateAuthOutput{}, nil
}

func (f *fakeAPI) GlobalSignOut(_ context.Context, in *cip.GlobalSignOutInput, _ ...func(*cip.Options)) (*cip.GlobalSignOutOutput, error) {
	f.record("GlobalSignOut")
	if f.globalSignOutFn != nil {
		return f.globalSignOutFn(in)
	}
	return &cip.GlobalSignOutOutput{}, nil
}

func (f *fakeAPI) RevokeToken(_ context.Context, in *cip.RevokeTokenInput, _ ...func(*cip.Options)) (*cip.RevokeTokenOutput, error) {
	f.record("RevokeToken")
	if f.revokeTokenFn != nil {
		return f.revokeTokenFn(in)
	}
	return &cip.RevokeTokenOutput{}, nil
}

func (f *fakeAPI) GetUser(_ context.Context, in *cip.GetUserInput, _ ...func(*cip.Options)) (*cip.GetUserOutput, error) {
	f.record("GetUser")
	if f.getUserFn != nil {
		return f.getUserFn(in)
	}
	return &cip.GetUserOutput{}, nil
}

func (f *fakeAPI) AdminCreateUser(_ context.Context, in *cip.AdminCreateUserInput, _ ...func(*cip.Options)) (*cip.AdminCreateUserOutput, error) {
	f.record("AdminCreateUser")
	if f.adminCreateUserFn != nil {
		return f.adminCreateUserFn(in)
	}
	return &cip.AdminCreateUserOutput{}, nil
}

func (f *fakeAPI) AdminSetUserPassword(_ context.Context, in *cip.AdminSetUserPasswordInput, _ ...func(*cip.Options)) (*cip.AdminSetUserPasswordOutput, error) {
	f.record("AdminSetUserPassword")
	if f.adminSetUserPasswordFn != nil {
		return f.adminSetUserPasswordFn(in)
	}
	return &cip.AdminSetUserPasswordOutput{}, nil
}

func (f *fakeAPI) AdminResetUserPassword(_ context.Context, in *cip.AdminResetUserPasswordInput, _ ...func(*cip.Options)) (*cip.AdminResetUserPasswordOutput, error) {
	f.record("AdminResetUserPassword")
	if f.adminResetUserPasswordFn != nil {
		return f.adminResetUserPasswordFn(in)
	}
	return &cip.AdminResetUserPasswordOutput{}, nil
}

func (f *fakeAPI) AdminUpdateUserAttributes(_ context.Context, in *cip.AdminUpdateUserAttributesInput, _ ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error) {
	f.record("AdminUpdateUserAttributes")
	if f.adminUpdateUserAttributesFn != nil {
		return f.adminUpdateUserAttributesFn(in)
	}
	return &cip.AdminUpdateUserAttributesOutput{}, nil
}

func (f *fakeAPI) AdminDeleteUser(_ context.Context, in *cip.AdminDeleteUserInput, _ ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	f.record("AdminDeleteUser")
	if f.adminDeleteUserFn != nil {
		return f.adminDeleteUserFn(in)
	}
	return &cip.AdminDeleteUserOutput{}, nil
}

func (f *fakeAPI) CreateGroup(_ context.Context, in *cip.CreateGroupInput, _ ...func(*cip.Options)) (*cip.CreateGroupOutput, error) {
	f.record("CreateGroup")
	if f.createGroupFn != nil {
		return f.createGroupFn(in)
	}
	return &cip.CreateGroupOutput{}, nil
}

func (f *fakeAPI) AdminAddUserToGroup(_ context.Context, in *cip.AdminAddUserToGroupInput, _ ...func(*cip.Options)) (*cip.AdminAddUserToGroupOutput, error) {
	f.record("AdminAddUserToGroup")
	if f.adminAddUserToGroupFn != nil {
		return f.adminAddUserToGroupFn(in)
	}
	return &cip.AdminAddUserToGroupOutput{}, nil
}

func (f *fakeAPI) AdminRemoveUserFromGroup(_ context.Context, in *cip.AdminRemoveUserFromGroupInput, _ ...func(*cip.Options)) (*cip.AdminRemoveUserFromGroupOutput, error) {
	f.record("AdminRemoveUserFromGroup")
	if f.adminRemoveUserFromGroupFn != nil {
		return f.adminRemoveUserFromGroupFn(in)
	}
	return &cip.AdminRemoveUserFromGroupOutput{}, nil
}

func (f *fakeAPI) AdminListGroupsForUser(_ context.Context, in *cip.AdminListGroupsForUserInput, _ ...func(*cip.Options)) (*cip.AdminListGroupsForUserOutput, error) {
	f.record("AdminListGroupsForUser")
	if f.adminListGroupsForUserFn != nil {
		return f.adminListGroupsForUserFn(in)
	}
	return &cip.AdminListGroupsForUserOutput{}, nil
}

func (f *fakeAPI) AdminListDevices(_ context.Context, in *cip.AdminListDevicesInput, _ ...func(*cip.Options)) (*cip.AdminListDevicesOutput, error) {
	f.record("AdminListDevices")
	if f.adminListDevicesFn != nil {
		return f.adminListDevicesFn(in)
	}
	return &cip.AdminListDevicesOutput{}, nil
}

func (f *fakeAPI) AdminForgetDevice(_ context.Context, in *cip.AdminForgetDeviceInput, _ ...func(*cip.Options)) (*cip.AdminForgetDeviceOutput, error) {
	f.record("AdminForgetDevice")
	if f.adminForgetDeviceFn != nil {
		return f.adminForgetDeviceFn(in)
	}
	return &cip.AdminForgetDeviceOutput{}, nil
}

func (f *fakeAPI) AssociateSoftwareToken(_ context.Context, in *cip.AssociateSoftwareTokenInput, _ ...func(*cip.Options)) (*cip.AssociateSoftwareTokenOutput, error) {
	f.record("AssociateSoftwareToken")
	if f.associateSoftwareTokenFn != nil {
		return f.associateSoftwareTokenFn(in)
	}
	return &cip.AssociateSoftwareTokenOutput{}, nil
}

func (f *fakeAPI) VerifySoftwareToken(_ context.Context, in *cip.VerifySoftwareTokenInput, _ ...func(*cip.Options)) (*cip.VerifySoftwareTokenOutput, error) {
	f.record("VerifySoftwareToken")
	if f.verifySoftwareTokenFn != nil {
		return f.verifySoftwareTokenFn(in)
	}
	return &cip.VerifySoftwareTokenOutput{}, nil
}

func (f *fakeAPI) SetUserMFAPreference(_ context.Context, in *cip.SetUserMFAPreferenceInput, _ ...func(*cip.Options)) (*cip.SetUserMFAPreferenceOutput, error) {
	f.record("SetUserMFAPreference")
	if f.setUserMFAPreferenceFn != nil {
		return f.setUserMFAPreferenceFn(in)
	}
	return &cip.SetUserMFAPreferenceOutput{}, nil
}

func (f *fakeAPI) DescribeResourceServer(_ context.Context, in *cip.DescribeResourceServerInput, _ ...func(*cip.Options)) (*cip.DescribeResourceServerOutput, error) {
	f.record("DescribeResourceServer")
	if f.describeResourceServerFn != nil {
		return f.describeResourceServerFn(in)
	}
	return &cip.DescribeResourceServerOutput{}, nil
}

func (f *fakeAPI) CreateResourceServer(_ context.Context, in *cip.CreateResourceServerInput, _ ...func(*cip.Options)) (*cip.CreateResourceServerOutput, error) {
	f.record("CreateResourceServer")
	if f.createResourceServerFn != nil {
		return f.createResourceServerFn(in)
	}
	return &cip.CreateResourceServerOutput{}, nil
}

func (f *fakeAPI) UpdateResourceServer(_ context.Context, in *cip.UpdateResourceServerInput, _ ...func(*cip.Options)) (*cip.UpdateResourceServerOutput, error) {
	f.record("UpdateResourceServer")
	if f.updateResourceServerFn != nil {
		return f.updateResourceServerFn(in)
	}
	return &cip.UpdateResourceServerOutput{}, nil
}

type staticProvider struct {
	api cognito.API
	err error
}

func (p staticProvider) Client(context.Context) (cognito.API, error) {
	return p.api, p.err
}

func testConfig() config.Cognito {
	return config.Cognito{
		Region:     "us-east-1",
		UserPoolID: "us-east-1_pool",
		ClientID:   "client-id",
	}
}

func testOptions(api cognito.API, cfg config.Cognito) (Options, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return Options{
		Cognito:   cfg,
		Clients:   staticProvider{api: api},
		Logger:    logger,
		Metrics:   metrics.New(),
		MFAIssuer: "Acme",
	}, hook
}
