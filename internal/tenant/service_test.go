package tenant

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
	"datagov/internal/model"
	"datagov/internal/store"
)

type fakePolicyStore struct {
	updated     map[string][]string
	permissions []model.TenantPermission
	groups      []model.TenantGroup
	filter      store.TenantGroupFilter
}

func (f *fakePolicyStore) UpdateGroupPermissions(_ context.Context, groupURI string, permissions []string) (*model.TenantGroup, error) {
	if f.updated == nil {
		f.updated = map[string][]string{}
	}
	f.updated[groupURI] = permissions
	return &model.TenantGroup{GroupURI: groupURI, GroupName: "scientists"}, nil
}

func (f *fakePolicyStore) ListTenantPermissions(_ context.Context) ([]model.TenantPermission, error) {
	return f.permissions, nil
}

func (f *fakePolicyStore) ListTenantGroups(_ context.Context, filter store.TenantGroupFilter) ([]model.TenantGroup, error) {
	f.filter = filter
	return f.groups, nil
}

type fakeParamWriter struct {
	accountID string
	name      string
	value     string
	version   int64
	err       error
}

func (f *fakeParamWriter) UpdateParameter(_ context.Context, accountID, _, name, value string) (int64, error) {
	f.accountID = accountID
	f.name = name
	f.value = value
	return f.version, f.err
}

type fakeIdentity struct {
	account string
	err     error
}

func (f *fakeIdentity) S3(context.Context, string, string) (awsclient.S3API, error) {
	return nil, errors.New("not wired")
}
func (f *fakeIdentity) S3Control(context.Context, string, string) (awsclient.S3ControlAPI, error) {
	return nil, errors.New("not wired")
}
func (f *fakeIdentity) S3Presign(context.Context, string, string) (awsclient.S3PresignAPI, error) {
	return nil, errors.New("not wired")
}
func (f *fakeIdentity) Athena(context.Context, string, string) (awsclient.AthenaAPI, error) {
	return nil, errors.New("not wired")
}
func (f *fakeIdentity) SSM(context.Context, string, string) (awsclient.SSMAPI, error) {
	return nil, errors.New("not wired")
}
func (f *fakeIdentity) Account(context.Context) (string, error) {
	return f.account, f.err
}

func newTestService(policyStore *fakePolicyStore, writer *fakeParamWriter, identity *fakeIdentity) *Service {
	return NewService(policyStore, writer, identity, "prod", "eu-west-1", zap.NewNop())
}

func TestUpdateGroupPermissions(t *testing.T) {
	policyStore := &fakePolicyStore{}
	svc := newTestService(policyStore, &fakeParamWriter{}, &fakeIdentity{account: "111122223333"})

	group, err := svc.UpdateGroupPermissions(context.Background(), UpdateGroupPermissionsInput{
		GroupURI:    "group-1",
		Permissions: []string{"MANAGE_GROUPS", "MANAGE_ENVIRONMENTS"},
	})
	require.NoError(t, err)
	assert.Equal(t, "group-1", group.GroupURI)
	assert.Equal(t, []string{"MANAGE_GROUPS", "MANAGE_ENVIRONMENTS"}, policyStore.updated["group-1"])
}

func TestUpdateGroupPermissionsRequiresGroupURI(t *testing.T) {
	svc := newTestService(&fakePolicyStore{}, &fakeParamWriter{}, &fakeIdentity{account: "111122223333"})

	_, err := svc.UpdateGroupPermissions(context.Background(), UpdateGroupPermissionsInput{
		Permissions: []string{"MANAGE_GROUPS"},
	})
	assert.Error(t, err)
}

func TestListTenantGroupsPassesFilter(t *testing.T) {
	policyStore := &fakePolicyStore{groups: []model.TenantGroup{{GroupURI: "group-1"}}}
	svc := newTestService(policyStore, &fakeParamWriter{}, &fakeIdentity{account: "111122223333"})

	filter := store.TenantGroupFilter{Term: "science", Page: 2, PageSize: 10}
	groups, err := svc.ListTenantGroups(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
	assert.Equal(t, filter, policyStore.filter)
}

func TestUpdateSSMParameterWritesCentralMonitoringPath(t *testing.T) {
	writer := &fakeParamWriter{version: 7}
	svc := newTestService(&fakePolicyStore{}, writer, &fakeIdentity{account: "111122223333"})

	version, err := svc.UpdateSSMParameter(context.Background(), "DashboardId", "abc-123")
	require.NoError(t, err)
	assert.Equal(t, int64(7), version)
	assert.Equal(t, "/dataall/prod/quicksightmonitoring/DashboardId", writer.name)
	assert.Equal(t, "abc-123", writer.value)
	assert.Empty(t, writer.accountID)
}

func TestUpdateSSMParameterFailsWithoutIdentity(t *testing.T) {
	svc := newTestService(&fakePolicyStore{}, &fakeParamWriter{}, &fakeIdentity{err: errors.New("no credentials")})

	_, err := svc.UpdateSSMParameter(context.Background(), "DashboardId", "abc-123")
	assert.Error(t, err)
}
