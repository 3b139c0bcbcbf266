// Package tenant implements the tenant administration resolvers. The GraphQL
// transport lives elsewhere; these are the plain methods its fields call.
package tenant

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
	"datagov/internal/handlers"
	"datagov/internal/model"
	"datagov/internal/params"
	"datagov/internal/store"
)

// PolicyStore is the slice of the store behind the tenant resolvers.
type PolicyStore interface {
	UpdateGroupPermissions(ctx context.Context, groupURI string, permissions []string) (*model.TenantGroup, error)
	ListTenantPermissions(ctx context.Context) ([]model.TenantPermission, error)
	ListTenantGroups(ctx context.Context, filter store.TenantGroupFilter) ([]model.TenantGroup, error)
}

// ParameterWriter updates SSM parameters in the central account.
type ParameterWriter interface {
	UpdateParameter(ctx context.Context, accountID, region, name, value string) (int64, error)
}

// Service resolves tenant administration fields.
type Service struct {
	store    PolicyStore
	paramer  ParameterWriter
	identity awsclient.Factory
	envname  string
	region   string
	log      *zap.Logger
}

func NewService(policyStore PolicyStore, paramer ParameterWriter, identity awsclient.Factory, envname, region string, log *zap.Logger) *Service {
	return &Service{
		store:    policyStore,
		paramer:  paramer,
		identity: identity,
		envname:  envname,
		region:   region,
		log:      log,
	}
}

// UpdateGroupPermissionsInput mirrors the mutation input shape.
type UpdateGroupPermissionsInput struct {
	GroupURI    string
	Permissions []string
}

// UpdateGroupPermissions replaces the tenant-level permissions of a group.
func (s *Service) UpdateGroupPermissions(ctx context.Context, input UpdateGroupPermissionsInput) (*model.TenantGroup, error) {
	if input.GroupURI == "" {
		return nil, errors.New("groupUri is required")
	}
	return s.store.UpdateGroupPermissions(ctx, input.GroupURI, input.Permissions)
}

// ListTenantPermissions lists the grantable tenant permissions.
func (s *Service) ListTenantPermissions(ctx context.Context) ([]model.TenantPermission, error) {
	return s.store.ListTenantPermissions(ctx)
}

// ListTenantGroups pages tenant groups with their resolved permissions.
func (s *Service) ListTenantGroups(ctx context.Context, filter store.TenantGroupFilter) ([]model.TenantGroup, error) {
	return s.store.ListTenantGroups(ctx, filter)
}

// UpdateSSMParameter writes a QuickSight monitoring parameter for the current
// environment in the central account and returns its new version.
func (s *Service) UpdateSSMParameter(ctx context.Context, name, value string) (int64, error) {
	account, err := s.identity.Account(ctx)
	if err != nil {
		return 0, err
	}
	path := params.QuicksightMonitoring(s.envname, name)
	s.log.Info("updating tenant parameter", zap.String("name", path), zap.String("accountId", account))
	// The parameter lives in the central account; no role assumption needed.
	return s.paramer.UpdateParameter(ctx, "", s.region, path, value)
}

var _ ParameterWriter = (*handlers.ParameterStore)(nil)
