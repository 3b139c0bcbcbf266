package store

import (
	"context"

	"datagov/internal/model"
)

// GetEnvironmentByURI resolves an onboarded environment.
func (s *Store) GetEnvironmentByURI(ctx context.Context, environmentURI string) (*model.Environment, error) {
	var e model.Environment
	err := s.pool.QueryRow(ctx,
		`SELECT environment_uri, name, aws_account_id, region, resource_prefix, saml_group_name
		 FROM environment WHERE environment_uri = $1`,
		environmentURI,
	).Scan(&e.EnvironmentURI, &e.Name, &e.AwsAccountID, &e.Region, &e.ResourcePrefix, &e.SamlGroupName)
	if err != nil {
		return nil, notFound(err, "environment", environmentURI)
	}
	return &e, nil
}

// GetEnvironmentGroup resolves the onboarding record for a SAML group on an
// environment.
func (s *Store) GetEnvironmentGroup(ctx context.Context, groupName, environmentURI string) (*model.EnvironmentGroup, error) {
	var g model.EnvironmentGroup
	err := s.pool.QueryRow(ctx,
		`SELECT group_uri, group_name, environment_uri, iam_role_arn
		 FROM environment_group WHERE group_name = $1 AND environment_uri = $2`,
		groupName, environmentURI,
	).Scan(&g.GroupURI, &g.GroupName, &g.EnvironmentURI, &g.IAMRoleArn)
	if err != nil {
		return nil, notFound(err, "environment group", groupName+"/"+environmentURI)
	}
	return &g, nil
}
