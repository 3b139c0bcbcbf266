package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"datagov/internal/model"
)

// TenantGroupFilter narrows and pages ListTenantGroups.
type TenantGroupFilter struct {
	Term     string
	Page     int
	PageSize int
}

// UpdateGroupPermissions replaces a group's tenant-level permissions in a
// single transaction. A permission name absent from the catalogue fails the
// whole update; partial grants never commit.
func (s *Store) UpdateGroupPermissions(ctx context.Context, groupURI string, permissions []string) (*model.TenantGroup, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var groupName string
	err = tx.QueryRow(ctx,
		`SELECT group_name FROM tenant_group WHERE group_uri = $1`, groupURI,
	).Scan(&groupName)
	if err != nil {
		return nil, notFound(err, "tenant group", groupURI)
	}

	rows, err := tx.Query(ctx,
		`SELECT name FROM tenant_permission WHERE name = ANY($1)`, permissions,
	)
	if err != nil {
		return nil, errors.Wrap(err, "validate permission names")
	}
	known := make([]string, 0, len(permissions))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan permission name")
		}
		known = append(known, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "validate permission names")
	}
	if missing := unknownPermissions(permissions, known); len(missing) > 0 {
		return nil, errors.Errorf("unknown tenant permissions: %s", strings.Join(missing, ", "))
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM tenant_group_permission WHERE group_uri = $1`, groupURI,
	); err != nil {
		return nil, errors.Wrapf(err, "clear permissions of group %q", groupURI)
	}
	granted := make(map[string]struct{}, len(permissions))
	for _, name := range permissions {
		if _, ok := granted[name]; ok {
			continue
		}
		granted[name] = struct{}{}
		if _, err := tx.Exec(ctx,
			`INSERT INTO tenant_group_permission (group_uri, permission_name)
			 VALUES ($1, $2)`,
			groupURI, name,
		); err != nil {
			return nil, errors.Wrapf(err, "grant %q to group %q", name, groupURI)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "commit permission update")
	}

	return s.getTenantGroup(ctx, groupURI, groupName)
}

// ListTenantPermissions returns the catalogue of grantable permissions.
func (s *Store) ListTenantPermissions(ctx context.Context) ([]model.TenantPermission, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, COALESCE(description, '') FROM tenant_permission ORDER BY name`,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list tenant permissions")
	}
	defer rows.Close()

	var perms []model.TenantPermission
	for rows.Next() {
		var p model.TenantPermission
		if err := rows.Scan(&p.Name, &p.Description); err != nil {
			return nil, errors.Wrap(err, "scan permission row")
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// ListTenantGroups pages through tenant groups, optionally filtered by a
// case-insensitive name term, with each group's permissions resolved.
func (s *Store) ListTenantGroups(ctx context.Context, filter TenantGroupFilter) ([]model.TenantGroup, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = 10
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	rows, err := s.pool.Query(ctx,
		`SELECT group_uri, group_name FROM tenant_group
		 WHERE group_name ILIKE '%' || $1 || '%'
		 ORDER BY group_name LIMIT $2 OFFSET $3`,
		filter.Term, filter.PageSize, (filter.Page-1)*filter.PageSize,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list tenant groups")
	}
	defer rows.Close()

	var groups []model.TenantGroup
	for rows.Next() {
		var g model.TenantGroup
		if err := rows.Scan(&g.GroupURI, &g.GroupName); err != nil {
			return nil, errors.Wrap(err, "scan group row")
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		resolved, err := s.getTenantGroup(ctx, groups[i].GroupURI, groups[i].GroupName)
		if err != nil {
			return nil, err
		}
		groups[i] = *resolved
	}
	return groups, nil
}

func (s *Store) getTenantGroup(ctx context.Context, groupURI, groupName string) (*model.TenantGroup, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT p.name, COALESCE(p.description, '')
		 FROM tenant_group_permission gp
		 JOIN tenant_permission p ON p.name = gp.permission_name
		 WHERE gp.group_uri = $1 ORDER BY p.name`,
		groupURI,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve permissions of group %q", groupURI)
	}
	defer rows.Close()

	group := &model.TenantGroup{GroupURI: groupURI, GroupName: groupName}
	for rows.Next() {
		var p model.TenantPermission
		if err := rows.Scan(&p.Name, &p.Description); err != nil {
			return nil, errors.Wrap(err, "scan permission row")
		}
		group.Permissions = append(group.Permissions, p)
	}
	return group, rows.Err()
}

// unknownPermissions returns the requested names missing from known, in
// request order, without duplicates.
func unknownPermissions(requested, known []string) []string {
	seen := make(map[string]struct{}, len(known))
	for _, name := range known {
		seen[name] = struct{}{}
	}
	var missing []string
	for _, name := range requested {
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			missing = append(missing, name)
		}
	}
	return missing
}
