package store

import (
	"context"

	"github.com/pkg/errors"

	"datagov/internal/model"
)

// GetLocationByURI resolves a dataset storage location.
func (s *Store) GetLocationByURI(ctx context.Context, locationURI string) (*model.DatasetStorageLocation, error) {
	var l model.DatasetStorageLocation
	err := s.pool.QueryRow(ctx,
		`SELECT location_uri, aws_account_id, region, s3_bucket_name, s3_prefix, location_created
		 FROM dataset_storage_location WHERE location_uri = $1`,
		locationURI,
	).Scan(&l.LocationURI, &l.AwsAccountID, &l.Region, &l.S3BucketName, &l.S3Prefix, &l.LocationCreated)
	if err != nil {
		return nil, notFound(err, "dataset storage location", locationURI)
	}
	return &l, nil
}

// MarkLocationCreated flips the creation flag once the S3 prefix exists.
func (s *Store) MarkLocationCreated(ctx context.Context, locationURI string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE dataset_storage_location SET location_created = TRUE WHERE location_uri = $1`,
		locationURI,
	)
	return errors.Wrapf(err, "mark location %q created", locationURI)
}
