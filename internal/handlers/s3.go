// Package handlers implements the AWS resource operations behind the task
// dispatcher and the API resolvers. Mutating operations log and return the
// wrapped AWS error; read-only lookups log and return the zero value so
// callers can treat absence as "not there yet".
package handlers

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
	"datagov/internal/model"
	"datagov/internal/worker"
)

const presignExpiry = 15 * time.Minute

// LocationStore is the slice of the store the S3 handlers need.
type LocationStore interface {
	GetLocationByURI(ctx context.Context, locationURI string) (*model.DatasetStorageLocation, error)
	MarkLocationCreated(ctx context.Context, locationURI string) error
}

// S3 bundles the bucket and access point operations.
type S3 struct {
	clients awsclient.Factory
	log     *zap.Logger
}

func NewS3(clients awsclient.Factory, log *zap.Logger) *S3 {
	return &S3{clients: clients, log: log}
}

// RegisterTasks binds the S3 task handlers onto the dispatcher.
func (s *S3) RegisterTasks(d *worker.Dispatcher, store LocationStore) {
	d.Register("s3.prefix.create", func(ctx context.Context, task *model.Task) (any, error) {
		return s.CreateDatasetLocation(ctx, store, task)
	})
}

// CreateDatasetLocation resolves the task target to a storage location and
// ensures its S3 prefix exists. The location must be persisted before any
// AWS call is attempted.
func (s *S3) CreateDatasetLocation(ctx context.Context, store LocationStore, task *model.Task) (*model.DatasetStorageLocation, error) {
	location, err := store.GetLocationByURI(ctx, task.TargetURI)
	if err != nil {
		return nil, err
	}
	if err := s.CreateBucketPrefix(ctx, location); err != nil {
		return nil, err
	}
	if err := store.MarkLocationCreated(ctx, location.LocationURI); err != nil {
		return nil, err
	}
	location.LocationCreated = true
	return location, nil
}

// CreateBucketPrefix ensures the location's prefix exists by writing a
// zero-byte object at "{prefix}/". Repeating the call is harmless.
func (s *S3) CreateBucketPrefix(ctx context.Context, location *model.DatasetStorageLocation) error {
	client, err := s.clients.S3(ctx, location.AwsAccountID, location.Region)
	if err != nil {
		return err
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(location.S3BucketName),
		Key:    aws.String(location.S3Prefix + "/"),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		s.log.Error("create S3 prefix failed",
			zap.String("locationUri", location.LocationURI),
			zap.String("bucket", location.S3BucketName),
			zap.String("accountId", location.AwsAccountID),
			zap.Error(err),
		)
		return errors.Wrapf(err, "create prefix %q in bucket %q", location.S3Prefix, location.S3BucketName)
	}
	s.log.Info("created S3 prefix",
		zap.String("bucket", location.S3BucketName),
		zap.String("prefix", location.S3Prefix),
		zap.String("accountId", location.AwsAccountID),
	)
	return nil
}

// PutBucketPolicy attaches a bucket policy in the tenant account.
func (s *S3) PutBucketPolicy(ctx context.Context, accountID, region, bucketName, policy string) error {
	client, err := s.clients.S3(ctx, accountID, region)
	if err != nil {
		return err
	}
	_, err = client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket:                        aws.String(bucketName),
		Policy:                        aws.String(policy),
		ConfirmRemoveSelfBucketAccess: aws.Bool(false),
		ExpectedBucketOwner:           aws.String(accountID),
	})
	if err != nil {
		s.log.Error("put bucket policy failed",
			zap.String("bucket", bucketName),
			zap.String("accountId", accountID),
			zap.Error(err),
		)
		return errors.Wrapf(err, "put policy on bucket %q", bucketName)
	}
	return nil
}

// GetBucketPolicy returns the bucket policy, or the empty string when it is
// absent or unreadable.
func (s *S3) GetBucketPolicy(ctx context.Context, accountID, region, bucketName string) string {
	client, err := s.clients.S3(ctx, accountID, region)
	if err != nil {
		s.log.Warn("get bucket policy: client", zap.String("bucket", bucketName), zap.Error(err))
		return ""
	}
	out, err := client.GetBucketPolicy(ctx, &s3.GetBucketPolicyInput{
		Bucket:              aws.String(bucketName),
		ExpectedBucketOwner: aws.String(accountID),
	})
	if err != nil {
		s.log.Warn("get bucket policy failed",
			zap.String("bucket", bucketName),
			zap.String("code", apiErrorCode(err)),
			zap.Error(err),
		)
		return ""
	}
	return aws.ToString(out.Policy)
}

// GetAccessPointArn resolves an access point ARN, or "" when it does not
// exist yet.
func (s *S3) GetAccessPointArn(ctx context.Context, accountID, region, accessPointName string) string {
	client, err := s.clients.S3Control(ctx, accountID, region)
	if err != nil {
		s.log.Warn("get access point: client", zap.String("accessPoint", accessPointName), zap.Error(err))
		return ""
	}
	out, err := client.GetAccessPoint(ctx, &s3control.GetAccessPointInput{
		AccountId: aws.String(accountID),
		Name:      aws.String(accessPointName),
	})
	if err != nil {
		s.log.Info("access point not found",
			zap.String("accessPoint", accessPointName),
			zap.String("accountId", accountID),
			zap.String("code", apiErrorCode(err)),
			zap.Error(err),
		)
		return ""
	}
	return aws.ToString(out.AccessPointArn)
}

// CreateAccessPoint creates a bucket access point and returns its ARN.
func (s *S3) CreateAccessPoint(ctx context.Context, accountID, region, bucketName, accessPointName string) (string, error) {
	client, err := s.clients.S3Control(ctx, accountID, region)
	if err != nil {
		return "", err
	}
	out, err := client.CreateAccessPoint(ctx, &s3control.CreateAccessPointInput{
		AccountId: aws.String(accountID),
		Name:      aws.String(accessPointName),
		Bucket:    aws.String(bucketName),
	})
	if err != nil {
		s.log.Error("create access point failed",
			zap.String("bucket", bucketName),
			zap.String("accessPoint", accessPointName),
			zap.Error(err),
		)
		return "", errors.Wrapf(err, "create access point %q on bucket %q", accessPointName, bucketName)
	}
	return aws.ToString(out.AccessPointArn), nil
}

// DeleteAccessPoint removes a bucket access point.
func (s *S3) DeleteAccessPoint(ctx context.Context, accountID, region, accessPointName string) error {
	client, err := s.clients.S3Control(ctx, accountID, region)
	if err != nil {
		return err
	}
	_, err = client.DeleteAccessPoint(ctx, &s3control.DeleteAccessPointInput{
		AccountId: aws.String(accountID),
		Name:      aws.String(accessPointName),
	})
	if err != nil {
		s.log.Error("delete access point failed",
			zap.String("accessPoint", accessPointName),
			zap.String("accountId", accountID),
			zap.Error(err),
		)
		return errors.Wrapf(err, "delete access point %q", accessPointName)
	}
	return nil
}

// GetAccessPointPolicy returns the access point policy, or "" when absent.
func (s *S3) GetAccessPointPolicy(ctx context.Context, accountID, region, accessPointName string) string {
	client, err := s.clients.S3Control(ctx, accountID, region)
	if err != nil {
		s.log.Warn("get access point policy: client", zap.String("accessPoint", accessPointName), zap.Error(err))
		return ""
	}
	out, err := client.GetAccessPointPolicy(ctx, &s3control.GetAccessPointPolicyInput{
		AccountId: aws.String(accountID),
		Name:      aws.String(accessPointName),
	})
	if err != nil {
		s.log.Info("no policy on access point",
			zap.String("accessPoint", accessPointName),
			zap.String("accountId", accountID),
			zap.Error(err),
		)
		return ""
	}
	return aws.ToString(out.Policy)
}

// PutAccessPointPolicy attaches a policy to an access point.
func (s *S3) PutAccessPointPolicy(ctx context.Context, accountID, region, accessPointName, policy string) error {
	client, err := s.clients.S3Control(ctx, accountID, region)
	if err != nil {
		return err
	}
	_, err = client.PutAccessPointPolicy(ctx, &s3control.PutAccessPointPolicyInput{
		AccountId: aws.String(accountID),
		Name:      aws.String(accessPointName),
		Policy:    aws.String(policy),
	})
	if err != nil {
		s.log.Error("put access point policy failed",
			zap.String("accessPoint", accessPointName),
			zap.Error(err),
		)
		return errors.Wrapf(err, "put policy on access point %q", accessPointName)
	}
	return nil
}

// PresignGetObject returns a 15-minute presigned GET URL for an object in
// the central account.
func (s *S3) PresignGetObject(ctx context.Context, region, bucket, key string) (string, error) {
	presigner, err := s.clients.S3Presign(ctx, "", region)
	if err != nil {
		return "", err
	}
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = presignExpiry
	})
	if err != nil {
		s.log.Error("presign get object failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", errors.Wrapf(err, "presign s3://%s/%s", bucket, key)
	}
	return req.URL, nil
}

// VerifyBucketOwner checks the bucket ACL with the expected owner before a
// presigned upload is handed out.
func (s *S3) VerifyBucketOwner(ctx context.Context, accountID, region, bucket string) error {
	client, err := s.clients.S3(ctx, "", region)
	if err != nil {
		return err
	}
	_, err = client.GetBucketAcl(ctx, &s3.GetBucketAclInput{
		Bucket:              aws.String(bucket),
		ExpectedBucketOwner: aws.String(accountID),
	})
	return errors.Wrapf(err, "verify owner of bucket %q", bucket)
}
