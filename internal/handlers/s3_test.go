package handlers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
	"datagov/internal/model"
)

type fakeS3 struct {
	putObjectIn  *s3.PutObjectInput
	putObjectErr error
	putPolicyIn  *s3.PutBucketPolicyInput
	getPolicyOut *s3.GetBucketPolicyOutput
	getPolicyErr error
	getAclIn     *s3.GetBucketAclInput
	getAclErr    error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putObjectIn = params
	return &s3.PutObjectOutput{}, f.putObjectErr
}

func (f *fakeS3) PutBucketPolicy(_ context.Context, params *s3.PutBucketPolicyInput, _ ...func(*s3.Options)) (*s3.PutBucketPolicyOutput, error) {
	f.putPolicyIn = params
	return &s3.PutBucketPolicyOutput{}, nil
}

func (f *fakeS3) GetBucketPolicy(_ context.Context, _ *s3.GetBucketPolicyInput, _ ...func(*s3.Options)) (*s3.GetBucketPolicyOutput, error) {
	return f.getPolicyOut, f.getPolicyErr
}

func (f *fakeS3) GetBucketAcl(_ context.Context, params *s3.GetBucketAclInput, _ ...func(*s3.Options)) (*s3.GetBucketAclOutput, error) {
	f.getAclIn = params
	return &s3.GetBucketAclOutput{}, f.getAclErr
}

type fakeS3Control struct {
	createIn     *s3control.CreateAccessPointInput
	getErr       error
	getOut       *s3control.GetAccessPointOutput
	deleteIn     *s3control.DeleteAccessPointInput
	putPolicyIn  *s3control.PutAccessPointPolicyInput
	getPolicyOut *s3control.GetAccessPointPolicyOutput
	getPolicyErr error
}

func (f *fakeS3Control) CreateAccessPoint(_ context.Context, params *s3control.CreateAccessPointInput, _ ...func(*s3control.Options)) (*s3control.CreateAccessPointOutput, error) {
	f.createIn = params
	return &s3control.CreateAccessPointOutput{AccessPointArn: aws.String("arn:aws:s3:eu-west-1:111122223333:accesspoint/ap")}, nil
}

func (f *fakeS3Control) GetAccessPoint(_ context.Context, _ *s3control.GetAccessPointInput, _ ...func(*s3control.Options)) (*s3control.GetAccessPointOutput, error) {
	return f.getOut, f.getErr
}

func (f *fakeS3Control) DeleteAccessPoint(_ context.Context, params *s3control.DeleteAccessPointInput, _ ...func(*s3control.Options)) (*s3control.DeleteAccessPointOutput, error) {
	f.deleteIn = params
	return &s3control.DeleteAccessPointOutput{}, nil
}

func (f *fakeS3Control) GetAccessPointPolicy(_ context.Context, _ *s3control.GetAccessPointPolicyInput, _ ...func(*s3control.Options)) (*s3control.GetAccessPointPolicyOutput, error) {
	return f.getPolicyOut, f.getPolicyErr
}

func (f *fakeS3Control) PutAccessPointPolicy(_ context.Context, params *s3control.PutAccessPointPolicyInput, _ ...func(*s3control.Options)) (*s3control.PutAccessPointPolicyOutput, error) {
	f.putPolicyIn = params
	return &s3control.PutAccessPointPolicyOutput{}, nil
}

type fakePresigner struct {
	url string
	err error
	in  *s3.GetObjectInput
}

func (f *fakePresigner) PresignGetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.in = params
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: f.url}, nil
}

// fakeFactory hands out the fakes above regardless of account and region,
// recording which account was requested.
type fakeFactory struct {
	s3        *fakeS3
	s3control *fakeS3Control
	presigner *fakePresigner
	accounts  []string
}

func (f *fakeFactory) S3(_ context.Context, accountID, _ string) (awsclient.S3API, error) {
	f.accounts = append(f.accounts, accountID)
	return f.s3, nil
}

func (f *fakeFactory) S3Control(_ context.Context, accountID, _ string) (awsclient.S3ControlAPI, error) {
	f.accounts = append(f.accounts, accountID)
	return f.s3control, nil
}

func (f *fakeFactory) S3Presign(_ context.Context, accountID, _ string) (awsclient.S3PresignAPI, error) {
	f.accounts = append(f.accounts, accountID)
	return f.presigner, nil
}

func (f *fakeFactory) Athena(_ context.Context, _, _ string) (awsclient.AthenaAPI, error) {
	return nil, errors.New("not wired")
}

func (f *fakeFactory) SSM(_ context.Context, _, _ string) (awsclient.SSMAPI, error) {
	return nil, errors.New("not wired")
}

func (f *fakeFactory) Account(_ context.Context) (string, error) {
	return "999988887777", nil
}

type fakeLocationStore struct {
	location *model.DatasetStorageLocation
	marked   []string
}

func (f *fakeLocationStore) GetLocationByURI(_ context.Context, locationURI string) (*model.DatasetStorageLocation, error) {
	if f.location == nil || f.location.LocationURI != locationURI {
		return nil, errors.Errorf("location %q not found", locationURI)
	}
	return f.location, nil
}

func (f *fakeLocationStore) MarkLocationCreated(_ context.Context, locationURI string) error {
	f.marked = append(f.marked, locationURI)
	return nil
}

func testLocation() *model.DatasetStorageLocation {
	return &model.DatasetStorageLocation{
		LocationURI:  "loc-1",
		AwsAccountID: "111122223333",
		Region:       "eu-west-1",
		S3BucketName: "tenant-bucket",
		S3Prefix:     "raw/trades",
	}
}

func TestCreateBucketPrefixWritesFolderKey(t *testing.T) {
	factory := &fakeFactory{s3: &fakeS3{}}
	h := NewS3(factory, zap.NewNop())

	require.NoError(t, h.CreateBucketPrefix(context.Background(), testLocation()))

	require.NotNil(t, factory.s3.putObjectIn)
	assert.Equal(t, "tenant-bucket", aws.ToString(factory.s3.putObjectIn.Bucket))
	assert.Equal(t, "raw/trades/", aws.ToString(factory.s3.putObjectIn.Key))
	assert.Equal(t, []string{"111122223333"}, factory.accounts)
}

func TestCreateBucketPrefixWrapsFailure(t *testing.T) {
	factory := &fakeFactory{s3: &fakeS3{putObjectErr: errors.New("access denied")}}
	h := NewS3(factory, zap.NewNop())

	err := h.CreateBucketPrefix(context.Background(), testLocation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raw/trades")
	assert.Contains(t, err.Error(), "access denied")
}

func TestCreateDatasetLocationMarksCreated(t *testing.T) {
	factory := &fakeFactory{s3: &fakeS3{}}
	store := &fakeLocationStore{location: testLocation()}
	h := NewS3(factory, zap.NewNop())

	task := &model.Task{TaskURI: "task-1", TargetURI: "loc-1", Action: "s3.prefix.create"}
	location, err := h.CreateDatasetLocation(context.Background(), store, task)
	require.NoError(t, err)
	assert.True(t, location.LocationCreated)
	assert.Equal(t, []string{"loc-1"}, store.marked)
}

func TestCreateDatasetLocationMissingTargetIsTerminal(t *testing.T) {
	factory := &fakeFactory{s3: &fakeS3{}}
	store := &fakeLocationStore{}
	h := NewS3(factory, zap.NewNop())

	task := &model.Task{TaskURI: "task-1", TargetURI: "loc-gone", Action: "s3.prefix.create"}
	_, err := h.CreateDatasetLocation(context.Background(), store, task)
	require.Error(t, err)
	assert.Nil(t, factory.s3.putObjectIn)
	assert.Empty(t, store.marked)
}

func TestGetBucketPolicyReturnsEmptyOnError(t *testing.T) {
	factory := &fakeFactory{s3: &fakeS3{getPolicyErr: errors.New("NoSuchBucketPolicy")}}
	h := NewS3(factory, zap.NewNop())

	assert.Empty(t, h.GetBucketPolicy(context.Background(), "111122223333", "eu-west-1", "tenant-bucket"))
}

func TestGetBucketPolicyReturnsPolicy(t *testing.T) {
	factory := &fakeFactory{s3: &fakeS3{
		getPolicyOut: &s3.GetBucketPolicyOutput{Policy: aws.String(`{"Version":"2012-10-17"}`)},
	}}
	h := NewS3(factory, zap.NewNop())

	assert.JSONEq(t, `{"Version":"2012-10-17"}`, h.GetBucketPolicy(context.Background(), "111122223333", "eu-west-1", "tenant-bucket"))
}

func TestPutBucketPolicyKeepsSelfAccess(t *testing.T) {
	factory := &fakeFactory{s3: &fakeS3{}}
	h := NewS3(factory, zap.NewNop())

	require.NoError(t, h.PutBucketPolicy(context.Background(), "111122223333", "eu-west-1", "tenant-bucket", "{}"))
	require.NotNil(t, factory.s3.putPolicyIn)
	assert.False(t, aws.ToBool(factory.s3.putPolicyIn.ConfirmRemoveSelfBucketAccess))
	assert.Equal(t, "111122223333", aws.ToString(factory.s3.putPolicyIn.ExpectedBucketOwner))
}

func TestGetAccessPointArnAbsent(t *testing.T) {
	factory := &fakeFactory{s3control: &fakeS3Control{getErr: errors.New("NoSuchAccessPoint")}}
	h := NewS3(factory, zap.NewNop())

	assert.Empty(t, h.GetAccessPointArn(context.Background(), "111122223333", "eu-west-1", "ap"))
}

func TestCreateAccessPoint(t *testing.T) {
	factory := &fakeFactory{s3control: &fakeS3Control{}}
	h := NewS3(factory, zap.NewNop())

	arn, err := h.CreateAccessPoint(context.Background(), "111122223333", "eu-west-1", "tenant-bucket", "ap")
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:s3:eu-west-1:111122223333:accesspoint/ap", arn)
	require.NotNil(t, factory.s3control.createIn)
	assert.Equal(t, "111122223333", aws.ToString(factory.s3control.createIn.AccountId))
	assert.Equal(t, "tenant-bucket", aws.ToString(factory.s3control.createIn.Bucket))
}

func TestPresignGetObjectUsesCentralAccount(t *testing.T) {
	factory := &fakeFactory{presigner: &fakePresigner{url: "https://tenant-bucket.s3.amazonaws.com/raw/trades/file?X-Amz-Signature=abc"}}
	h := NewS3(factory, zap.NewNop())

	url, err := h.PresignGetObject(context.Background(), "eu-west-1", "tenant-bucket", "raw/trades/file")
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Signature")
	assert.Equal(t, []string{""}, factory.accounts)
	assert.Equal(t, "raw/trades/file", aws.ToString(factory.presigner.in.Key))
}
