package awsclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3control"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const sessionName = "dataallPivotRoleSession"

// SessionHelper implements Factory. Central clients use the default
// credential chain; remote clients assume the tenant's pivot role with the
// environment external id. Assumed-role credential providers are cached per
// account so repeated handler calls do not re-assume.
type SessionHelper struct {
	base          aws.Config
	pivotRoleName string
	externalID    string
	log           *zap.Logger

	mu    sync.Mutex
	creds map[string]aws.CredentialsProvider
}

// NewSessionHelper loads the default configuration for the central account.
// The external id is distributed to tenants out of band via SSM; the caller
// resolves it before constructing the helper.
func NewSessionHelper(ctx context.Context, region, pivotRoleName, externalID string, log *zap.Logger) (*SessionHelper, error) {
	base, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load default aws config")
	}
	return &SessionHelper{
		base:          base,
		pivotRoleName: pivotRoleName,
		externalID:    externalID,
		log:           log,
		creds:         map[string]aws.CredentialsProvider{},
	}, nil
}

// Account returns the central account id via STS.
func (h *SessionHelper) Account(ctx context.Context) (string, error) {
	out, err := sts.NewFromConfig(h.base).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", errors.Wrap(err, "get caller identity")
	}
	return aws.ToString(out.Account), nil
}

// remoteConfig returns an aws.Config whose credentials come from assuming
// the pivot role in the given tenant account.
func (h *SessionHelper) remoteConfig(accountID, region string) aws.Config {
	h.mu.Lock()
	provider, ok := h.creds[accountID]
	if !ok {
		roleArn := fmt.Sprintf("arn:aws:iam::%s:role/%s", accountID, h.pivotRoleName)
		provider = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(
			sts.NewFromConfig(h.base), roleArn,
			func(o *stscreds.AssumeRoleOptions) {
				o.RoleSessionName = sessionName
				if h.externalID != "" {
					o.ExternalID = aws.String(h.externalID)
				}
			},
		))
		h.creds[accountID] = provider
	}
	h.mu.Unlock()

	cfg := h.base.Copy()
	cfg.Region = region
	cfg.Credentials = provider
	return cfg
}

// config picks the remote or central configuration for a call. An empty
// accountID means the central account.
func (h *SessionHelper) config(accountID, region string) aws.Config {
	if accountID != "" {
		return h.remoteConfig(accountID, region)
	}
	h.log.Debug("using central account session", zap.String("region", region))
	cfg := h.base.Copy()
	if region != "" {
		cfg.Region = region
	}
	return cfg
}

func (h *SessionHelper) S3(_ context.Context, accountID, region string) (S3API, error) {
	return s3.NewFromConfig(h.config(accountID, region)), nil
}

func (h *SessionHelper) S3Control(_ context.Context, accountID, region string) (S3ControlAPI, error) {
	return s3control.NewFromConfig(h.config(accountID, region)), nil
}

func (h *SessionHelper) S3Presign(_ context.Context, accountID, region string) (S3PresignAPI, error) {
	client := s3.NewFromConfig(h.config(accountID, region), func(o *s3.Options) {
		o.UsePathStyle = false
	})
	return s3.NewPresignClient(client), nil
}

func (h *SessionHelper) Athena(_ context.Context, accountID, region string) (AthenaAPI, error) {
	return athena.NewFromConfig(h.config(accountID, region)), nil
}

func (h *SessionHelper) SSM(_ context.Context, accountID, region string) (SSMAPI, error) {
	return ssm.NewFromConfig(h.config(accountID, region)), nil
}

// SQS returns the task queue client. The queue lives in the central account,
// so callers pass an empty accountID.
func (h *SessionHelper) SQS(_ context.Context, accountID, region string) (SQSAPI, error) {
	return sqs.NewFromConfig(h.config(accountID, region)), nil
}

var _ Factory = (*SessionHelper)(nil)
