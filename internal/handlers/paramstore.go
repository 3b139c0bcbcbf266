package handlers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
)

// ParameterStore reads and writes SSM parameters, centrally or in a tenant
// account.
type ParameterStore struct {
	clients awsclient.Factory
	log     *zap.Logger
}

func NewParameterStore(clients awsclient.Factory, log *zap.Logger) *ParameterStore {
	return &ParameterStore{clients: clients, log: log}
}

// GetParameter returns a decrypted parameter value.
func (p *ParameterStore) GetParameter(ctx context.Context, accountID, region, name string) (string, error) {
	client, err := p.clients.SSM(ctx, accountID, region)
	if err != nil {
		return "", err
	}
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		p.log.Warn("get parameter failed", zap.String("name", name), zap.Error(err))
		return "", errors.Wrapf(err, "get parameter %q", name)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// UpdateParameter overwrites a string parameter and returns its new version.
func (p *ParameterStore) UpdateParameter(ctx context.Context, accountID, region, name, value string) (int64, error) {
	client, err := p.clients.SSM(ctx, accountID, region)
	if err != nil {
		return 0, err
	}
	out, err := client.PutParameter(ctx, &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      types.ParameterTypeString,
		Overwrite: aws.Bool(true),
	})
	if err != nil {
		p.log.Error("update parameter failed",
			zap.String("name", name),
			zap.String("accountId", accountID),
			zap.Error(err),
		)
		return 0, errors.Wrapf(err, "update parameter %q", name)
	}
	p.log.Info("updated parameter", zap.String("name", name), zap.Int64("version", out.Version))
	return out.Version, nil
}
