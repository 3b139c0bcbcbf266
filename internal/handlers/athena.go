package handlers

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
)

// Athena looks up tenant workgroups through the pivot role.
type Athena struct {
	clients awsclient.Factory
	log     *zap.Logger
}

func NewAthena(clients awsclient.Factory, log *zap.Logger) *Athena {
	return &Athena{clients: clients, log: log}
}

// GetWorkgroup fetches a workgroup description from the tenant account.
// A workgroup that cannot be found is logged and reported as nil.
func (a *Athena) GetWorkgroup(ctx context.Context, accountID, region, workgroup string) *types.WorkGroup {
	client, err := a.clients.Athena(ctx, accountID, region)
	if err != nil {
		a.log.Warn("athena client", zap.String("accountId", accountID), zap.Error(err))
		return nil
	}
	out, err := client.GetWorkGroup(ctx, &athena.GetWorkGroupInput{
		WorkGroup: aws.String(workgroup),
	})
	if err != nil {
		a.log.Info("workgroup cannot be found",
			zap.String("workgroup", workgroup),
			zap.String("accountId", accountID),
			zap.String("code", apiErrorCode(err)),
			zap.Error(err),
		)
		return nil
	}
	return out.WorkGroup
}
