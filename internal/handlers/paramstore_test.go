package handlers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
)

type fakeSSM struct {
	getOut *ssm.GetParameterOutput
	getErr error
	getIn  *ssm.GetParameterInput
	putOut *ssm.PutParameterOutput
	putErr error
	putIn  *ssm.PutParameterInput
}

func (f *fakeSSM) GetParameter(_ context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.getIn = params
	return f.getOut, f.getErr
}

func (f *fakeSSM) PutParameter(_ context.Context, params *ssm.PutParameterInput, _ ...func(*ssm.Options)) (*ssm.PutParameterOutput, error) {
	f.putIn = params
	return f.putOut, f.putErr
}

type ssmFactory struct {
	fakeFactory
	ssm *fakeSSM
}

func (f *ssmFactory) SSM(_ context.Context, accountID, _ string) (awsclient.SSMAPI, error) {
	f.accounts = append(f.accounts, accountID)
	return f.ssm, nil
}

func TestGetParameterDecrypts(t *testing.T) {
	factory := &ssmFactory{ssm: &fakeSSM{
		getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("dataallPivotRole")}},
	}}
	p := NewParameterStore(factory, zap.NewNop())

	value, err := p.GetParameter(context.Background(), "", "eu-west-1", "/dataall/prod/pivotRole/pivotRoleName")
	require.NoError(t, err)
	assert.Equal(t, "dataallPivotRole", value)
	assert.True(t, aws.ToBool(factory.ssm.getIn.WithDecryption))
}

func TestGetParameterMissingErrors(t *testing.T) {
	factory := &ssmFactory{ssm: &fakeSSM{getErr: errors.New("ParameterNotFound")}}
	p := NewParameterStore(factory, zap.NewNop())

	_, err := p.GetParameter(context.Background(), "", "eu-west-1", "/dataall/prod/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/dataall/prod/missing")
}

func TestUpdateParameterOverwrites(t *testing.T) {
	factory := &ssmFactory{ssm: &fakeSSM{putOut: &ssm.PutParameterOutput{Version: 4}}}
	p := NewParameterStore(factory, zap.NewNop())

	version, err := p.UpdateParameter(context.Background(), "", "eu-west-1", "/dataall/prod/quicksightmonitoring/enable", "true")
	require.NoError(t, err)
	assert.Equal(t, int64(4), version)
	assert.True(t, aws.ToBool(factory.ssm.putIn.Overwrite))
	assert.Equal(t, types.ParameterTypeString, factory.ssm.putIn.Type)
}
