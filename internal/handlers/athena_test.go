package handlers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
)

type fakeAthena struct {
	out *athena.GetWorkGroupOutput
	err error
	in  *athena.GetWorkGroupInput
}

func (f *fakeAthena) GetWorkGroup(_ context.Context, params *athena.GetWorkGroupInput, _ ...func(*athena.Options)) (*athena.GetWorkGroupOutput, error) {
	f.in = params
	return f.out, f.err
}

type athenaFactory struct {
	fakeFactory
	athena *fakeAthena
}

func (f *athenaFactory) Athena(_ context.Context, accountID, _ string) (awsclient.AthenaAPI, error) {
	f.accounts = append(f.accounts, accountID)
	return f.athena, nil
}

func TestGetWorkgroup(t *testing.T) {
	factory := &athenaFactory{athena: &fakeAthena{
		out: &athena.GetWorkGroupOutput{WorkGroup: &types.WorkGroup{Name: aws.String("primary")}},
	}}
	h := NewAthena(factory, zap.NewNop())

	wg := h.GetWorkgroup(context.Background(), "111122223333", "eu-west-1", "primary")
	require.NotNil(t, wg)
	assert.Equal(t, "primary", aws.ToString(wg.Name))
	assert.Equal(t, "primary", aws.ToString(factory.athena.in.WorkGroup))
	assert.Equal(t, []string{"111122223333"}, factory.accounts)
}

func TestGetWorkgroupAbsentIsNil(t *testing.T) {
	factory := &athenaFactory{athena: &fakeAthena{err: errors.New("InvalidRequestException")}}
	h := NewAthena(factory, zap.NewNop())

	assert.Nil(t, h.GetWorkgroup(context.Background(), "111122223333", "eu-west-1", "missing"))
}
