package worker

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSQS struct {
	sent    []*sqs.SendMessageInput
	sendErr error
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, params)
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func TestPublisherSendsTaskURIAsBody(t *testing.T) {
	client := &fakeSQS{}
	p := NewPublisher(client, "https://sqs.eu-west-1.amazonaws.com/111122223333/tasks", zap.NewNop())

	err := p.Publish(context.Background(), "task-123")
	require.NoError(t, err)

	require.Len(t, client.sent, 1)
	assert.Equal(t, "https://sqs.eu-west-1.amazonaws.com/111122223333/tasks", aws.ToString(client.sent[0].QueueUrl))
	assert.Equal(t, "task-123", aws.ToString(client.sent[0].MessageBody))
}

func TestPublisherWrapsSendFailure(t *testing.T) {
	client := &fakeSQS{sendErr: errors.New("queue gone")}
	p := NewPublisher(client, "https://sqs.eu-west-1.amazonaws.com/111122223333/tasks", zap.NewNop())

	err := p.Publish(context.Background(), "task-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `enqueue task "task-123"`)
	assert.Contains(t, err.Error(), "queue gone")
}
