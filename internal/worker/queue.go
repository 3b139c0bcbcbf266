package worker

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"datagov/internal/awsclient"
)

// Publisher hands created tasks to the SQS queue driving the Lambda worker.
// The message body is the task URI and nothing else; the worker resolves the
// task from the store.
type Publisher struct {
	client   awsclient.SQSAPI
	queueURL string
	log      *zap.Logger
}

func NewPublisher(client awsclient.SQSAPI, queueURL string, log *zap.Logger) *Publisher {
	return &Publisher{client: client, queueURL: queueURL, log: log}
}

// Publish enqueues one task for processing.
func (p *Publisher) Publish(ctx context.Context, taskURI string) error {
	_, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(taskURI),
	})
	if err != nil {
		return errors.Wrapf(err, "enqueue task %q", taskURI)
	}
	p.log.Info("task enqueued", zap.String("taskUri", taskURI))
	return nil
}
