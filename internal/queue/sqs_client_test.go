package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSender struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSender) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	return &sqs.SendMessageOutput{}, f.err
}

func TestSQSClientSendEncodesJob(t *testing.T) {
	fake := &fakeSender{}
	c := &SQSClient{client: fake, queueURL: "https://sqs.local/queue"}

	if err := c.Send(context.Background(), DeliveryJob{DocumentID: "doc-1", PhoneNumber: "+1"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if aws.ToString(fake.input.QueueUrl) != "https://sqs.local/queue" {
		t.Fatalf("unexpected queue url %q", aws.ToString(fake.input.QueueUrl))
	}
	job, err := DecodeJob([]byte(aws.ToString(fake.input.MessageBody)))
	if err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if job.DocumentID != "doc-1" || job.Version != CurrentVersion {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestSQSClientSendWrapsError(t *testing.T) {
	boom := errors.New("throttled")
	c := &SQSClient{client: &fakeSender{err: boom}, queueURL: "q"}
	if err := c.Send(context.Background(), DeliveryJob{DocumentID: "d"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewSQSClientRequiresURL(t *testing.T) {
	if _, err := NewSQSClient(context.Background(), "", " "); err == nil {
		t.Fatalf("expected error for empty queue url")
	}
}
