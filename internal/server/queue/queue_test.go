package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	sent       []*sqs.SendMessageInput
	received   *sqs.ReceiveMessageInput
	deleted    []*sqs.DeleteMessageInput
	messages   []types.Message
	receiveErr error
}

func (f *fakeSQS) SendMessage(ctx context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.sent = append(f.sent, in)
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.received = in
	if f.receiveErr != nil {
		return nil, f.receiveErr
	}
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, in)
	return &sqs.DeleteMessageOutput{}, nil
}

func TestSQSQueue_SendReceiveAck(t *testing.T) {
	fake := &fakeSQS{messages: []types.Message{
		{MessageId: aws.String("m-1"), Body: aws.String(`{"a":1}`), ReceiptHandle: aws.String("rh-1")},
	}}
	q := &SQSQueue{client: fake, queueURL: "http://queue/url"}
	ctx := context.Background()

	require.NoError(t, q.Send(ctx, []byte(`{"a":1}`)))
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "http://queue/url", aws.ToString(fake.sent[0].QueueUrl))
	assert.Equal(t, `{"a":1}`, aws.ToString(fake.sent[0].MessageBody))

	msgs, err := q.Receive(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, int32(maxMessages), fake.received.MaxNumberOfMessages)
	assert.Equal(t, int32(waitTimeSeconds), fake.received.WaitTimeSeconds)
	assert.Equal(t, []byte(`{"a":1}`), msgs[0].Body)

	require.NoError(t, q.Ack(ctx, msgs[0]))
	require.Len(t, fake.deleted, 1)
	assert.Equal(t, "rh-1", aws.ToString(fake.deleted[0].ReceiptHandle))
}

func TestSQSQueue_ReceiveError(t *testing.T) {
	q := &SQSQueue{client: &fakeSQS{receiveErr: errors.New("throttled")}, queueURL: "u"}
	_, err := q.Receive(context.Background())
	assert.ErrorContains(t, err, "sqs receive: throttled")
}

func TestNewSQSQueue(t *testing.T) {
	q := NewSQSQueue(aws.Config{Region: "us-east-1"}, "http://127.0.0.1:9324/000000000000/q", "http://127.0.0.1:9324/")
	assert.NotNil(t, q.client)
	assert.Equal(t, "http://127.0.0.1:9324/000000000000/q", q.queueURL)
}

func TestMemoryQueue_FIFOAndBatching(t *testing.T) {
	q := NewMemoryQueue(20)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		require.NoError(t, q.Send(ctx, []byte{byte(i)}))
	}

	first, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Len(t, first, maxMessages)
	assert.Equal(t, []byte{0}, first[0].Body)

	second, err := q.Receive(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.NoError(t, q.Ack(ctx, second[0]))
}

func TestMemoryQueue_ReceiveHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryQueue_SendFailsFastWhenFull(t *testing.T) {
	q := NewMemoryQueue(1)
	require.NoError(t, q.Send(context.Background(), []byte("a")))

	start := time.Now()
	assert.ErrorIs(t, q.Send(context.Background(), []byte("b")), ErrQueueFull)
	assert.Less(t, time.Since(start), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Send(ctx, []byte("c")), context.Canceled)
}
