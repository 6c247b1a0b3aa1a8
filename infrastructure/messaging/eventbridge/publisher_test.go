package eventbridge

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"brainstorm/domain/events"
	pkgerrors "brainstorm/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	inputs []*eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
	err    error
}

func (c *recordingClient) PutEvents(_ context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	c.inputs = append(c.inputs, in)
	if c.err != nil {
		return nil, c.err
	}
	if c.output != nil {
		return c.output, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func removals(n int) []events.DomainEvent {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]events.DomainEvent, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, events.NewNodeRemoved("A", i, ts))
	}
	return out
}

func TestPublisher_Publish(t *testing.T) {
	client := &recordingClient{}
	publisher := NewPublisher(client, "bus", nil)

	require.NoError(t, publisher.Publish(context.Background(), removals(23)...))

	require.Len(t, client.inputs, 3)
	assert.Len(t, client.inputs[0].Entries, 10)
	assert.Len(t, client.inputs[2].Entries, 3)

	entry := client.inputs[0].Entries[0]
	assert.Equal(t, "bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, Source, aws.ToString(entry.Source))
	assert.Equal(t, events.TypeNodeRemoved, aws.ToString(entry.DetailType))

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "A", detail["node_id"])
}

func TestPublisher_Failures(t *testing.T) {
	tests := []struct {
		name   string
		client *recordingClient
	}{
		{name: "call fails", client: &recordingClient{err: assert.AnError}},
		{
			name: "entry rejected",
			client: &recordingClient{output: &eventbridge.PutEventsOutput{
				FailedEntryCount: 1,
				Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPublisher(tt.client, "bus", nil).Publish(context.Background(), removals(1)...)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
		})
	}
}

func TestPublisher_NothingToSend(t *testing.T) {
	client := &recordingClient{}
	require.NoError(t, NewPublisher(client, "bus", nil).Publish(context.Background()))
	assert.Empty(t, client.inputs)
}
