package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldchain/internal/platform/kafka/producer"
	id "coldchain/pkg/domain"
	audit "coldchain/pkg/platform/audit"
)

type captureProducer struct {
	msgs []*producer.Message
}

func (c *captureProducer) Produce(_ context.Context, msg *producer.Message) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestAppendProducesKeyedJSON(t *testing.T) {
	p := &captureProducer{}
	store := New(p, "coldchain.audit")
	userID := id.UserID(uuid.New())

	require.NoError(t, store.Append(context.Background(), audit.Event{
		UserID: userID,
		Action: string(audit.EventSessionsRevoked),
	}))

	require.Len(t, p.msgs, 1)
	msg := p.msgs[0]
	assert.Equal(t, "coldchain.audit", msg.Topic)
	assert.Equal(t, userID.String(), string(msg.Key))
	assert.Equal(t, string(audit.EventSessionsRevoked), msg.Headers["action"])

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, userID, decoded.UserID)
}
