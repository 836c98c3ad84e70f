package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"movie-ticketing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewPublisherWithoutURLLogsOnly(t *testing.T) {
	p := NewPublisher(utils.RabbitMQConfig{Queue: "transaction.events"}, zap.NewNop())

	_, ok := p.(*logPublisher)
	require.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), TransactionEvent{Type: EventTransactionPurchased}))
}

func TestTransactionEventJSON(t *testing.T) {
	confirmation := int64(80001)
	event := TransactionEvent{
		Type:               EventTransactionPurchased,
		TransactionID:      "4b0c8a52-8d7c-4b3f-9a57-0f0f8f9d2d11",
		TransactionNumber:  70001,
		ConfirmationNumber: &confirmation,
		Tickets:            2,
		Total:              "24.00",
		OccurredAt:         time.Date(2024, 5, 1, 19, 0, 0, 0, time.UTC),
	}

	body, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "transaction.purchased", decoded["type"])
	assert.EqualValues(t, 80001, decoded["confirmation_number"])
	assert.Equal(t, "24.00", decoded["total"])
}

func TestTransactionEventOmitsMissingConfirmation(t *testing.T) {
	body, err := json.Marshal(TransactionEvent{Type: EventTransactionCancelled})
	require.NoError(t, err)
	assert.NotContains(t, string(body), "confirmation_number")
}
