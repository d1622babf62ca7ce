package kafka_test

import (
	"context"
	"encoding/json"
	"hotelops/config"
	"hotelops/infras/kafka"
	"hotelops/infras/otel/mocks"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{
		Key:       "booking-1",
		EventType: "booking.checked_out",
		Value:     map[string]string{"total_price": "339.50"},
	}

	out, err := msg.ToKafkaMessage("hotelops.booking")
	require.NoError(t, err)

	assert.Equal(t, "hotelops.booking", out.Topic)
	assert.Equal(t, []byte("booking-1"), out.Key)
	require.Len(t, out.Headers, 2)
	assert.Equal(t, "booking.checked_out", string(out.Headers[0].Value))

	var body map[string]string
	require.NoError(t, json.Unmarshal(out.Value, &body))
	assert.Equal(t, "339.50", body["total_price"])
}

func TestMessage_ToKafkaMessageUnmarshalable(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage("topic")
	assert.Error(t, err)
}

func TestNew_DisabledDropsMessages(t *testing.T) {
	client := kafka.New(&config.Config{}, mocks.NewOtel())

	err := client.SendMessages(context.Background(), "hotelops.booking", kafka.Message{Key: "b1", Value: "x"})
	assert.NoError(t, err)
	assert.NoError(t, client.Close())
}
