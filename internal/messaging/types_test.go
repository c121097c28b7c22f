package messaging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transitionPayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

func TestParseEnvelope(t *testing.T) {
	env, err := NewEnvelope("order_abc", "payment.transition", transitionPayload{OrderID: "order_abc", Status: "captured"})
	require.NoError(t, err)
	raw, err := json.Marshal(env)
	require.NoError(t, err)

	t.Run("round trips envelope and payload", func(t *testing.T) {
		got, err := ParseEnvelope(raw)
		require.NoError(t, err)
		assert.Equal(t, env.EventID, got.EventID)
		assert.Equal(t, "order_abc", got.Key)

		var p transitionPayload
		require.NoError(t, got.Decode(&p))
		assert.Equal(t, transitionPayload{OrderID: "order_abc", Status: "captured"}, p)
	})

	rejected := map[string]string{
		"not json":        `{not json`,
		"missing type":    `{"event_id":"e1","payload":{}}`,
		"missing eventID": `{"type":"payment.transition","payload":{}}`,
	}
	for name, value := range rejected {
		t.Run("rejects "+name, func(t *testing.T) {
			_, err := ParseEnvelope([]byte(value))
			assert.ErrorIs(t, err, ErrPermanent)
		})
	}
}

func TestEnvelope_Decode(t *testing.T) {
	var p transitionPayload

	assert.ErrorIs(t, Envelope{EventID: "e1"}.Decode(&p), ErrPermanent)
	assert.ErrorIs(t, Envelope{EventID: "e1", Type: "payment.transition", Payload: json.RawMessage(`["x"]`)}.Decode(&p), ErrPermanent)
}
