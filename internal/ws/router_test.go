package ws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_DispatchesToRegisteredHandler(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hub := NewHub(logger)
	router := NewRouter(logger)

	var got json.RawMessage
	router.Register("ping", func(_ context.Context, c *Client, data json.RawMessage) error {
		got = data
		c.Emit("pong", AckPayload{Success: true, Message: "pong"})
		return nil
	})

	c := testClient(t, hub)
	router.Dispatch(c, Envelope{Event: "ping", Data: json.RawMessage(`{"n":1}`)})

	assert.JSONEq(t, `{"n":1}`, string(got))
	env := recvEvent(t, c)
	assert.Equal(t, "pong", env.Event)
}

func TestRouter_UnknownEventIsIgnored(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hub := NewHub(logger)
	router := NewRouter(logger)

	c := testClient(t, hub)
	router.Dispatch(c, Envelope{Event: "nope", Data: nil})

	assertNoEvent(t, c)
}

func TestRouter_HandlerErrorBecomesGenericErrorEvent(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hub := NewHub(logger)
	router := NewRouter(logger)

	router.Register(EventAddComment, func(context.Context, *Client, json.RawMessage) error {
		return errors.New("driver exploded: secret dsn")
	})

	c := testClient(t, hub)
	router.Dispatch(c, Envelope{Event: EventAddComment})

	env := recvEvent(t, c)
	assert.Equal(t, EventError, env.Event)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.False(t, payload.Success)
	assert.Equal(t, "Failed to add comment", payload.Message)
	assert.NotContains(t, payload.Message, "secret", "raw causes never reach the client")
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hub := NewHub(logger)
	router := NewRouter(logger)

	router.Register(EventEditComment, func(context.Context, *Client, json.RawMessage) error {
		panic("boom")
	})

	c := testClient(t, hub)
	require.NotPanics(t, func() {
		router.Dispatch(c, Envelope{Event: EventEditComment})
	})

	env := recvEvent(t, c)
	assert.Equal(t, EventError, env.Event)

	var payload ErrorPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "Failed to edit comment", payload.Message)
}
