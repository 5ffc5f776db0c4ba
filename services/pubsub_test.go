package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

func TestPubSubLatest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pubsub/subscribe", r.URL.Path)
		assert.Equal(t, "Bay", r.URL.Query().Get("topic"))
		assert.Equal(t, "1", r.URL.Query().Get("num_records"))
		assert.Equal(t, "Bearer pubsub-cred", r.Header.Get("Authorization"))
		w.Write([]byte(`{"records":[{"topic":"Bay","message":{"action":"open"},"created_at":"2026-08-30T10:00:00Z"}]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	status, err := client.PubSub.Latest(context.Background(), "Bay")

	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, "Bay", status.Topic)
	assert.Equal(t, "open", status.Message.Action)
}

func TestPubSubLatest_EmptyTopic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records":[]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	status, err := client.PubSub.Latest(context.Background(), "Locker")

	require.NoError(t, err)
	assert.Nil(t, status)
}

func TestPubSubPublish(t *testing.T) {
	var gotBody models.DeviceMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pubsub/publish", r.URL.Path)
		assert.Equal(t, "Conveyor", r.URL.Query().Get("topic"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.PubSub.Publish(context.Background(), "Conveyor", models.DeviceMessage{Action: "start"})

	require.NoError(t, err)
	assert.Equal(t, "start", gotBody.Action)
}

func TestPubSubPublish_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.PubSub.Publish(context.Background(), "Bay", models.DeviceMessage{Action: "open"})

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}
