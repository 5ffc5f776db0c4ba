package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ims "github.com/Lovable-Leapmile/ims-robot-console"
	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }

func testClient(serverURL string) *ims.Client {
	return ims.NewClient(
		ims.WithBaseURL(serverURL),
		ims.WithPubSubBaseURL(serverURL),
		ims.WithPubSubToken("pubsub-cred"),
		ims.WithTokenSource(tokenFunc(func() string { return "T" })),
	)
}

func TestTrayList(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/robotmanager/trays", r.URL.Path)
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status":"success","records":[
			{"id":1,"tray_id":"TRAY001","tray_status":"active","tray_height":120,"tray_weight":4.5,"tray_divider":2},
			{"id":2,"tray_id":"TRAY002","tray_status":"active","tray_height":120,"tray_weight":1.2,"tray_divider":4}
		]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	trays, err := client.Tray.List(context.Background(), models.TrayStatusActive)

	require.NoError(t, err)
	require.Len(t, trays, 2)
	assert.Equal(t, "TRAY001", trays[0].TrayID)
	assert.Equal(t, 4.5, trays[0].TrayWeight)
	assert.Equal(t, []string{"active"}, gotQuery["tray_status"])
	assert.Equal(t, []string{"id"}, gotQuery["order_by_field"])
	assert.Equal(t, []string{"asc"}, gotQuery["order_by_type"])
}

func TestTrayTasks_OrderedByUpdateTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/robotmanager/task", r.URL.Path)
		assert.Equal(t, "TRAY001", q.Get("tray_id"))
		assert.Equal(t, "in progress", q.Get("task_status"))
		assert.Equal(t, "updated_at", q.Get("order_by_field"))
		assert.Equal(t, "asc", q.Get("order_by_type"))
		w.Write([]byte(`{"status":"success","records":[{"id":9,"tray_id":"TRAY001","task_status":"in progress"}]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	tasks, err := client.Tray.Tasks(context.Background(), "TRAY001", models.TaskStatusInProgress)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "in progress", tasks[0].TaskStatus)
}

func TestTrayIsReady(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tray_id") == "TRAY001" {
			w.Write([]byte(`{"status":"success","records":[{"id":1,"tray_id":"TRAY001","station_name":"S1","tags":["station","amr"],"task_status":"done","station_slot_id":"A3"}]}`))
			return
		}
		w.Write([]byte(`{"status":"success","records":[]}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	ready, err := client.Tray.IsReady(context.Background(), "TRAY001")
	require.NoError(t, err)
	assert.True(t, ready)

	ready, err = client.Tray.IsReady(context.Background(), "TRAY002")
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestTrayRetrieve_RepeatableRequiredTags(t *testing.T) {
	var gotMethod string
	var gotTags []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		assert.Equal(t, "/robotmanager/retrieve_tray", r.URL.Path)
		assert.Equal(t, "TRAY001", r.URL.Query().Get("tray_id"))
		gotTags = r.URL.Query()["required_tags"]
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.Tray.Retrieve(context.Background(), "TRAY001", "station", "amr")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, []string{"station", "amr"}, gotTags)
}

func TestTrayRelease_PatchWithTags(t *testing.T) {
	var gotMethod string
	var gotTags []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		assert.Equal(t, "/robotmanager/release_tray", r.URL.Path)
		gotTags = r.URL.Query()["tags"]
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.Tray.Release(context.Background(), "TRAY001", "station", "scara")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, []string{"station", "scara"}, gotTags)
}

func TestTray_EnvelopeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failure","message":"tray not found"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	err := client.Tray.Retrieve(context.Background(), "NOPE", "station", "amr")

	var envErr *models.EnvelopeError
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "failure", envErr.Status)
	assert.Equal(t, "tray not found", envErr.Message)
}

func TestTray_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.Tray.List(context.Background(), models.TrayStatusActive)

	var apiErr *models.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}
