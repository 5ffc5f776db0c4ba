package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
	"github.com/Lovable-Leapmile/ims-robot-console/services"
)

type retrieveCall struct {
	trayID string
	tags   []string
}

// fakeTrayAPI scripts the guard-check answers and records retrieve calls
type fakeTrayAPI struct {
	inProgress    []models.Task
	inProgressErr error
	pending       []models.Task
	pendingErr    error
	ready         bool
	readyErr      error
	retrieveErr   error

	taskCalls []string
	readyCall int
	retrieves []retrieveCall
}

func (f *fakeTrayAPI) Tasks(ctx context.Context, trayID, taskStatus string) ([]models.Task, error) {
	f.taskCalls = append(f.taskCalls, taskStatus)
	switch taskStatus {
	case models.TaskStatusInProgress:
		return f.inProgress, f.inProgressErr
	case models.TaskStatusPending:
		return f.pending, f.pendingErr
	}
	return nil, nil
}

func (f *fakeTrayAPI) IsReady(ctx context.Context, trayID string) (bool, error) {
	f.readyCall++
	return f.ready, f.readyErr
}

func (f *fakeTrayAPI) Retrieve(ctx context.Context, trayID string, requiredTags ...string) error {
	f.retrieves = append(f.retrieves, retrieveCall{trayID: trayID, tags: requiredTags})
	return f.retrieveErr
}

func TestRequest_InProgressAborts(t *testing.T) {
	tray := &fakeTrayAPI{inProgress: []models.Task{{ID: 1, TrayID: "T1"}}}
	seq := services.NewRetrievalService(tray)

	outcome, err := seq.Request(context.Background(), "T1", "amr")

	require.NoError(t, err)
	assert.Equal(t, services.OutcomeInProgress, outcome)
	assert.Equal(t, "tray in progress", outcome.String())
	assert.Empty(t, tray.retrieves, "retrieve must not be called")
	assert.Equal(t, []string{models.TaskStatusInProgress}, tray.taskCalls, "must short-circuit on first match")
}

func TestRequest_PendingAborts(t *testing.T) {
	tray := &fakeTrayAPI{pending: []models.Task{{ID: 2, TrayID: "T1"}}}
	seq := services.NewRetrievalService(tray)

	outcome, err := seq.Request(context.Background(), "T1", "amr")

	require.NoError(t, err)
	assert.Equal(t, services.OutcomePending, outcome)
	assert.Equal(t, "tray pending", outcome.String())
	assert.Empty(t, tray.retrieves)
	assert.Equal(t, 0, tray.readyCall, "ready check must not run after a pending match")
}

func TestRequest_ReadyAborts(t *testing.T) {
	tray := &fakeTrayAPI{ready: true}
	seq := services.NewRetrievalService(tray)

	outcome, err := seq.Request(context.Background(), "T1", "conveyor")

	require.NoError(t, err)
	assert.Equal(t, services.OutcomeReady, outcome)
	assert.Empty(t, tray.retrieves)
}

func TestRequest_ClearTrayRetrievesOnce(t *testing.T) {
	tray := &fakeTrayAPI{}
	seq := services.NewRetrievalService(tray)

	outcome, err := seq.Request(context.Background(), "T7", "bay-door")

	require.NoError(t, err)
	assert.Equal(t, services.OutcomeRetrieved, outcome)
	require.Len(t, tray.retrieves, 1, "exactly one retrieve command")
	assert.Equal(t, "T7", tray.retrieves[0].trayID)
	assert.Equal(t, []string{"station", "bay-door"}, tray.retrieves[0].tags)
}

func TestRequest_GuardFailuresFailOpen(t *testing.T) {
	boom := errors.New("connection refused")
	tray := &fakeTrayAPI{
		inProgressErr: boom,
		pendingErr:    boom,
		readyErr:      boom,
	}
	seq := services.NewRetrievalService(tray)

	outcome, err := seq.Request(context.Background(), "T1", "amr")

	require.NoError(t, err)
	assert.Equal(t, services.OutcomeRetrieved, outcome)
	require.Len(t, tray.retrieves, 1, "all three guard failures must fall through to retrieve")
	assert.Equal(t, []string{models.TaskStatusInProgress, models.TaskStatusPending}, tray.taskCalls)
	assert.Equal(t, 1, tray.readyCall)
}

func TestRequest_GuardFailureThenMatch(t *testing.T) {
	tray := &fakeTrayAPI{
		inProgressErr: errors.New("timeout"),
		pending:       []models.Task{{ID: 5, TrayID: "T1"}},
	}
	seq := services.NewRetrievalService(tray)

	outcome, err := seq.Request(context.Background(), "T1", "amr")

	require.NoError(t, err)
	assert.Equal(t, services.OutcomePending, outcome)
	assert.Empty(t, tray.retrieves)
}

func TestRequest_RetrieveFailureIsTerminal(t *testing.T) {
	boom := errors.New("503")
	tray := &fakeTrayAPI{retrieveErr: boom}
	seq := services.NewRetrievalService(tray)

	outcome, err := seq.Request(context.Background(), "T1", "amr")

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, services.OutcomeRetrieved, outcome)
	assert.Len(t, tray.retrieves, 1, "no automatic retry of the retrieve call")
}

func TestDirectScara_BypassesGuards(t *testing.T) {
	tray := &fakeTrayAPI{
		// Guards would all abort if they ran
		inProgress: []models.Task{{ID: 1}},
		pending:    []models.Task{{ID: 2}},
		ready:      true,
	}
	seq := services.NewRetrievalService(tray)

	err := seq.DirectScara(context.Background())

	require.NoError(t, err)
	assert.Empty(t, tray.taskCalls, "direct path must skip the task checks")
	assert.Equal(t, 0, tray.readyCall)
	require.Len(t, tray.retrieves, 1)
	assert.Equal(t, services.ScaraDemoTrayID, tray.retrieves[0].trayID)
	assert.Equal(t, []string{"station", "scara"}, tray.retrieves[0].tags)
}
