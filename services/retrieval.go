package services

import (
	"context"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

// StationTag is always included in the required tags of a retrieval request.
const StationTag = "station"

// ScaraDemoTrayID is the fixed tray used by the SCARA direct path. The SCARA
// panel bypasses the guard checks entirely and always retrieves this tray.
const ScaraDemoTrayID = "TRAY001"

// Outcome is the result of a tray retrieval request
type Outcome int

const (
	// OutcomeRetrieved means the retrieval command was issued
	OutcomeRetrieved Outcome = iota
	// OutcomeInProgress means a task for this tray is already running
	OutcomeInProgress
	// OutcomePending means a task for this tray is already queued
	OutcomePending
	// OutcomeReady means the tray is already waiting at a station
	OutcomeReady
)

// String returns the operator-facing description of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeRetrieved:
		return "tray retrieval requested"
	case OutcomeInProgress:
		return "tray in progress"
	case OutcomePending:
		return "tray pending"
	case OutcomeReady:
		return "tray ready"
	default:
		return "unknown"
	}
}

// TrayAPI is the subset of the tray service the sequencer needs
type TrayAPI interface {
	Tasks(ctx context.Context, trayID, taskStatus string) ([]models.Task, error)
	IsReady(ctx context.Context, trayID string) (bool, error)
	Retrieve(ctx context.Context, trayID string, requiredTags ...string) error
}

// RetrievalService decides whether a retrieval command should be issued for
// an operator-selected tray and issues it exactly once if so.
type RetrievalService struct {
	tray TrayAPI
}

func NewRetrievalService(tray TrayAPI) *RetrievalService {
	return &RetrievalService{
		tray: tray,
	}
}

// Request runs the guard checks in strict order and short-circuits on the
// first match:
//
//  1. any in-progress task for the tray → OutcomeInProgress, no retrieve
//  2. any pending task for the tray → OutcomePending, no retrieve
//  3. tray already flagged ready at a station → OutcomeReady, no retrieve
//  4. otherwise retrieve the tray, tagged with "station" and the system name
//
// The guard checks fail open: a network or envelope error on steps 1-3
// counts as a non-match and the sequence continues, so a transient error
// checking "is it pending" never blocks an otherwise valid retrieval. Only a
// failure of the retrieve call itself is terminal. The retrieve is sent at
// most once per call and never retried.
func (s *RetrievalService) Request(ctx context.Context, trayID, system string) (Outcome, error) {
	if tasks, err := s.tray.Tasks(ctx, trayID, models.TaskStatusInProgress); err == nil && len(tasks) > 0 {
		return OutcomeInProgress, nil
	}

	if tasks, err := s.tray.Tasks(ctx, trayID, models.TaskStatusPending); err == nil && len(tasks) > 0 {
		return OutcomePending, nil
	}

	if ready, err := s.tray.IsReady(ctx, trayID); err == nil && ready {
		return OutcomeReady, nil
	}

	if err := s.tray.Retrieve(ctx, trayID, StationTag, system); err != nil {
		return OutcomeRetrieved, err
	}
	return OutcomeRetrieved, nil
}

// DirectScara is the SCARA panel's retrieval path: no guard checks, fixed
// demo tray identifier.
func (s *RetrievalService) DirectScara(ctx context.Context) error {
	return s.tray.Retrieve(ctx, ScaraDemoTrayID, StationTag, "scara")
}
