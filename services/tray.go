package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

type TrayService struct {
	client ClientInterface
}

func NewTrayService(client ClientInterface) *TrayService {
	return &TrayService{
		client: client,
	}
}

// List retrieves trays with the given status, ordered ascending by id
func (s *TrayService) List(ctx context.Context, trayStatus string) ([]models.Tray, error) {
	q := url.Values{}
	q.Set("tray_status", trayStatus)
	q.Set("order_by_field", "id")
	q.Set("order_by_type", "asc")

	req, err := s.client.NewRequest(ctx, "GET", "/robotmanager/trays?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var result models.TrayListResponse
	if err := s.do(req, &result); err != nil {
		return nil, err
	}
	if err := result.Check(); err != nil {
		return nil, err
	}

	return result.Records, nil
}

// Tasks retrieves the tasks for a tray in the given status, ordered
// ascending by update time
func (s *TrayService) Tasks(ctx context.Context, trayID, taskStatus string) ([]models.Task, error) {
	q := url.Values{}
	q.Set("tray_id", trayID)
	q.Set("task_status", taskStatus)
	q.Set("order_by_field", "updated_at")
	q.Set("order_by_type", "asc")

	req, err := s.client.NewRequest(ctx, "GET", "/robotmanager/task?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var result models.TaskListResponse
	if err := s.do(req, &result); err != nil {
		return nil, err
	}
	if err := result.Check(); err != nil {
		return nil, err
	}

	return result.Records, nil
}

// Ready retrieves every tray currently flagged ready at a station
func (s *TrayService) Ready(ctx context.Context) ([]models.ReadyTray, error) {
	return s.ready(ctx, "")
}

// IsReady reports whether a specific tray is flagged ready at a station
func (s *TrayService) IsReady(ctx context.Context, trayID string) (bool, error) {
	records, err := s.ready(ctx, trayID)
	if err != nil {
		return false, err
	}
	return len(records) > 0, nil
}

func (s *TrayService) ready(ctx context.Context, trayID string) ([]models.ReadyTray, error) {
	path := "/robotmanager/is_tray_ready"
	if trayID != "" {
		q := url.Values{}
		q.Set("tray_id", trayID)
		path += "?" + q.Encode()
	}

	req, err := s.client.NewRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var result models.ReadyTrayResponse
	if err := s.do(req, &result); err != nil {
		return nil, err
	}
	if err := result.Check(); err != nil {
		return nil, err
	}

	return result.Records, nil
}

// Retrieve issues the retrieval command for a tray. The required tags route
// the request to the right station; the command is sent exactly once, never
// retried.
func (s *TrayService) Retrieve(ctx context.Context, trayID string, requiredTags ...string) error {
	q := url.Values{}
	q.Set("tray_id", trayID)
	for _, tag := range requiredTags {
		q.Add("required_tags", tag)
	}

	req, err := s.client.NewRequest(ctx, "POST", "/robotmanager/retrieve_tray?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	var result models.Envelope
	if err := s.do(req, &result); err != nil {
		return err
	}
	return result.Check()
}

// Release releases a ready tray from its station, echoing back its tags
func (s *TrayService) Release(ctx context.Context, trayID string, tags ...string) error {
	q := url.Values{}
	q.Set("tray_id", trayID)
	for _, tag := range tags {
		q.Add("tags", tag)
	}

	req, err := s.client.NewRequest(ctx, "PATCH", "/robotmanager/release_tray?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	var result models.Envelope
	if err := s.do(req, &result); err != nil {
		return err
	}
	return result.Check()
}

func (s *TrayService) do(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &models.APIError{StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
