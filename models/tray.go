package models

import "strings"

// Tray statuses reported by the robot-manager
const (
	TrayStatusActive = "active"
)

// Task statuses used when querying the task endpoint
const (
	TaskStatusInProgress = "in progress"
	TaskStatusPending    = "pending"
)

// Tray is a physical storage unit. Server-owned: the console only reads and
// displays it; state changes happen by issuing a command and re-polling.
type Tray struct {
	ID          int     `json:"id"`
	TrayID      string  `json:"tray_id"`
	TrayStatus  string  `json:"tray_status"`
	TrayHeight  float64 `json:"tray_height"`
	TrayWeight  float64 `json:"tray_weight"`
	TrayDivider int     `json:"tray_divider"`
}

// Task is a scheduled robot job for a tray
type Task struct {
	ID         int    `json:"id"`
	TrayID     string `json:"tray_id"`
	TaskStatus string `json:"task_status"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// ReadyTray is a tray currently sitting at a station, eligible for release
type ReadyTray struct {
	ID            int      `json:"id"`
	TrayID        string   `json:"tray_id"`
	StationName   string   `json:"station_name"`
	Tags          []string `json:"tags"`
	TaskStatus    string   `json:"task_status"`
	StationSlotID string   `json:"station_slot_id"`
}

// HasTag reports whether the tray carries the given tag, case-insensitively
func (t ReadyTray) HasTag(name string) bool {
	for _, tag := range t.Tags {
		if strings.EqualFold(tag, name) {
			return true
		}
	}
	return false
}

// TrayListResponse wraps /robotmanager/trays
type TrayListResponse struct {
	Envelope
	Records []Tray `json:"records"`
}

// TaskListResponse wraps /robotmanager/task
type TaskListResponse struct {
	Envelope
	Records []Task `json:"records"`
}

// ReadyTrayResponse wraps /robotmanager/is_tray_ready
type ReadyTrayResponse struct {
	Envelope
	Records []ReadyTray `json:"records"`
}
