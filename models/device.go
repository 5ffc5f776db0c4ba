package models

// DeviceKind identifies a controllable device on the warehouse floor
type DeviceKind int

const (
	DeviceLocker DeviceKind = iota
	DeviceConveyor
	DeviceBayDoor
	DeviceShuttle
	DeviceScara
)

// Device describes one controllable device: its pubsub topic, whether its
// panel keeps a live status poll running, and the command actions it accepts.
type Device struct {
	Kind    DeviceKind
	Name    string
	Topic   string
	Live    bool
	Actions []string
}

// Devices is the catalog of controllable devices, keyed by kind. The locker
// is the only device without live monitoring; its status is fetched once
// when the panel opens.
var Devices = map[DeviceKind]Device{
	DeviceLocker:   {Kind: DeviceLocker, Name: "Locker", Topic: "Locker", Live: false, Actions: []string{"lock", "unlock"}},
	DeviceConveyor: {Kind: DeviceConveyor, Name: "Conveyor", Topic: "Conveyor", Live: true, Actions: []string{"start", "stop", "reverse"}},
	DeviceBayDoor:  {Kind: DeviceBayDoor, Name: "Bay Door", Topic: "Bay", Live: true, Actions: []string{"open", "close"}},
	DeviceShuttle:  {Kind: DeviceShuttle, Name: "Shuttle", Topic: "Shuttle", Live: true, Actions: []string{"up", "down", "home"}},
	DeviceScara:    {Kind: DeviceScara, Name: "SCARA", Topic: "Scara", Live: true, Actions: []string{"pick", "place", "home"}},
}

// ScaraPickTopic is the topic used to notify the SCARA arm of a tray that
// arrived at its station with an assigned item slot.
const ScaraPickTopic = "Scara"

// DeviceStatus is the last-known state of a device topic. Transient:
// overwritten wholesale on each poll tick, no history retained.
type DeviceStatus struct {
	Topic     string        `json:"topic"`
	Message   DeviceMessage `json:"message"`
	CreatedAt string        `json:"created_at"`
}

// DeviceMessage is the payload of a device status record
type DeviceMessage struct {
	Action string `json:"action"`
	ItemID int    `json:"item_id,omitempty"`
	TrayID string `json:"tray_id,omitempty"`
}

// SubscribeResponse wraps /pubsub/subscribe
type SubscribeResponse struct {
	Records []DeviceStatus `json:"records"`
}
