package services

import (
	"context"
	"sync"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

// scaraPoolSize is the number of item slots handed out round-robin to
// arriving SCARA trays.
const scaraPoolSize = 6

// Publisher is the subset of the pubsub service the dispatcher needs
type Publisher interface {
	Publish(ctx context.Context, topic string, message models.DeviceMessage) error
}

// ScaraDispatcher watches ready-tray snapshots for trays bound for the SCARA
// arm. The first time a tray id appears with a "scara" tag it is assigned
// the next item slot from a fixed pool of 6 and a single pick notification
// is published. The seen set lives for the whole process: a tray id never
// triggers a second assignment, however many polls it shows up in.
//
// Safe for concurrent use: poll fetches run on background goroutines, and a
// release-triggered refetch can overlap an in-flight tick fetch.
type ScaraDispatcher struct {
	pubsub Publisher

	mu   sync.Mutex
	seen map[string]struct{}
	next int
}

func NewScaraDispatcher(pubsub Publisher) *ScaraDispatcher {
	return &ScaraDispatcher{
		pubsub: pubsub,
		seen:   make(map[string]struct{}),
	}
}

// Observe scans one poll snapshot and publishes a pick notification for each
// newly seen SCARA tray. A tray is marked seen even when its publish fails;
// the notification is one-shot, not retried on a later poll.
func (d *ScaraDispatcher) Observe(ctx context.Context, trays []models.ReadyTray) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	for _, tray := range trays {
		if !tray.HasTag("scara") {
			continue
		}
		if _, ok := d.seen[tray.TrayID]; ok {
			continue
		}
		d.seen[tray.TrayID] = struct{}{}

		itemID := d.next + 1
		d.next = (d.next + 1) % scaraPoolSize

		err := d.pubsub.Publish(ctx, models.ScaraPickTopic, models.DeviceMessage{
			Action: "pick",
			ItemID: itemID,
			TrayID: tray.TrayID,
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
