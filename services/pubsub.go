package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

type PubSubService struct {
	client ClientInterface
}

func NewPubSubService(client ClientInterface) *PubSubService {
	return &PubSubService{
		client: client,
	}
}

// Latest fetches the single most recent record on a topic. Returns nil when
// the topic has no records yet.
func (s *PubSubService) Latest(ctx context.Context, topic string) (*models.DeviceStatus, error) {
	q := url.Values{}
	q.Set("topic", topic)
	q.Set("num_records", strconv.Itoa(1))

	req, err := s.client.NewPubSubRequest(ctx, "GET", "/pubsub/subscribe?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.APIError{StatusCode: resp.StatusCode}
	}

	var result models.SubscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Records) == 0 {
		return nil, nil
	}
	return &result.Records[0], nil
}

// Publish sends a command message on a topic
func (s *PubSubService) Publish(ctx context.Context, topic string, message models.DeviceMessage) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	q := url.Values{}
	q.Set("topic", topic)

	req, err := s.client.NewPubSubRequest(ctx, "POST", "/pubsub/publish?"+q.Encode(), bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &models.APIError{StatusCode: resp.StatusCode}
	}

	return nil
}
