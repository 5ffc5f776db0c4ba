// Package services provides the per-concern API groups of the robot-manager
// and pubsub collaborator services.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Lovable-Leapmile/ims-robot-console/models"
)

// ClientInterface defines the methods needed from the client
type ClientInterface interface {
	NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	NewPublicRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	NewPubSubRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error)
	Do(req *http.Request) (*http.Response, error)
	GetBaseURL() string
}

type AuthService struct {
	client ClientInterface
}

func NewAuthService(client ClientInterface) *AuthService {
	return &AuthService{
		client: client,
	}
}

// Validate exchanges operator credentials for a bearer token via
// /user/validate. This is the only unauthenticated call in the API.
func (s *AuthService) Validate(ctx context.Context, phone, password string) (*models.ValidateResponse, error) {
	q := url.Values{}
	q.Set("user_phone", phone)
	q.Set("password", password)

	req, err := s.client.NewPublicRequest(ctx, "GET", "/user/validate?"+q.Encode(), nil)
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

	var result models.ValidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK() {
		return nil, &models.EnvelopeError{Status: result.Status, Message: result.Message}
	}

	return &result, nil
}
