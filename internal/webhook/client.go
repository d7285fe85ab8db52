// Package webhook pushes profile updates to an external sync endpoint.
// Delivery is fire and forget: a failure is logged and the local
// update stands; nothing is retried or rolled back.
package webhook

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"squadnet/internal/models"
)

type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SyncProfile posts the user record to the sync endpoint. Intended to
// run in its own goroutine; the caller never waits on it.
func (c *Client) SyncProfile(u *models.User) {
	body, err := json.Marshal(u)
	if err != nil {
		log.Printf("webhook: encode profile: %v", err)
		return
	}

	resp, err := c.http.Post(c.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("webhook: profile sync: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("webhook: profile sync for %s: status %d", u.ID, resp.StatusCode)
	}
}
