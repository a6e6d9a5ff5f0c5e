package push

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultPushURL = "https://exp.host/--/api/v2/push/send"

// Client delivers mobile push notifications through the Expo gateway.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a push client from PUSH_API_URL.
func NewClient() *Client {
	pushURL := os.Getenv("PUSH_API_URL")
	if pushURL == "" {
		pushURL = defaultPushURL
	}
	return &Client{
		url: pushURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type message struct {
	To        string `json:"to"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Sound     string `json:"sound"`
	ChannelID string `json:"channelId"`
}

// Send pushes one notification to a device token.
func (c *Client) Send(token, title, body string) error {
	payload, err := json.Marshal(message{
		To:        token,
		Title:     title,
		Body:      body,
		Sound:     "default",
		ChannelID: "default",
	})
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}
