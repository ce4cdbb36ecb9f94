package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Expo push endpoint; override with EXPO_PUSH_URL for testing.
const defaultPushEndpoint = "https://exp.host/--/api/v2/push/send"

type pushMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

// SendNotification delivers a push notification to a single device token.
func SendNotification(token, title, body string, data map[string]string) error {
	endpoint := os.Getenv("EXPO_PUSH_URL")
	if endpoint == "" {
		endpoint = defaultPushEndpoint
	}

	payload, err := json.Marshal(pushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return fmt.Errorf("marshaling push payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending push notification: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		resBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("push service returned %d: %s", res.StatusCode, string(resBody))
	}
	return nil
}
