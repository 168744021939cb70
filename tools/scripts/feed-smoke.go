// Command feed-smoke is a CI-friendly smoke test for the Clubhouse live feed.
//
// It validates, against a running server:
//   - signup + session cookie issuance
//   - WebSocket subscription with the session cookie
//   - posting via the HTML form
//   - the message.new event arriving on the feed
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/coder/websocket"
)

const maxReadBytes = 1 << 20

type feedEvent struct {
	Type    string `json:"type"`
	Message *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Text  string `json:"text"`
	} `json:"message"`
}

func main() {
	baseURL := flag.String("base", "http://127.0.0.1:8080", "server base URL")
	timeout := flag.Duration("timeout", 15*time.Second, "overall deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, strings.TrimRight(*baseURL, "/")); err != nil {
		fmt.Fprintln(os.Stderr, "FAIL:", err)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func run(ctx context.Context, base string) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	client := &http.Client{Jar: jar}

	handle := fmt.Sprintf("smoke%d", time.Now().UnixNano()%1_000_000_000)
	const pw = "Sm0kePassword"

	// Sign up; the server signs the new member in and sets the session cookie.
	resp, err := client.PostForm(base+"/sign-up", url.Values{
		"first_name":       {"Smoke"},
		"last_name":        {"Test"},
		"username":         {handle},
		"password":         {pw},
		"confirm_password": {pw},
	})
	if err != nil {
		return fmt.Errorf("sign-up: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sign-up: status %d", resp.StatusCode)
	}

	// Subscribe to the feed with the session cookie attached.
	conn, _, err := websocket.Dial(ctx, wsURL(base)+"/ws", &websocket.DialOptions{
		HTTPClient: client,
	})
	if err != nil {
		return fmt.Errorf("ws dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(maxReadBytes)

	// Post a message over the HTML form.
	title := "smoke " + handle
	resp, err = client.PostForm(base+"/new-message", url.Values{
		"title": {title},
		"text":  {"feed smoke test"},
	})
	if err != nil {
		return fmt.Errorf("new-message: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("new-message: status %d", resp.StatusCode)
	}

	// The feed must deliver the event.
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return fmt.Errorf("ws read: %w", err)
		}

		var ev feedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return fmt.Errorf("ws decode: %w", err)
		}
		if ev.Type != "message.new" || ev.Message == nil {
			continue
		}
		if ev.Message.Title == title {
			return nil
		}
	}
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return "ws://" + base
	}
}
