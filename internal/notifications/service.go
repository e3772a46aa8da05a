package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/solosoyfranco/LibrAIry/internal/config"
)

const userAgent = "LibrAIry/0.1.0"

// Event identifies a notable moment in a run's lifecycle.
type Event string

const (
	EventRunStarted   Event = "run_started"
	EventRunCompleted Event = "run_completed"
	EventReviewNeeded Event = "review_needed"
	EventError        Event = "error"
	EventTest         Event = "test"
)

// Payload carries the event-specific fields used to format the message.
// Values arrive preformatted; the service only assembles them.
type Payload map[string]string

// Service publishes run events to the configured push channel. Delivery
// failures are reported to the caller, who logs and moves on; a lost
// notification never affects the run itself.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when a topic is
// configured, honoring the per-event toggles. Without a topic it returns a
// noop implementation.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		enabled: map[Event]bool{
			EventRunStarted:   cfg.Notifications.Runs,
			EventRunCompleted: cfg.Notifications.Runs,
			EventReviewNeeded: cfg.Notifications.Review,
			EventError:        cfg.Notifications.Errors,
			EventTest:         true,
		},
	}
}

type note struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	enabled  map[Event]bool
}

// Publish formats and sends one event. Suppressed and unknown events are
// silently dropped.
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if !n.enabled[event] {
		return nil
	}
	data, ok := formatEvent(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, data)
}

func formatEvent(event Event, p Payload) (note, bool) {
	get := func(key string) string { return strings.TrimSpace(p[key]) }

	switch event {
	case EventRunStarted:
		flow := orUnknown(get("flow"))
		message := fmt.Sprintf("Started %s run", flow)
		if items := get("items"); items != "" {
			message = fmt.Sprintf("%s: %s item(s)", message, items)
		}
		return note{
			title:   "LibrAIry - Run Started",
			message: message,
			tags:    []string{"librairy", flow, "started"},
		}, true

	case EventRunCompleted:
		flow := orUnknown(get("flow"))
		summary := get("summary")
		if summary == "" {
			summary = "nothing to do"
		}
		duration := get("duration")
		failed := get("failed") != "" && get("failed") != "0"

		title := "LibrAIry - Run Complete"
		prefix := "✅"
		priority := ""
		if failed {
			title = "LibrAIry - Run Complete (with errors)"
			prefix = "⚠️"
			priority = "high"
		}
		message := fmt.Sprintf("%s %s run complete", prefix, flow)
		if duration != "" {
			message = fmt.Sprintf("%s in %s", message, duration)
		}
		message = fmt.Sprintf("%s: %s", message, summary)
		return note{
			title:    title,
			message:  message,
			tags:     []string{"librairy", flow, "completed"},
			priority: priority,
		}, true

	case EventReviewNeeded:
		count := get("count")
		if count == "" {
			count = "some"
		}
		message := fmt.Sprintf("Review needed: %s item(s) awaiting a manual decision", count)
		if dir := get("dir"); dir != "" {
			message = fmt.Sprintf("%s\nLocation: %s", message, dir)
		}
		return note{
			title:   "LibrAIry - Review Needed",
			message: message,
			tags:    []string{"librairy", "review"},
		}, true

	case EventError:
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := get("context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		if errText := get("error"); errText != "" {
			builder.WriteString(errText)
		} else {
			builder.WriteString("unknown")
		}
		return note{
			title:    "LibrAIry - Error",
			message:  builder.String(),
			tags:     []string{"librairy", "error", "alert"},
			priority: "high",
		}, true

	case EventTest:
		return note{
			title:    "LibrAIry - Test",
			message:  "🧪 Notification system test",
			tags:     []string{"librairy", "test"},
			priority: "low",
		}, true
	}
	return note{}, false
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// send delivers one note over the ntfy HTTP API. Metadata rides in headers,
// the message body is the POST payload.
func (n *ntfyService) send(ctx context.Context, data note) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	headers := map[string]string{
		"User-Agent":   userAgent,
		"Content-Type": "text/plain; charset=utf-8",
		"Title":        data.title,
		"Tags":         strings.Join(data.tags, ","),
	}
	if data.priority != "" && data.priority != "default" {
		headers["Priority"] = data.priority
	}
	for name, value := range headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
