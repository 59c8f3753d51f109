package notifications

import (
	"strings"
	"time"

	"github.com/mfreeman451/meshmon/pkg/models"
)

const (
	productName  = "Mesh Network Monitor"
	userAgent    = "meshmon-notifications/1.0"
	timeLayout   = time.RFC3339
	unknownValue = "unknown"
)

// message holds the fields every channel renders.
type message struct {
	Timestamp    string
	Hostname     string
	Severity     string
	SeverityUp   string
	Type         string
	Subject      string
	Text         string
	DashboardURL string
}

func newMessage(a *models.Alert, dashboardURL string) message {
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return message{
		Timestamp:    ts.UTC().Format(timeLayout),
		Hostname:     orUnknown(a.Hostname),
		Severity:     orUnknown(string(a.Severity)),
		SeverityUp:   strings.ToUpper(orUnknown(string(a.Severity))),
		Type:         orUnknown(string(a.Type)),
		Subject:      a.Subject,
		Text:         a.Message,
		DashboardURL: dashboardURL,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return unknownValue
	}

	return s
}

// TestAlert is the synthetic alert sent by test-notify.
func TestAlert(now time.Time) *models.Alert {
	return &models.Alert{
		Timestamp: now.UTC(),
		Hostname:  "test-node",
		Severity:  models.SeverityInfo,
		Type:      models.AlertTest,
		Message:   "This is a test notification from " + productName,
	}
}
