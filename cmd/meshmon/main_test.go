package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/db"
	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/mfreeman451/meshmon/pkg/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
db_path: %DB%
network:
  auto_discovery: false
  nodes:
    - hostname: node1
      ip: 10.0.0.1
      type: router
    - ip: 10.0.0.2
monitoring:
  ssh_enabled: false
notifications:
  webhook:
    enabled: true
    url: %HOOK%
logging:
  level: error
`

// writeConfig writes a config pointing at a temp database and hookURL and
// returns its path together with the database path.
func writeConfig(t *testing.T, hookURL string) (cfgPath, dbFile string) {
	t.Helper()

	dir := t.TempDir()
	dbFile = filepath.Join(dir, "metrics.db")

	body := bytes.ReplaceAll([]byte(testConfig), []byte("%DB%"), []byte(dbFile))
	body = bytes.ReplaceAll(body, []byte("%HOOK%"), []byte(hookURL))

	cfgPath = filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, body, 0o600))

	return cfgPath, dbFile
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Cleanup(func() {
		cfgFile = config.DefaultPath
		dbPath = ""
		logLevel = ""
		logFormat = ""
		jsonOut = false
		alertsResolved = false
		alertsLimit = 50

		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestDiscoverListsStaticNodes(t *testing.T) {
	cfgPath, _ := writeConfig(t, "http://127.0.0.1:1")

	out, err := execute(t, "--config", cfgPath, "--json", "discover")
	require.NoError(t, err)

	var targets []models.Target
	require.NoError(t, json.Unmarshal([]byte(out), &targets))

	require.Len(t, targets, 2)
	assert.Equal(t, "node1", targets[0].Hostname)
	assert.Equal(t, "router", targets[0].Type)
	assert.Equal(t, "node-10-0-0-2", targets[1].Hostname)
	assert.Equal(t, models.SourceStatic, targets[1].Source)
}

func TestStatusOnEmptyStore(t *testing.T) {
	cfgPath, _ := writeConfig(t, "http://127.0.0.1:1")

	out, err := execute(t, "--config", cfgPath, "--json", "status")
	require.NoError(t, err)

	var sum models.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Zero(t, sum.TotalNodes)
	assert.Zero(t, sum.CriticalAlerts)
}

func TestAlertsAndResolve(t *testing.T) {
	cfgPath, dbFile := writeConfig(t, "http://127.0.0.1:1")

	store, err := db.New(context.Background(), dbFile, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	alert := &models.Alert{
		Timestamp: time.Now().UTC(),
		Hostname:  "node1",
		Severity:  models.SeverityCritical,
		Type:      models.AlertNodeDown,
		Message:   "Node node1 (10.0.0.1) is unreachable",
	}

	created, err := store.OpenAlert(context.Background(), alert)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, store.Close())

	out, err := execute(t, "--config", cfgPath, "--json", "alerts")
	require.NoError(t, err)

	var active []models.Alert
	require.NoError(t, json.Unmarshal([]byte(out), &active))
	require.Len(t, active, 1)
	assert.Equal(t, alert.ID, active[0].ID)

	out, err = execute(t, "--config", cfgPath, "resolve", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "alert 1 resolved")

	out, err = execute(t, "--config", cfgPath, "--json", "alerts", "--resolved")
	require.NoError(t, err)

	var resolved []models.Alert
	require.NoError(t, json.Unmarshal([]byte(out), &resolved))
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].Resolved)

	_, err = execute(t, "--config", cfgPath, "resolve", "42")
	require.ErrorIs(t, err, db.ErrAlertNotFound)
}

func TestAlertsRejectsBadLimit(t *testing.T) {
	cfgPath, _ := writeConfig(t, "http://127.0.0.1:1")

	_, err := execute(t, "--config", cfgPath, "alerts", "--limit", "0")
	require.ErrorIs(t, err, errInvalidLimit)
}

func TestTestNotifyWebhook(t *testing.T) {
	var got notifications.WebhookPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	cfgPath, _ := writeConfig(t, srv.URL)

	out, err := execute(t, "--config", cfgPath, "test-notify", "webhook")
	require.NoError(t, err)
	assert.Contains(t, out, "test notification sent via webhook")
	assert.Equal(t, "test-node", got.Hostname)
	assert.Equal(t, string(models.AlertTest), got.Type)
}

func TestTestNotifyUnknownChannel(t *testing.T) {
	cfgPath, _ := writeConfig(t, "http://127.0.0.1:1")

	_, err := execute(t, "--config", cfgPath, "test-notify", "pager")
	require.ErrorIs(t, err, notifications.ErrUnknownChannel)
}

func TestMissingConfigFails(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.yml"), "status")
	require.Error(t, err)
}

func TestParseAlertID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "7", want: 7},
		{in: "0", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			id, err := parseAlertID(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, errInvalidAlertID)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestTablesRenderMissingMetrics(t *testing.T) {
	cpu := 42.3
	up := int64(3600)

	out := nodesTable([]models.NodeOverview{
		{
			Node:    models.Node{Hostname: "node1", IP: "10.0.0.1", Type: "router", Status: models.NodeOnline},
			Metrics: &models.MetricSample{CPUPercent: &cpu, UptimeSeconds: &up},
		},
		{Node: models.Node{Hostname: "node2", IP: "10.0.0.2", Type: "router", Status: models.NodeUnreachable}},
	})

	assert.Contains(t, out, "node1")
	assert.Contains(t, out, "42.3%")
	assert.Contains(t, out, "1h0m0s")
	assert.Contains(t, out, "node2")
	assert.Contains(t, out, emptyCell)
}
