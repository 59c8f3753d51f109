package alerts

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr(v float64) *float64 { return &v }

func online(mut func(*models.Snapshot)) *models.Snapshot {
	s := &models.Snapshot{Hostname: "core-1", IP: "10.0.1.1", Status: models.NodeOnline, Timestamp: ts}
	if mut != nil {
		mut(s)
	}

	return s
}

type brief struct {
	Severity models.Severity
	Type     models.AlertType
	Subject  string
}

func briefs(alerts []models.Alert) []brief {
	out := []brief{}
	for _, a := range alerts {
		out = append(out, brief{a.Severity, a.Type, a.Subject})
	}

	return out
}

func TestEvaluate(t *testing.T) {
	th := config.DefaultThresholds()

	tests := []struct {
		name string
		snap *models.Snapshot
		want []brief
	}{
		{
			name: "cpu critical",
			snap: online(func(s *models.Snapshot) { s.CPUPercent = ptr(95) }),
			want: []brief{{models.SeverityCritical, models.AlertHighCPU, ""}},
		},
		{
			name: "cpu warning",
			snap: online(func(s *models.Snapshot) { s.CPUPercent = ptr(75) }),
			want: []brief{{models.SeverityWarning, models.AlertHighCPU, ""}},
		},
		{
			name: "thresholds are inclusive",
			snap: online(func(s *models.Snapshot) { s.CPUPercent = ptr(90); s.DiskPercent = ptr(80) }),
			want: []brief{
				{models.SeverityCritical, models.AlertHighCPU, ""},
				{models.SeverityWarning, models.AlertHighDisk, ""},
			},
		},
		{
			name: "below warning",
			snap: online(func(s *models.Snapshot) { s.CPUPercent = ptr(69.9); s.MemoryPercent = ptr(0) }),
			want: []brief{},
		},
		{
			name: "missing fields never alert",
			snap: online(nil),
			want: []brief{},
		},
		{
			name: "unreachable is node_down only",
			snap: &models.Snapshot{
				Hostname: "core-1", Status: models.NodeUnreachable, Timestamp: ts,
				CPUPercent: ptr(99), // ignored
			},
			want: []brief{{models.SeverityCritical, models.AlertNodeDown, ""}},
		},
		{
			name: "one service_down per unhealthy service, after metrics",
			snap: online(func(s *models.Snapshot) {
				s.MemoryPercent = ptr(96)
				s.Services = []models.ServiceState{
					{ServiceName: "frr", Status: "active"},
					{ServiceName: "etcd", Status: "failed"},
					{ServiceName: "coredns", Status: "inactive"},
				}
			}),
			want: []brief{
				{models.SeverityCritical, models.AlertHighMemory, ""},
				{models.SeverityCritical, models.AlertServiceDown, "etcd"},
				{models.SeverityCritical, models.AlertServiceDown, "coredns"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, briefs(Evaluate(tt.snap, th)))
		})
	}
}

func TestEvaluate_Messages(t *testing.T) {
	got := Evaluate(online(func(s *models.Snapshot) {
		s.CPUPercent = ptr(95)
		s.Services = []models.ServiceState{{ServiceName: "etcd", Status: "failed"}}
	}), config.DefaultThresholds())

	require.Len(t, got, 2)
	assert.Equal(t, "CPU usage on core-1 is 95.0% (critical)", got[0].Message)
	assert.Equal(t, "Service etcd on core-1 is failed", got[1].Message)
	assert.Equal(t, ts, got[0].Timestamp)
	assert.Equal(t, "core-1", got[1].Hostname)
	assert.Zero(t, got[0].ID)

	down := Evaluate(&models.Snapshot{Hostname: "edge-2", Status: models.NodeUnreachable}, config.DefaultThresholds())
	require.Len(t, down, 1)
	assert.Equal(t, "Node edge-2 is unreachable", down[0].Message)
}

func TestEvaluateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	th := config.DefaultThresholds()

	perType := func(alerts []models.Alert) map[models.AlertType][]models.Severity {
		m := map[models.AlertType][]models.Severity{}
		for _, a := range alerts {
			m[a.Type] = append(m[a.Type], a.Severity)
		}

		return m
	}

	properties.Property("at most one alert per metric and critical dominates", prop.ForAll(
		func(cpu, mem, disk float64) bool {
			got := perType(Evaluate(online(func(s *models.Snapshot) {
				s.CPUPercent, s.MemoryPercent, s.DiskPercent = &cpu, &mem, &disk
			}), th))

			check := func(typ models.AlertType, v, warning, critical float64) bool {
				sev := got[typ]

				switch {
				case v >= critical:
					return len(sev) == 1 && sev[0] == models.SeverityCritical
				case v >= warning:
					return len(sev) == 1 && sev[0] == models.SeverityWarning
				default:
					return len(sev) == 0
				}
			}

			return check(models.AlertHighCPU, cpu, th.CPUWarning, th.CPUCritical) &&
				check(models.AlertHighMemory, mem, th.MemoryWarning, th.MemoryCritical) &&
				check(models.AlertHighDisk, disk, th.DiskWarning, th.DiskCritical)
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.Property("unreachable yields exactly one critical node_down", prop.ForAll(
		func(cpu float64, svcDown bool) bool {
			s := &models.Snapshot{Hostname: "n", Status: models.NodeUnreachable, CPUPercent: &cpu}
			if svcDown {
				s.Services = []models.ServiceState{{ServiceName: "frr", Status: "failed"}}
			}

			got := Evaluate(s, th)

			return len(got) == 1 && got[0].Type == models.AlertNodeDown && got[0].Severity == models.SeverityCritical
		},
		gen.Float64Range(0, 100),
		gen.Bool(),
	))

	properties.Property("service_down count equals unhealthy service count", prop.ForAll(
		func(states []bool) bool {
			s := online(nil)
			unhealthy := 0

			for i, ok := range states {
				status := HealthyServiceState
				if !ok {
					status = "failed"
					unhealthy++
				}

				s.Services = append(s.Services, models.ServiceState{ServiceName: string(rune('a' + i%26)), Status: status})
			}

			got := perType(Evaluate(s, th))[models.AlertServiceDown]

			return len(got) == unhealthy
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
