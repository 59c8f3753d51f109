package discovery

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDiscover(t *testing.T) {
	static := []config.NodeConfig{
		{Hostname: "core-1", IP: "10.0.1.1", Type: "router"},
		{IP: "10.0.1.9"},
	}

	t.Run("static wins over neighbor with same address", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := NewMockNeighborQuery(ctrl)

		q.EXPECT().Neighbors(gomock.Any()).Return([]models.Neighbor{
			{NeighborID: "1.1.1.1", Address: "10.0.1.1", State: "Full/DR"},
			{NeighborID: "2.2.2.2", Address: "10.0.1.5", State: "Full/DR"},
			{NeighborID: "3.3.3.3", Address: "", State: "Init"},
		}, nil)

		got := New(static, q, slog.Default()).Discover(context.Background())

		assert.Equal(t, []models.Target{
			{Hostname: "core-1", IP: "10.0.1.1", Type: "router", Source: models.SourceStatic},
			{Hostname: "node-10-0-1-9", IP: "10.0.1.9", Type: "unknown", Source: models.SourceStatic},
			{Hostname: "node-10-0-1-5", IP: "10.0.1.5", Type: "unknown", Source: models.SourceOSPF},
		}, got)
	})

	t.Run("query failure degrades to static list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := NewMockNeighborQuery(ctrl)

		q.EXPECT().Neighbors(gomock.Any()).Return(nil, fmt.Errorf("%w: vtysh missing", ErrQueryFailed))

		var logs bytes.Buffer

		logger := slog.New(slog.NewTextHandler(&logs, nil))

		got := New(static, q, logger).Discover(context.Background())

		require.Len(t, got, 2)
		assert.Contains(t, logs.String(), "level=WARN")
		assert.Contains(t, logs.String(), "vtysh missing")
	})

	t.Run("neighbor clashing with a static hostname is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := NewMockNeighborQuery(ctrl)

		clash := []config.NodeConfig{{Hostname: "node-10-0-1-5", IP: "10.0.1.1"}}

		q.EXPECT().Neighbors(gomock.Any()).Return([]models.Neighbor{
			{NeighborID: "2.2.2.2", Address: "10.0.1.5", State: "Full/DR"},
		}, nil)

		var logs bytes.Buffer

		got := New(clash, q, slog.New(slog.NewTextHandler(&logs, nil))).Discover(context.Background())

		assert.Equal(t, []models.Target{
			{Hostname: "node-10-0-1-5", IP: "10.0.1.1", Type: "unknown", Source: models.SourceStatic},
		}, got)
		assert.Contains(t, logs.String(), "hostname is already taken")
		assert.Contains(t, logs.String(), "ip=10.0.1.5")
	})

	t.Run("duplicate static hostnames keep the first", func(t *testing.T) {
		dup := []config.NodeConfig{
			{Hostname: "core-1", IP: "10.0.1.1"},
			{Hostname: "core-1", IP: "10.0.1.2"},
		}

		got := New(dup, nil, slog.Default()).Discover(context.Background())

		require.Len(t, got, 1)
		assert.Equal(t, "10.0.1.1", got[0].IP)
	})

	t.Run("disabled discovery", func(t *testing.T) {
		got := New(static, nil, slog.Default()).Discover(context.Background())
		assert.Len(t, got, 2)
	})
}

func TestSyntheticHostname(t *testing.T) {
	assert.Equal(t, "node-10-0-1-5", SyntheticHostname("10.0.1.5"))
	assert.Equal(t, "node-fd00--1", SyntheticHostname("fd00:0::1"))
	assert.NotEqual(t, SyntheticHostname("10.0.1.5"), SyntheticHostname("10.0.2.5"))
}

func genIP() gopter.Gen {
	return gen.SliceOfN(4, gen.UInt8Range(0, 3)).Map(func(b []uint8) string {
		return fmt.Sprintf("10.%d.%d.%d", b[1], b[2], b[3])
	})
}

func TestMergeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	toInput := func(staticIPs, neighborIPs []string) ([]models.Target, []models.Neighbor) {
		static := make([]models.Target, len(staticIPs))
		for i, ip := range staticIPs {
			static[i] = models.Target{Hostname: fmt.Sprintf("static-%d", i), IP: ip, Source: models.SourceStatic}
		}

		neighbors := make([]models.Neighbor, len(neighborIPs))
		for i, ip := range neighborIPs {
			neighbors[i] = models.Neighbor{NeighborID: ip, Address: ip, State: "Full"}
		}

		return static, neighbors
	}

	properties.Property("no two targets share an address", prop.ForAll(
		func(staticIPs, neighborIPs []string) bool {
			got := Merge(toInput(staticIPs, neighborIPs))

			seen := map[string]bool{}
			for _, tg := range got {
				if seen[tg.IP] {
					return false
				}

				seen[tg.IP] = true
			}

			return true
		},
		gen.SliceOf(genIP()),
		gen.SliceOf(genIP()),
	))

	properties.Property("no two targets share a hostname", prop.ForAll(
		func(staticIPs, nameIPs, neighborIPs []string) bool {
			static := make([]models.Target, len(staticIPs))
			for i, ip := range staticIPs {
				// names borrowed from other addresses collide with synthetic ones
				name := fmt.Sprintf("static-%d", i)
				if i < len(nameIPs) {
					name = SyntheticHostname(nameIPs[i])
				}

				static[i] = models.Target{Hostname: name, IP: ip, Source: models.SourceStatic}
			}

			neighbors := make([]models.Neighbor, len(neighborIPs))
			for i, ip := range neighborIPs {
				neighbors[i] = models.Neighbor{NeighborID: ip, Address: ip, State: "Full"}
			}

			seen := map[string]bool{}
			for _, tg := range Merge(static, neighbors) {
				if seen[tg.Hostname] {
					return false
				}

				seen[tg.Hostname] = true
			}

			return true
		},
		gen.SliceOf(genIP()),
		gen.SliceOf(genIP()),
		gen.SliceOf(genIP()),
	))

	properties.Property("a static entry always wins its address", prop.ForAll(
		func(staticIPs, neighborIPs []string) bool {
			static, neighbors := toInput(staticIPs, neighborIPs)
			got := Merge(static, neighbors)

			byIP := map[string]models.Target{}
			for _, tg := range got {
				byIP[tg.IP] = tg
			}

			for _, s := range static {
				if byIP[s.IP].Source != models.SourceStatic {
					return false
				}
			}

			return true
		},
		gen.SliceOf(genIP()),
		gen.SliceOf(genIP()),
	))

	properties.Property("every address is covered", prop.ForAll(
		func(staticIPs, neighborIPs []string) bool {
			got := Merge(toInput(staticIPs, neighborIPs))

			have := map[string]bool{}
			for _, tg := range got {
				have[tg.IP] = true
			}

			for _, ip := range append(append([]string{}, staticIPs...), neighborIPs...) {
				if !have[ip] {
					return false
				}
			}

			return true
		},
		gen.SliceOf(genIP()),
		gen.SliceOf(genIP()),
	))

	properties.TestingRun(t)
}
