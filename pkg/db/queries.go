package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mfreeman451/meshmon/pkg/models"
)

const fullAdjacencyPrefix = "Full"

func scanNode(row scanner) (models.Node, error) {
	var (
		n        models.Node
		status   string
		lastSeen sql.NullTime
	)

	if err := row.Scan(&n.Hostname, &n.IP, &n.Type, &status, &lastSeen); err != nil {
		return n, err
	}

	n.Status = models.NodeStatus(status)

	if lastSeen.Valid {
		n.LastSeen = lastSeen.Time
	}

	return n, nil
}

// GetNodes returns every node with its most recent metric sample.
func (db *DB) GetNodes(ctx context.Context) ([]models.NodeOverview, error) {
	const query = `
		SELECT n.hostname, COALESCE(n.ip, ''), COALESCE(n.type, 'unknown'), COALESCE(n.status, 'unknown'), n.last_seen,
			m.timestamp, m.cpu_percent, m.memory_percent, m.disk_percent, m.uptime_seconds
		FROM nodes n
		LEFT JOIN metrics m ON m.id = (
			SELECT MAX(id) FROM metrics WHERE hostname = n.hostname
		)
		ORDER BY n.hostname
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w nodes: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	nodes := []models.NodeOverview{}

	for rows.Next() {
		var (
			o        models.NodeOverview
			status   string
			lastSeen sql.NullTime
			mTime    sql.NullTime
			cpu      sql.NullFloat64
			mem      sql.NullFloat64
			disk     sql.NullFloat64
			uptime   sql.NullInt64
		)

		if err := rows.Scan(&o.Hostname, &o.IP, &o.Type, &status, &lastSeen,
			&mTime, &cpu, &mem, &disk, &uptime); err != nil {
			return nil, fmt.Errorf("%w node row: %w", ErrFailedToScan, err)
		}

		o.Status = models.NodeStatus(status)

		if lastSeen.Valid {
			o.LastSeen = lastSeen.Time
		}

		if mTime.Valid {
			o.Metrics = &models.MetricSample{
				Timestamp:     mTime.Time,
				CPUPercent:    floatPtr(cpu),
				MemoryPercent: floatPtr(mem),
				DiskPercent:   floatPtr(disk),
				UptimeSeconds: intPtr(uptime),
			}
		}

		nodes = append(nodes, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w nodes: %w", ErrFailedToQuery, err)
	}

	return nodes, nil
}

func (db *DB) getNode(ctx context.Context, hostname string) (*models.Node, error) {
	row := db.QueryRowContext(ctx, `
		SELECT hostname, COALESCE(ip, ''), COALESCE(type, 'unknown'), COALESCE(status, 'unknown'), last_seen
		FROM nodes WHERE hostname = ?
	`, hostname)

	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, hostname)
	}

	if err != nil {
		return nil, fmt.Errorf("%w node %s: %w", ErrFailedToQuery, hostname, err)
	}

	return &n, nil
}

// GetNodeDetail returns the node, its metric history since the given time,
// the latest state of each service and the latest neighbor table.
func (db *DB) GetNodeDetail(ctx context.Context, hostname string, since time.Time) (*models.NodeDetail, error) {
	node, err := db.getNode(ctx, hostname)
	if err != nil {
		return nil, err
	}

	metrics, err := db.GetMetricHistory(ctx, hostname, since)
	if err != nil {
		return nil, err
	}

	services, err := db.latestServices(ctx, hostname)
	if err != nil {
		return nil, err
	}

	neighbors, err := db.latestNeighbors(ctx, hostname)
	if err != nil {
		return nil, err
	}

	return &models.NodeDetail{
		Node:      *node,
		Metrics:   metrics,
		Services:  services,
		Neighbors: neighbors,
	}, nil
}

// GetMetricHistory returns samples newer than since, oldest first.
func (db *DB) GetMetricHistory(ctx context.Context, hostname string, since time.Time) ([]models.MetricSample, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT timestamp, cpu_percent, memory_percent, disk_percent, uptime_seconds
		FROM metrics
		WHERE hostname = ? AND timestamp >= ?
		ORDER BY timestamp ASC, id ASC
	`, hostname, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("%w metric history: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	samples := []models.MetricSample{}

	for rows.Next() {
		var (
			s      models.MetricSample
			cpu    sql.NullFloat64
			mem    sql.NullFloat64
			disk   sql.NullFloat64
			uptime sql.NullInt64
		)

		if err := rows.Scan(&s.Timestamp, &cpu, &mem, &disk, &uptime); err != nil {
			return nil, fmt.Errorf("%w metric row: %w", ErrFailedToScan, err)
		}

		s.CPUPercent = floatPtr(cpu)
		s.MemoryPercent = floatPtr(mem)
		s.DiskPercent = floatPtr(disk)
		s.UptimeSeconds = intPtr(uptime)

		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w metric history: %w", ErrFailedToQuery, err)
	}

	return samples, nil
}

func (db *DB) latestServices(ctx context.Context, hostname string) ([]models.ServiceState, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT hostname, timestamp, service_name, status
		FROM services
		WHERE id IN (
			SELECT MAX(id) FROM services WHERE hostname = ? GROUP BY service_name
		)
		ORDER BY service_name
	`, hostname)
	if err != nil {
		return nil, fmt.Errorf("%w services: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	services := []models.ServiceState{}

	for rows.Next() {
		var s models.ServiceState
		if err := rows.Scan(&s.Hostname, &s.Timestamp, &s.ServiceName, &s.Status); err != nil {
			return nil, fmt.Errorf("%w service row: %w", ErrFailedToScan, err)
		}

		services = append(services, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w services: %w", ErrFailedToQuery, err)
	}

	return services, nil
}

// latestNeighborsAt is the timestamp of a node's latest neighbor table. It
// names a sample with no rows when the table was last read empty. Nodes
// written before neighbors_at existed use their newest neighbor rows.
const latestNeighborsAt = `COALESCE(
	(SELECT neighbors_at FROM nodes WHERE hostname = nb.hostname),
	(SELECT timestamp FROM neighbors WHERE hostname = nb.hostname ORDER BY id DESC LIMIT 1)
)`

// latestNeighbors returns the rows of the node's latest neighbor table.
func (db *DB) latestNeighbors(ctx context.Context, hostname string) ([]models.NeighborState, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT nb.hostname, nb.timestamp, nb.neighbor_id, nb.neighbor_ip, nb.state
		FROM neighbors nb
		WHERE nb.hostname = ? AND nb.timestamp = `+latestNeighborsAt+`
		ORDER BY nb.id
	`, hostname)
	if err != nil {
		return nil, fmt.Errorf("%w neighbors: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	neighbors := []models.NeighborState{}

	for rows.Next() {
		var n models.NeighborState
		if err := rows.Scan(&n.Hostname, &n.Timestamp, &n.NeighborID, &n.NeighborIP, &n.State); err != nil {
			return nil, fmt.Errorf("%w neighbor row: %w", ErrFailedToScan, err)
		}

		neighbors = append(neighbors, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w neighbors: %w", ErrFailedToQuery, err)
	}

	return neighbors, nil
}

// GetSummary counts nodes by liveness and unresolved alerts by severity.
func (db *DB) GetSummary(ctx context.Context) (*models.Summary, error) {
	s := &models.Summary{Timestamp: db.now().UTC()}

	err := db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM nodes),
			(SELECT COUNT(*) FROM nodes WHERE status = 'online'),
			(SELECT COUNT(*) FROM alerts WHERE resolved = 0 AND severity = 'critical'),
			(SELECT COUNT(*) FROM alerts WHERE resolved = 0 AND severity = 'warning')
	`).Scan(&s.TotalNodes, &s.OnlineNodes, &s.CriticalAlerts, &s.WarningAlerts)
	if err != nil {
		return nil, fmt.Errorf("%w summary: %w", ErrFailedToQuery, err)
	}

	s.OfflineNodes = s.TotalNodes - s.OnlineNodes

	return s, nil
}

// GetTopology returns all nodes and the full adjacencies between known nodes,
// taken from each node's latest neighbor table. Edges are undirected and
// reported once.
func (db *DB) GetTopology(ctx context.Context) (*models.Topology, error) {
	overviews, err := db.GetNodes(ctx)
	if err != nil {
		return nil, err
	}

	topo := &models.Topology{
		Nodes: make([]models.Node, 0, len(overviews)),
		Edges: []models.Edge{},
	}

	byIP := make(map[string]string, len(overviews))

	for _, o := range overviews {
		topo.Nodes = append(topo.Nodes, o.Node)
		byIP[o.IP] = o.Hostname
	}

	rows, err := db.QueryContext(ctx, `
		SELECT nb.hostname, nb.neighbor_ip, nb.state
		FROM neighbors nb
		WHERE nb.timestamp = `+latestNeighborsAt+`
	`)
	if err != nil {
		return nil, fmt.Errorf("%w topology: %w", ErrFailedToQuery, err)
	}
	defer db.closeRows(rows)

	seen := make(map[models.Edge]struct{})

	for rows.Next() {
		var source, neighborIP, state string
		if err := rows.Scan(&source, &neighborIP, &state); err != nil {
			return nil, fmt.Errorf("%w topology row: %w", ErrFailedToScan, err)
		}

		target, ok := byIP[neighborIP]
		if !ok || target == source || !strings.HasPrefix(state, fullAdjacencyPrefix) {
			continue
		}

		edge := models.Edge{Source: source, Target: target}
		if edge.Target < edge.Source {
			edge.Source, edge.Target = edge.Target, edge.Source
		}

		if _, dup := seen[edge]; dup {
			continue
		}

		seen[edge] = struct{}{}

		topo.Edges = append(topo.Edges, edge)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w topology: %w", ErrFailedToQuery, err)
	}

	sort.Slice(topo.Edges, func(i, j int) bool {
		if topo.Edges[i].Source != topo.Edges[j].Source {
			return topo.Edges[i].Source < topo.Edges[j].Source
		}

		return topo.Edges[i].Target < topo.Edges[j].Target
	})

	return topo, nil
}
