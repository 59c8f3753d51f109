package api

import "time"

// StatusResponse is the aggregate view served by /api/status.
type StatusResponse struct {
	Nodes struct {
		Total   int `json:"total"`
		Online  int `json:"online"`
		Offline int `json:"offline"`
	} `json:"nodes"`
	Alerts struct {
		Critical int `json:"critical"`
		Warning  int `json:"warning"`
	} `json:"alerts"`
}

// StatusUpdate is pushed to websocket clients every push interval.
type StatusUpdate struct {
	Type           string    `json:"type"`
	NodesOnline    int       `json:"nodes_online"`
	NodesTotal     int       `json:"nodes_total"`
	AlertsCritical int       `json:"alerts_critical"`
	AlertsWarning  int       `json:"alerts_warning"`
	Timestamp      time.Time `json:"timestamp"`
}

// ResolveResponse acknowledges a resolve request.
type ResolveResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}
