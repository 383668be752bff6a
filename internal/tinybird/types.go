package tinybird

const (
	datasourcePingResponse = "ping_response__v3"
	pipeResponseList       = "response_list__v0"
	pipeMonitorList        = "monitor_list__v0"
)

// PingResponse is one check result ingested into the ping_response datasource.
type PingResponse struct {
	WorkspaceID   string `json:"workspaceId"`
	MonitorID     string `json:"monitorId"`
	Timestamp     int64  `json:"timestamp"`
	CronTimestamp int64  `json:"cronTimestamp"`
	StatusCode    int    `json:"statusCode"`
	Latency       int64  `json:"latency"`
	URL           string `json:"url"`
	Region        string `json:"region"`
	Message       string `json:"message,omitempty"`
}

// ResponseListParams filters the raw response list pipe.
type ResponseListParams struct {
	MonitorID string
	Region    string
	Limit     int
	// Start and End are unix milliseconds; zero leaves the bound open.
	Start int64
	End   int64
}

// ResponseListItem is a single raw check result.
type ResponseListItem struct {
	MonitorID     string `json:"monitorId"`
	Timestamp     int64  `json:"timestamp"`
	CronTimestamp int64  `json:"cronTimestamp"`
	StatusCode    int    `json:"statusCode"`
	Latency       int64  `json:"latency"`
	URL           string `json:"url"`
	Region        string `json:"region"`
}

// MonitorListParams filters the aggregated monitor list pipe.
type MonitorListParams struct {
	MonitorID string
	Limit     int
}

// MonitorListItem is one aggregated bucket (a day) of check results.
type MonitorListItem struct {
	Count         int     `json:"count"`
	OK            int     `json:"ok"`
	AvgLatency    float64 `json:"avgLatency"`
	CronTimestamp int64   `json:"cronTimestamp"`
}

type pipeResponse[T any] struct {
	Data []T `json:"data"`
}
