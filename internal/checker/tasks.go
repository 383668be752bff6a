package checker

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskCheckMonitor pings one monitor from one region.
const TaskCheckMonitor = "checker.monitor"

// Header is a request header sent with a check.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CheckMonitorPayload carries everything the worker needs, so a check never
// reads the database.
type CheckMonitorPayload struct {
	MonitorID     int64    `json:"monitorId"`
	WorkspaceID   int64    `json:"workspaceId"`
	URL           string   `json:"url"`
	Method        string   `json:"method"`
	Headers       []Header `json:"headers,omitempty"`
	Body          string   `json:"body,omitempty"`
	Region        string   `json:"region"`
	CronTimestamp int64    `json:"cronTimestamp"`
}

func NewCheckMonitorTask(payload CheckMonitorPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckMonitor, data), nil
}

func ParseCheckMonitorPayload(task *asynq.Task) (CheckMonitorPayload, error) {
	var payload CheckMonitorPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CheckMonitorPayload{}, err
	}
	return payload, nil
}
