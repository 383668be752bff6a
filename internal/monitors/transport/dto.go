package transport

// HeaderDTO is a request header sent with every check.
type HeaderDTO struct {
	Key   string `json:"key" validate:"required,max=256"`
	Value string `json:"value" validate:"max=4096"`
}

type UpdateMonitorRequest struct {
	Name        *string      `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Description *string      `json:"description,omitempty" validate:"omitempty,max=1024"`
	URL         *string      `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Method      *string      `json:"method,omitempty" validate:"omitempty,oneof=GET POST HEAD"`
	Periodicity *string      `json:"periodicity,omitempty" validate:"omitempty,oneof=30s 1m 5m 10m 30m 1h other"`
	Active      *bool        `json:"active,omitempty"`
	Regions     *[]string    `json:"regions,omitempty" validate:"omitempty,max=16,dive,region"`
	Headers     *[]HeaderDTO `json:"headers,omitempty" validate:"omitempty,max=32,dive"`
	Body        *string      `json:"body,omitempty" validate:"omitempty,max=65536"`
}

type MonitorResponse struct {
	ID             int64       `json:"id"`
	WorkspaceID    int64       `json:"workspaceId"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	URL            string      `json:"url"`
	Method         string      `json:"method"`
	Periodicity    string      `json:"periodicity"`
	Active         bool        `json:"active"`
	Regions        []string    `json:"regions"`
	Headers        []HeaderDTO `json:"headers"`
	Body           string      `json:"body"`
	LastStatusCode *int        `json:"lastStatusCode,omitempty"`
	CreatedAt      string      `json:"createdAt"`
	UpdatedAt      string      `json:"updatedAt"`
}

type WorkspaceMonitorsResponse struct {
	Monitors []MonitorResponse `json:"monitors"`
	IsLimit  bool              `json:"isLimit"`
	Plan     string            `json:"plan"`
}
