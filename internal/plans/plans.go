// Package plans defines the subscription plans and the limits they grant a
// workspace.
package plans

// Name identifies a plan as stored on the workspace row.
type Name string

const (
	Free Name = "free"
	Pro  Name = "pro"
	Team Name = "team"
)

// Limits caps the resources a workspace may create.
type Limits struct {
	Monitors     int      `json:"monitors"`
	StatusPages  int      `json:"statusPages"`
	Periodicity  []string `json:"periodicity"`
	CustomDomain bool     `json:"customDomain"`
}

// Plan is a named set of limits.
type Plan struct {
	Name   Name   `json:"name"`
	Title  string `json:"title"`
	Limits Limits `json:"limits"`
}

var catalog = map[Name]Plan{
	Free: {
		Name:  Free,
		Title: "Hobby",
		Limits: Limits{
			Monitors:    5,
			StatusPages: 1,
			Periodicity: []string{"10m", "30m", "1h"},
		},
	},
	Pro: {
		Name:  Pro,
		Title: "Pro",
		Limits: Limits{
			Monitors:     20,
			StatusPages:  5,
			Periodicity:  []string{"1m", "5m", "10m", "30m", "1h"},
			CustomDomain: true,
		},
	},
	Team: {
		Name:  Team,
		Title: "Team",
		Limits: Limits{
			Monitors:     50,
			StatusPages:  20,
			Periodicity:  []string{"30s", "1m", "5m", "10m", "30m", "1h"},
			CustomDomain: true,
		},
	},
}

// Get returns the plan called name. Unknown and empty names resolve to the
// free plan.
func Get(name string) Plan {
	if plan, ok := catalog[Name(name)]; ok {
		return plan
	}
	return catalog[Free]
}

// MonitorLimitReached reports whether a workspace on plan already holds as
// many monitors as the plan allows.
func MonitorLimitReached(plan string, monitorCount int) bool {
	return monitorCount >= Get(plan).Limits.Monitors
}

// AllowsPeriodicity reports whether plan may schedule checks at periodicity.
func AllowsPeriodicity(plan, periodicity string) bool {
	for _, p := range Get(plan).Limits.Periodicity {
		if p == periodicity {
			return true
		}
	}
	return false
}
