package dispatch

import (
	"net/http"

	"statuspage_backend/platform/httpkit"
)

// OutcomeKind tags the decision of a pipeline stage.
type OutcomeKind int

const (
	// OutcomeContinue passes the request to the next stage.
	OutcomeContinue OutcomeKind = iota
	// OutcomeRewrite serves the request under a different internal path.
	OutcomeRewrite
	// OutcomeRedirect sends the client to another URL.
	OutcomeRedirect
	// OutcomeError fails the request with a generic server error.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRewrite:
		return "rewrite"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeError:
		return "error"
	default:
		return "continue"
	}
}

// Outcome is the result of a stage. Target holds the rewritten path or the
// redirect location.
type Outcome struct {
	Kind   OutcomeKind
	Target string
	Err    error
}

// Continue lets the next stage run.
func Continue() Outcome { return Outcome{Kind: OutcomeContinue} }

// Rewrite serves the request at path.
func Rewrite(path string) Outcome { return Outcome{Kind: OutcomeRewrite, Target: path} }

// Redirect sends a 302 to location.
func Redirect(location string) Outcome { return Outcome{Kind: OutcomeRedirect, Target: location} }

// Fail aborts the request with err.
func Fail(err error) Outcome { return Outcome{Kind: OutcomeError, Err: err} }

// Request is the per-request state shared by the pipeline stages.
type Request struct {
	HTTP    *http.Request
	Path    string
	Session httpkit.Session
	Tenant  string
	Class   RouteClass
	// Passthrough is set for internal API paths that skip tenant handling.
	Passthrough bool
}
