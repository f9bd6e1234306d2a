package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the session store is failing but queries still work.
	Degraded Status = "degraded"
	// Unhealthy indicates the dataset cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentDataset  = "dataset"
	ComponentSessions = "sessions"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	dataset  Pinger
	sessions Pinger
}

// New creates a Service. sessions can be nil.
func New(dataset, sessions Pinger) *Service {
	return &Service{dataset: dataset, sessions: sessions}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)

	checks[ComponentDataset] = result(s.dataset.Ping(ctx))
	if s.sessions != nil {
		checks[ComponentSessions] = result(s.sessions.Ping(ctx))
	}

	status := Healthy
	switch {
	case checks[ComponentDataset] == CheckError:
		status = Unhealthy
	case checks[ComponentSessions] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
