package domain

import "time"

// Status enumerates review workflow milestones.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusResolved  Status = "resolved"
	StatusIgnored   Status = "ignored"
)

// StatusChange is the persisted effect of a workflow transition.
type StatusChange struct {
	Status       Status
	ResolvedAt   *time.Time
	ResolvedByID *int64
}

// StatusCounts tallies articles per workflow status.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Reviewing int `json:"reviewing"`
	Resolved  int `json:"resolved"`
}

// DashboardStats summarises open risk for the review dashboard.
type DashboardStats struct {
	RiskLevels       RiskCounts   `json:"risk_levels"`
	Status           StatusCounts `json:"status"`
	RecentCritical7d int          `json:"recent_critical_7d"`
}
