package model

import "time"

// StatusName is the reporting state a Status row carries on the scorecard.
type StatusName string

const (
	StatusPlanned   StatusName = "Planned"
	StatusOnTrack   StatusName = "On Track"
	StatusCompleted StatusName = "Completed"
	StatusAtRisk    StatusName = "At Risk"
	StatusDelayed   StatusName = "Delayed"
)

// ValidStatusName reports whether n is one of the scorecard states.
func ValidStatusName(n StatusName) bool {
	switch n {
	case StatusPlanned, StatusOnTrack, StatusCompleted, StatusAtRisk, StatusDelayed:
		return true
	}
	return false
}

// ProjectPhase is the delivery phase a project is currently in.
type ProjectPhase string

const (
	PhaseContracting ProjectPhase = "Contracting"
	PhaseRequirement ProjectPhase = "Requirement"
	PhaseApproval    ProjectPhase = "Approval"
	PhaseDesign      ProjectPhase = "Design"
	PhaseDevelopment ProjectPhase = "Development"
	PhaseTesting     ProjectPhase = "Testing"
	PhaseDeployment  ProjectPhase = "Deployment"
	PhaseLive        ProjectPhase = "Live"
)

// ValidProjectPhase reports whether p is a known delivery phase.
func ValidProjectPhase(p ProjectPhase) bool {
	switch p {
	case PhaseContracting, PhaseRequirement, PhaseApproval, PhaseDesign,
		PhaseDevelopment, PhaseTesting, PhaseDeployment, PhaseLive:
		return true
	}
	return false
}

type Category struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ObjectiveWeight float64   `json:"objective_weight"`
	ScorecardYear   int       `json:"scorecard_year"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Status struct {
	ID        string     `json:"id"`
	Name      StatusName `json:"name"`
	Date      time.Time  `json:"date"`
	Comment   string     `json:"comment,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Project struct {
	ID                      string       `json:"id"`
	Name                    string       `json:"name"`
	CategoryID              string       `json:"category_id"`
	MeasureInitiativeWeight float64      `json:"measure_initiative_weight"`
	Phase                   ProjectPhase `json:"phase"`
	StatusID                string       `json:"status_id"`
	StretchTargetDate       time.Time    `json:"stretch_target_date"`
	OwnerID                 string       `json:"owner_id"`
	Budget                  *float64     `json:"budget,omitempty"`
	Comment                 string       `json:"comment,omitempty"`
	CreatedAt               time.Time    `json:"created_at"`
	UpdatedAt               time.Time    `json:"updated_at"`
}
