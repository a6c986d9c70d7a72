package store

import (
	"context"
	"errors"
	"time"

	"project-tracker/tracker/internal/model"
)

var (
	ErrNotFound = errors.New("not_found")
	ErrConflict = errors.New("conflict")

	// ErrCodeMismatch and ErrCodeExpired are distinct so tests and logs can
	// tell the two apart; the HTTP layer surfaces them identically.
	ErrCodeMismatch = errors.New("code_mismatch")
	ErrCodeExpired  = errors.New("code_expired")
)

type ProjectFilter struct {
	CategoryID string
	Limit      int
}

// UpdateCategoryRequest carries a partial update; nil fields are untouched.
type UpdateCategoryRequest struct {
	CategoryID      string
	Name            *string
	ObjectiveWeight *float64
	ScorecardYear   *int
}

// UpdateProjectRequest carries a partial update; nil fields are untouched.
// Referenced status/owner/category IDs must exist.
type UpdateProjectRequest struct {
	ProjectID               string
	Name                    *string
	Phase                   *model.ProjectPhase
	StatusID                *string
	OwnerID                 *string
	StretchTargetDate       *time.Time
	MeasureInitiativeWeight *float64
	Budget                  *float64
	Comment                 *string
}

type Store interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)

	// SetUserChallenge attaches a fresh code and expiry to the user,
	// overwriting any outstanding challenge.
	SetUserChallenge(ctx context.Context, userID, code string, expiresAt time.Time) error

	// ConsumeUserChallenge atomically compares the submitted code against the
	// user's outstanding challenge and, on success, clears it and marks the
	// user verified. At most one concurrent caller can succeed for a given
	// issued code. Failures: ErrNotFound (no such user), ErrCodeMismatch
	// (wrong code; state untouched), ErrCodeExpired (right code, too late).
	ConsumeUserChallenge(ctx context.Context, email, code string) (*model.User, error)

	// ClearVerified resets the login-cycle flag on logout.
	ClearVerified(ctx context.Context, userID string) error

	CreateSession(ctx context.Context, s model.Session) (model.Session, error)
	GetSession(ctx context.Context, token string) (*model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	CreateCategory(ctx context.Context, c model.Category) (model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, req UpdateCategoryRequest) (*model.Category, error)

	CreateStatus(ctx context.Context, st model.Status) (model.Status, error)
	GetStatus(ctx context.Context, id string) (*model.Status, error)
	ListStatuses(ctx context.Context) ([]model.Status, error)

	CreateProject(ctx context.Context, p model.Project) (model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, f ProjectFilter) ([]model.Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (*model.Project, error)
}
