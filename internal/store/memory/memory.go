package memory

import (
	"sync"

	"github.com/google/uuid"

	"project-tracker/tracker/internal/model"
)

// Store is a mutex-guarded in-memory implementation used for development and
// tests. The single mutex also serializes challenge verification, which is
// what makes ConsumeUserChallenge atomic here.
type Store struct {
	mu sync.Mutex

	users      map[string]model.User
	sessions   map[string]model.Session
	categories map[string]model.Category
	statuses   map[string]model.Status
	projects   map[string]model.Project
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]model.User),
		sessions:   make(map[string]model.Session),
		categories: make(map[string]model.Category),
		statuses:   make(map[string]model.Status),
		projects:   make(map[string]model.Project),
	}
}

func newID() string {
	return uuid.NewString()
}

type errWithCode string

func (e errWithCode) Error() string { return string(e) }
