package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

func (s *Store) CreateCategory(_ context.Context, c model.Category) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(c.Name) == "" {
		return model.Category{}, errWithCode("name_required")
	}
	if c.ScorecardYear <= 0 {
		return model.Category{}, errWithCode("scorecard_year_required")
	}

	for _, existing := range s.categories {
		if strings.EqualFold(existing.Name, c.Name) && existing.ScorecardYear == c.ScorecardYear {
			return model.Category{}, store.ErrConflict
		}
	}

	now := time.Now().UTC()
	c.ID = newID()
	c.CreatedAt = now
	c.UpdatedAt = now
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCategories(_ context.Context) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) UpdateCategory(_ context.Context, req store.UpdateCategoryRequest) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.categories[req.CategoryID]
	if !ok {
		return nil, store.ErrNotFound
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errWithCode("name_required")
		}
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.ObjectiveWeight != nil {
		c.ObjectiveWeight = *req.ObjectiveWeight
	}
	if req.ScorecardYear != nil {
		c.ScorecardYear = *req.ScorecardYear
	}
	c.UpdatedAt = time.Now().UTC()
	s.categories[c.ID] = c
	return &c, nil
}

func (s *Store) CreateStatus(_ context.Context, st model.Status) (model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !model.ValidStatusName(st.Name) {
		return model.Status{}, errWithCode("invalid_status_name")
	}
	if st.Date.IsZero() {
		return model.Status{}, errWithCode("date_required")
	}

	now := time.Now().UTC()
	st.ID = newID()
	st.CreatedAt = now
	st.UpdatedAt = now
	s.statuses[st.ID] = st
	return st, nil
}

func (s *Store) GetStatus(_ context.Context, id string) (*model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.statuses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &st, nil
}

func (s *Store) ListStatuses(_ context.Context) ([]model.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Status, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) CreateProject(_ context.Context, p model.Project) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(p.Name) == "" {
		return model.Project{}, errWithCode("name_required")
	}
	if !model.ValidProjectPhase(p.Phase) {
		return model.Project{}, errWithCode("invalid_phase")
	}
	if p.StretchTargetDate.IsZero() {
		return model.Project{}, errWithCode("stretch_target_date_required")
	}
	if _, ok := s.categories[p.CategoryID]; !ok {
		return model.Project{}, store.ErrNotFound
	}
	if _, ok := s.statuses[p.StatusID]; !ok {
		return model.Project{}, store.ErrNotFound
	}
	if _, ok := s.users[p.OwnerID]; !ok {
		return model.Project{}, store.ErrNotFound
	}

	now := time.Now().UTC()
	p.ID = newID()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.projects[p.ID] = p
	return p, nil
}

func (s *Store) GetProject(_ context.Context, id string) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProjects(_ context.Context, f store.ProjectFilter) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, req store.UpdateProjectRequest) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[req.ProjectID]
	if !ok {
		return nil, store.ErrNotFound
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errWithCode("name_required")
		}
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phase != nil {
		if !model.ValidProjectPhase(*req.Phase) {
			return nil, errWithCode("invalid_phase")
		}
		p.Phase = *req.Phase
	}
	if req.StatusID != nil {
		if _, ok := s.statuses[*req.StatusID]; !ok {
			return nil, store.ErrNotFound
		}
		p.StatusID = *req.StatusID
	}
	if req.OwnerID != nil {
		if _, ok := s.users[*req.OwnerID]; !ok {
			return nil, store.ErrNotFound
		}
		p.OwnerID = *req.OwnerID
	}
	if req.StretchTargetDate != nil {
		p.StretchTargetDate = *req.StretchTargetDate
	}
	if req.MeasureInitiativeWeight != nil {
		p.MeasureInitiativeWeight = *req.MeasureInitiativeWeight
	}
	if req.Budget != nil {
		b := *req.Budget
		p.Budget = &b
	}
	if req.Comment != nil {
		p.Comment = *req.Comment
	}

	p.UpdatedAt = time.Now().UTC()
	s.projects[p.ID] = p
	return &p, nil
}
