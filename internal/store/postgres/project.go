package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"project-tracker/tracker/internal/model"
	"project-tracker/tracker/internal/store"
)

const categoryColumns = `id::text, name, objective_weight, scorecard_year, created_at, updated_at`

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.ObjectiveWeight, &c.ScorecardYear, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return model.Category{}, errors.New("name_required")
	}
	if c.ScorecardYear <= 0 {
		return model.Category{}, errors.New("scorecard_year_required")
	}

	out, err := scanCategory(s.pool.QueryRow(ctx, `
		insert into public.categories (name, objective_weight, scorecard_year)
		values ($1, $2, $3)
		returning `+categoryColumns+`
	`, strings.TrimSpace(c.Name), c.ObjectiveWeight, c.ScorecardYear))
	if err != nil {
		return model.Category{}, err
	}
	return *out, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return scanCategory(s.pool.QueryRow(ctx, `
		select `+categoryColumns+`
		from public.categories
		where id = $1::uuid
	`, id))
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.pool.Query(ctx, `
		select `+categoryColumns+`
		from public.categories
		order by name asc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

func (s *Store) UpdateCategory(ctx context.Context, req store.UpdateCategoryRequest) (*model.Category, error) {
	sets := []string{"updated_at = now()"}
	args := []any{req.CategoryID}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errors.New("name_required")
		}
		args = append(args, strings.TrimSpace(*req.Name))
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if req.ObjectiveWeight != nil {
		args = append(args, *req.ObjectiveWeight)
		sets = append(sets, fmt.Sprintf("objective_weight = $%d", len(args)))
	}
	if req.ScorecardYear != nil {
		args = append(args, *req.ScorecardYear)
		sets = append(sets, fmt.Sprintf("scorecard_year = $%d", len(args)))
	}

	return scanCategory(s.pool.QueryRow(ctx, `
		update public.categories
		set `+strings.Join(sets, ", ")+`
		where id = $1::uuid
		returning `+categoryColumns+`
	`, args...))
}

const statusColumns = `id::text, name, date, coalesce(comment, ''), created_at, updated_at`

func scanStatus(row pgx.Row) (*model.Status, error) {
	var st model.Status
	err := row.Scan(&st.ID, &st.Name, &st.Date, &st.Comment, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &st, nil
}

func (s *Store) CreateStatus(ctx context.Context, st model.Status) (model.Status, error) {
	if !model.ValidStatusName(st.Name) {
		return model.Status{}, errors.New("invalid_status_name")
	}
	if st.Date.IsZero() {
		return model.Status{}, errors.New("date_required")
	}

	out, err := scanStatus(s.pool.QueryRow(ctx, `
		insert into public.statuses (name, date, comment)
		values ($1, $2, nullif($3, ''))
		returning `+statusColumns+`
	`, string(st.Name), st.Date, st.Comment))
	if err != nil {
		return model.Status{}, err
	}
	return *out, nil
}

func (s *Store) GetStatus(ctx context.Context, id string) (*model.Status, error) {
	return scanStatus(s.pool.QueryRow(ctx, `
		select `+statusColumns+`
		from public.statuses
		where id = $1::uuid
	`, id))
}

func (s *Store) ListStatuses(ctx context.Context) ([]model.Status, error) {
	rows, err := s.pool.Query(ctx, `
		select `+statusColumns+`
		from public.statuses
		order by created_at asc
	`)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.Status
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, nil
}

const projectColumns = `id::text, name, category_id::text, measure_initiative_weight, phase,
	status_id::text, stretch_target_date, owner_id::text, budget, coalesce(comment, ''), created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.CategoryID,
		&p.MeasureInitiativeWeight,
		&p.Phase,
		&p.StatusID,
		&p.StretchTargetDate,
		&p.OwnerID,
		&p.Budget,
		&p.Comment,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, mapPgErr(err)
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return model.Project{}, errors.New("name_required")
	}
	if !model.ValidProjectPhase(p.Phase) {
		return model.Project{}, errors.New("invalid_phase")
	}
	if p.StretchTargetDate.IsZero() {
		return model.Project{}, errors.New("stretch_target_date_required")
	}

	out, err := scanProject(s.pool.QueryRow(ctx, `
		insert into public.projects
			(name, category_id, measure_initiative_weight, phase, status_id, stretch_target_date, owner_id, budget, comment)
		values ($1, $2::uuid, $3, $4, $5::uuid, $6, $7::uuid, $8, nullif($9, ''))
		returning `+projectColumns+`
	`, strings.TrimSpace(p.Name), p.CategoryID, p.MeasureInitiativeWeight, string(p.Phase),
		p.StatusID, p.StretchTargetDate, p.OwnerID, p.Budget, p.Comment))
	if err != nil {
		return model.Project{}, err
	}
	return *out, nil
}

func (s *Store) GetProject(ctx context.Context, id string) (*model.Project, error) {
	return scanProject(s.pool.QueryRow(ctx, `
		select `+projectColumns+`
		from public.projects
		where id = $1::uuid
	`, id))
}

func (s *Store) ListProjects(ctx context.Context, f store.ProjectFilter) ([]model.Project, error) {
	query := `
		select ` + projectColumns + `
		from public.projects
	`
	var args []any
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += fmt.Sprintf(" where category_id = $%d::uuid", len(args))
	}
	query += " order by created_at asc"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" limit $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgErr(err)
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *Store) UpdateProject(ctx context.Context, req store.UpdateProjectRequest) (*model.Project, error) {
	sets := []string{"updated_at = now()"}
	args := []any{req.ProjectID}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, errors.New("name_required")
		}
		args = append(args, strings.TrimSpace(*req.Name))
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if req.Phase != nil {
		if !model.ValidProjectPhase(*req.Phase) {
			return nil, errors.New("invalid_phase")
		}
		args = append(args, string(*req.Phase))
		sets = append(sets, fmt.Sprintf("phase = $%d", len(args)))
	}
	if req.StatusID != nil {
		args = append(args, *req.StatusID)
		sets = append(sets, fmt.Sprintf("status_id = $%d::uuid", len(args)))
	}
	if req.OwnerID != nil {
		args = append(args, *req.OwnerID)
		sets = append(sets, fmt.Sprintf("owner_id = $%d::uuid", len(args)))
	}
	if req.StretchTargetDate != nil {
		args = append(args, *req.StretchTargetDate)
		sets = append(sets, fmt.Sprintf("stretch_target_date = $%d", len(args)))
	}
	if req.MeasureInitiativeWeight != nil {
		args = append(args, *req.MeasureInitiativeWeight)
		sets = append(sets, fmt.Sprintf("measure_initiative_weight = $%d", len(args)))
	}
	if req.Budget != nil {
		args = append(args, *req.Budget)
		sets = append(sets, fmt.Sprintf("budget = $%d", len(args)))
	}
	if req.Comment != nil {
		args = append(args, *req.Comment)
		sets = append(sets, fmt.Sprintf("comment = nullif($%d, '')", len(args)))
	}

	return scanProject(s.pool.QueryRow(ctx, `
		update public.projects
		set `+strings.Join(sets, ", ")+`
		where id = $1::uuid
		returning `+projectColumns+`
	`, args...))
}
