package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

// CareerRepo encapsulates the careers table.
type CareerRepo struct {
	db *sql.DB
}

func NewCareerRepo(db *sql.DB) *CareerRepo {
	return &CareerRepo{db: db}
}

const careerColumns = `id, title, department, location, type, salary, level, category, description,
	responsibilities, requirements, qualifications, questions, date_posted, is_active, created_at, updated_at`

// List returns postings, most recently posted first. A non-nil active
// restricts the result to postings with that is_active value.
func (r *CareerRepo) List(ctx context.Context, active *bool) ([]*model.Career, error) {
	q := "SELECT " + careerColumns + " FROM careers"
	var args []any
	if active != nil {
		q += " WHERE is_active = ?"
		args = append(args, *active)
	}
	q += " ORDER BY date_posted DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Career{}
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a posting or returns ErrNotFound.
func (r *CareerRepo) GetByID(ctx context.Context, id uint64) (*model.Career, error) {
	return scanCareer(r.db.QueryRowContext(ctx, "SELECT "+careerColumns+" FROM careers WHERE id = ?", id))
}

// Create inserts c and refreshes it from the stored row.
func (r *CareerRepo) Create(ctx context.Context, c *model.Career) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO careers (title, department, location, type, salary, level, category, description,
			responsibilities, requirements, qualifications, questions, date_posted, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Title, c.Department, c.Location, c.Type, c.Salary, c.Level, c.Category, c.Description,
		c.Responsibilities, c.Requirements, c.Qualifications, c.Questions, c.DatePosted, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// Update applies the set fields of p to posting id.
func (r *CareerRepo) Update(ctx context.Context, id uint64, p model.CareerPatch) (*model.Career, error) {
	var a assignments
	set(&a, "title", p.Title)
	set(&a, "department", p.Department)
	set(&a, "location", p.Location)
	set(&a, "type", p.Type)
	set(&a, "salary", p.Salary)
	set(&a, "level", p.Level)
	set(&a, "category", p.Category)
	set(&a, "description", p.Description)
	set(&a, "responsibilities", p.Responsibilities)
	set(&a, "requirements", p.Requirements)
	set(&a, "qualifications", p.Qualifications)
	set(&a, "questions", p.Questions)
	set(&a, "date_posted", p.DatePosted)
	set(&a, "is_active", p.IsActive)

	res, err := r.db.ExecContext(ctx, "UPDATE careers SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		return nil, err
	}
	if err := affectedOrNotFound(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the posting permanently.
func (r *CareerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM careers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanCareer(s scanner) (*model.Career, error) {
	var c model.Career
	err := s.Scan(&c.ID, &c.Title, &c.Department, &c.Location, &c.Type, &c.Salary, &c.Level, &c.Category,
		&c.Description, &c.Responsibilities, &c.Requirements, &c.Qualifications, &c.Questions,
		&c.DatePosted, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
