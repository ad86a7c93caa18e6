package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

// ProductRepo encapsulates the products table.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = `id, title, subtitle, description, features, applications, category, image_url,
	tds_file, sds_file, display_order, is_active, created_at, updated_at`

// List returns products by display order, optionally restricted to one
// category (empty means all).
func (r *ProductRepo) List(ctx context.Context, category string) ([]*model.Product, error) {
	q := "SELECT " + productColumns + " FROM products"
	var args []any
	if category != "" {
		q += " WHERE category = ?"
		args = append(args, category)
	}
	q += " ORDER BY display_order ASC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches a product or returns ErrNotFound.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = ?", id))
}

// Create inserts p and refreshes it from the stored row.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (title, subtitle, description, features, applications, category, image_url,
			tds_file, sds_file, display_order, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Title, p.Subtitle, p.Description, p.Features, p.Applications, p.Category, p.ImageURL,
		p.TDSFile, p.SDSFile, p.DisplayOrder, p.IsActive)
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
	*p = *stored
	return nil
}

// Update applies the set fields of patch to product id.
func (r *ProductRepo) Update(ctx context.Context, id uint64, patch model.ProductPatch) (*model.Product, error) {
	var a assignments
	set(&a, "title", patch.Title)
	set(&a, "subtitle", patch.Subtitle)
	set(&a, "description", patch.Description)
	set(&a, "features", patch.Features)
	set(&a, "applications", patch.Applications)
	set(&a, "category", patch.Category)
	set(&a, "image_url", patch.ImageURL)
	set(&a, "tds_file", patch.TDSFile)
	set(&a, "sds_file", patch.SDSFile)
	set(&a, "display_order", patch.DisplayOrder)
	set(&a, "is_active", patch.IsActive)

	res, err := r.db.ExecContext(ctx, "UPDATE products SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		return nil, err
	}
	if err := affectedOrNotFound(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the product permanently.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanProduct(s scanner) (*model.Product, error) {
	var p model.Product
	err := s.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Description, &p.Features, &p.Applications, &p.Category,
		&p.ImageURL, &p.TDSFile, &p.SDSFile, &p.DisplayOrder, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
