package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

// GalleryRepo encapsulates the gallery_images table. Unlike certificates,
// gallery images are deleted outright; is_active only hides a slide.
type GalleryRepo struct {
	db *sql.DB
}

func NewGalleryRepo(db *sql.DB) *GalleryRepo {
	return &GalleryRepo{db: db}
}

const galleryColumns = "id, title, description, image_url, display_order, is_active, created_at, updated_at"

// List returns visible images by display order.
func (r *GalleryRepo) List(ctx context.Context) ([]*model.GalleryImage, error) {
	return r.list(ctx, "SELECT "+galleryColumns+
		" FROM gallery_images WHERE is_active = 1 ORDER BY display_order ASC, created_at DESC")
}

// ListAll includes hidden images.
func (r *GalleryRepo) ListAll(ctx context.Context) ([]*model.GalleryImage, error) {
	return r.list(ctx, "SELECT "+galleryColumns+
		" FROM gallery_images ORDER BY display_order ASC, created_at DESC")
}

func (r *GalleryRepo) list(ctx context.Context, q string) ([]*model.GalleryImage, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.GalleryImage{}
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches an image or returns ErrNotFound.
func (r *GalleryRepo) GetByID(ctx context.Context, id uint64) (*model.GalleryImage, error) {
	return scanGallery(r.db.QueryRowContext(ctx,
		"SELECT "+galleryColumns+" FROM gallery_images WHERE id = ?", id))
}

// Create inserts g and refreshes it from the stored row.
func (r *GalleryRepo) Create(ctx context.Context, g *model.GalleryImage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO gallery_images (title, description, image_url, display_order, is_active)
		 VALUES (?, ?, ?, ?, ?)`,
		g.Title, g.Description, g.ImageURL, g.DisplayOrder, g.IsActive)
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
	*g = *stored
	return nil
}

// Update applies the set fields of p to image id.
func (r *GalleryRepo) Update(ctx context.Context, id uint64, p model.GalleryPatch) (*model.GalleryImage, error) {
	var a assignments
	set(&a, "title", p.Title)
	set(&a, "description", p.Description)
	set(&a, "image_url", p.ImageURL)
	set(&a, "display_order", p.DisplayOrder)
	set(&a, "is_active", p.IsActive)

	res, err := r.db.ExecContext(ctx, "UPDATE gallery_images SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		return nil, err
	}
	if err := affectedOrNotFound(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the image row permanently. The uploaded file is left in
// place.
func (r *GalleryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM gallery_images WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanGallery(s scanner) (*model.GalleryImage, error) {
	var g model.GalleryImage
	err := s.Scan(&g.ID, &g.Title, &g.Description, &g.ImageURL, &g.DisplayOrder, &g.IsActive,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}
