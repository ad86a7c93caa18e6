package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

// CertificateRepo encapsulates the certificates table. Certificates are
// soft-deleted: Delete clears is_active and the public list hides them.
type CertificateRepo struct {
	db *sql.DB
}

func NewCertificateRepo(db *sql.DB) *CertificateRepo {
	return &CertificateRepo{db: db}
}

const certificateColumns = "id, title, logo_image, certificate_image, display_order, is_active, created_at, updated_at"

// List returns active certificates by display order.
func (r *CertificateRepo) List(ctx context.Context) ([]*model.Certificate, error) {
	return r.list(ctx, "SELECT "+certificateColumns+
		" FROM certificates WHERE is_active = 1 ORDER BY display_order ASC, created_at DESC")
}

// ListAll includes inactive certificates.
func (r *CertificateRepo) ListAll(ctx context.Context) ([]*model.Certificate, error) {
	return r.list(ctx, "SELECT "+certificateColumns+
		" FROM certificates ORDER BY display_order ASC, created_at DESC")
}

func (r *CertificateRepo) list(ctx context.Context, q string) ([]*model.Certificate, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Certificate{}
	for rows.Next() {
		c, err := scanCertificate(rows)
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

// GetByID fetches a certificate whether or not it is active.
func (r *CertificateRepo) GetByID(ctx context.Context, id uint64) (*model.Certificate, error) {
	return scanCertificate(r.db.QueryRowContext(ctx,
		"SELECT "+certificateColumns+" FROM certificates WHERE id = ?", id))
}

// Create inserts c and refreshes it from the stored row.
func (r *CertificateRepo) Create(ctx context.Context, c *model.Certificate) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO certificates (title, logo_image, certificate_image, display_order, is_active)
		 VALUES (?, ?, ?, ?, ?)`,
		c.Title, c.LogoImage, c.CertificateImage, c.DisplayOrder, c.IsActive)
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

// Update applies the set fields of p to certificate id.
func (r *CertificateRepo) Update(ctx context.Context, id uint64, p model.CertificatePatch) (*model.Certificate, error) {
	var a assignments
	set(&a, "title", p.Title)
	set(&a, "logo_image", p.LogoImage)
	set(&a, "certificate_image", p.CertificateImage)
	set(&a, "display_order", p.DisplayOrder)
	set(&a, "is_active", p.IsActive)

	res, err := r.db.ExecContext(ctx, "UPDATE certificates SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		return nil, err
	}
	if err := affectedOrNotFound(res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete deactivates an active certificate. Deleting an unknown or
// already inactive certificate returns ErrNotFound.
func (r *CertificateRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE certificates SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func scanCertificate(s scanner) (*model.Certificate, error) {
	var c model.Certificate
	err := s.Scan(&c.ID, &c.Title, &c.LogoImage, &c.CertificateImage, &c.DisplayOrder, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
