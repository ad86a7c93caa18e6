package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

// NewsRepo encapsulates the news table. At most one row has is_featured
// set; Create and Update clear the flag on other rows in the same
// transaction that sets it.
type NewsRepo struct {
	db *sql.DB
}

func NewNewsRepo(db *sql.DB) *NewsRepo {
	return &NewsRepo{db: db}
}

const newsColumns = `id, title, summary, content, date, categories, author, image, tags,
	pdf_url, is_external_link, is_featured, created_at, updated_at`

// List returns every article, newest first.
func (r *NewsRepo) List(ctx context.Context) ([]*model.News, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+newsColumns+" FROM news ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.News{}
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches an article or returns ErrNotFound.
func (r *NewsRepo) GetByID(ctx context.Context, id uint64) (*model.News, error) {
	return scanNews(r.db.QueryRowContext(ctx, "SELECT "+newsColumns+" FROM news WHERE id = ?", id))
}

// GetFeatured returns the featured article or ErrNotFound when none is.
func (r *NewsRepo) GetFeatured(ctx context.Context) (*model.News, error) {
	return scanNews(r.db.QueryRowContext(ctx,
		"SELECT "+newsColumns+" FROM news WHERE is_featured = 1 ORDER BY id DESC LIMIT 1"))
}

// Create inserts n and populates its id and timestamps.
func (r *NewsRepo) Create(ctx context.Context, n *model.News) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if n.IsFeatured {
			if _, err := tx.ExecContext(ctx, "UPDATE news SET is_featured = 0 WHERE is_featured = 1"); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO news (title, summary, content, date, categories, author, image, tags,
				pdf_url, is_external_link, is_featured)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.Title, n.Summary, n.Content, n.Date, n.Categories, n.Author, n.Image, n.Tags,
			n.PDFURL, n.IsExternalLink, n.IsFeatured)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		n.ID = uint64(id)
		return nil
	})
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, n.ID)
	if err != nil {
		return err
	}
	*n = *stored
	return nil
}

// Update applies the set fields of p to article id. When p sets
// isFeatured to true every other featured article is cleared first; both
// statements commit together or not at all.
func (r *NewsRepo) Update(ctx context.Context, id uint64, p model.NewsPatch) (*model.News, error) {
	var a assignments
	set(&a, "title", p.Title)
	set(&a, "summary", p.Summary)
	set(&a, "content", p.Content)
	set(&a, "date", p.Date)
	set(&a, "categories", p.Categories)
	set(&a, "author", p.Author)
	set(&a, "image", p.Image)
	set(&a, "tags", p.Tags)
	set(&a, "pdf_url", p.PDFURL)
	set(&a, "is_external_link", p.IsExternalLink)
	set(&a, "is_featured", p.IsFeatured)

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if p.IsFeatured != nil && *p.IsFeatured {
			if _, err := tx.ExecContext(ctx,
				"UPDATE news SET is_featured = 0 WHERE is_featured = 1 AND id <> ?", id); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, "UPDATE news SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res)
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the article permanently.
func (r *NewsRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM news WHERE id = ?", id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// CountFeatured reports how many articles carry the featured flag.
func (r *NewsRepo) CountFeatured(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM news WHERE is_featured = 1").Scan(&n)
	return n, err
}

func scanNews(s scanner) (*model.News, error) {
	var n model.News
	err := s.Scan(&n.ID, &n.Title, &n.Summary, &n.Content, &n.Date, &n.Categories, &n.Author,
		&n.Image, &n.Tags, &n.PDFURL, &n.IsExternalLink, &n.IsFeatured, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}
