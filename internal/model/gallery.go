package model

import "time"

// GalleryImage is one slide of the site gallery.
type GalleryImage struct {
	ID           uint64    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GalleryPatch holds the fields of a gallery update.
type GalleryPatch struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"image_url"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

// Apply copies the set fields of p onto g.
func (p GalleryPatch) Apply(g *GalleryImage) {
	setString(&g.Title, p.Title)
	setString(&g.Description, p.Description)
	setString(&g.ImageURL, p.ImageURL)
	setInt(&g.DisplayOrder, p.DisplayOrder)
	setBool(&g.IsActive, p.IsActive)
}
