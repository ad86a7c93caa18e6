package model

import "time"

// Product is a catalog entry with its technical and safety data sheets.
type Product struct {
	ID           uint64     `json:"id"`
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	Description  string     `json:"description"`
	Features     StringList `json:"features"`
	Applications StringList `json:"applications"`
	Category     string     `json:"category"`
	ImageURL     string     `json:"image_url"`
	TDSFile      string     `json:"tds_file"`
	SDSFile      string     `json:"sds_file"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ProductPatch holds the fields of a product update; nil means unchanged.
type ProductPatch struct {
	Title        *string     `json:"title"`
	Subtitle     *string     `json:"subtitle"`
	Description  *string     `json:"description"`
	Features     *StringList `json:"features"`
	Applications *StringList `json:"applications"`
	Category     *string     `json:"category"`
	ImageURL     *string     `json:"image_url"`
	TDSFile      *string     `json:"tds_file"`
	SDSFile      *string     `json:"sds_file"`
	DisplayOrder *int        `json:"display_order"`
	IsActive     *bool       `json:"is_active"`
}

// Apply copies the set fields of p onto pr.
func (p ProductPatch) Apply(pr *Product) {
	setString(&pr.Title, p.Title)
	setString(&pr.Subtitle, p.Subtitle)
	setString(&pr.Description, p.Description)
	setList(&pr.Features, p.Features)
	setList(&pr.Applications, p.Applications)
	setString(&pr.Category, p.Category)
	setString(&pr.ImageURL, p.ImageURL)
	setString(&pr.TDSFile, p.TDSFile)
	setString(&pr.SDSFile, p.SDSFile)
	setInt(&pr.DisplayOrder, p.DisplayOrder)
	setBool(&pr.IsActive, p.IsActive)
}
