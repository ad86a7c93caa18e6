package model

import "time"

// News is a news or blog article. Only one article may be featured at a
// time; the repository enforces that on every write.
type News struct {
	ID             uint64     `json:"id"`
	Title          string     `json:"title"`
	Summary        string     `json:"summary"`
	Content        string     `json:"content"`
	Date           string     `json:"date"`
	Categories     StringList `json:"categories"`
	Author         string     `json:"author"`
	Image          string     `json:"image"`
	Tags           StringList `json:"tags"`
	PDFURL         string     `json:"pdfUrl"`
	IsExternalLink bool       `json:"isExternalLink"`
	IsFeatured     bool       `json:"isFeatured"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// NewsPatch holds the fields of a news update; nil means unchanged.
type NewsPatch struct {
	Title          *string     `json:"title"`
	Summary        *string     `json:"summary"`
	Content        *string     `json:"content"`
	Date           *string     `json:"date"`
	Categories     *StringList `json:"categories"`
	Author         *string     `json:"author"`
	Image          *string     `json:"image"`
	Tags           *StringList `json:"tags"`
	PDFURL         *string     `json:"pdfUrl"`
	IsExternalLink *bool       `json:"isExternalLink"`
	IsFeatured     *bool       `json:"isFeatured"`
}

// Apply copies the set fields of p onto n.
func (p NewsPatch) Apply(n *News) {
	setString(&n.Title, p.Title)
	setString(&n.Summary, p.Summary)
	setString(&n.Content, p.Content)
	setString(&n.Date, p.Date)
	setList(&n.Categories, p.Categories)
	setString(&n.Author, p.Author)
	setString(&n.Image, p.Image)
	setList(&n.Tags, p.Tags)
	setString(&n.PDFURL, p.PDFURL)
	setBool(&n.IsExternalLink, p.IsExternalLink)
	setBool(&n.IsFeatured, p.IsFeatured)
}
