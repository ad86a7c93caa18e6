package model

import "time"

// Career is a job posting.
type Career struct {
	ID               uint64     `json:"id"`
	Title            string     `json:"title"`
	Department       string     `json:"department"`
	Location         string     `json:"location"`
	Type             string     `json:"type"`
	Salary           string     `json:"salary"`
	Level            string     `json:"level"`
	Category         string     `json:"category"`
	Description      string     `json:"description"`
	Responsibilities StringList `json:"responsibilities"`
	Requirements     StringList `json:"requirements"`
	Qualifications   StringList `json:"qualifications"`
	Questions        StringList `json:"questions"`
	DatePosted       string     `json:"date_posted"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CareerPatch holds the fields of a career update; nil means unchanged.
type CareerPatch struct {
	Title            *string     `json:"title"`
	Department       *string     `json:"department"`
	Location         *string     `json:"location"`
	Type             *string     `json:"type"`
	Salary           *string     `json:"salary"`
	Level            *string     `json:"level"`
	Category         *string     `json:"category"`
	Description      *string     `json:"description"`
	Responsibilities *StringList `json:"responsibilities"`
	Requirements     *StringList `json:"requirements"`
	Qualifications   *StringList `json:"qualifications"`
	Questions        *StringList `json:"questions"`
	DatePosted       *string     `json:"date_posted"`
	IsActive         *bool       `json:"is_active"`
}

// Apply copies the set fields of p onto c.
func (p CareerPatch) Apply(c *Career) {
	setString(&c.Title, p.Title)
	setString(&c.Department, p.Department)
	setString(&c.Location, p.Location)
	setString(&c.Type, p.Type)
	setString(&c.Salary, p.Salary)
	setString(&c.Level, p.Level)
	setString(&c.Category, p.Category)
	setString(&c.Description, p.Description)
	setList(&c.Responsibilities, p.Responsibilities)
	setList(&c.Requirements, p.Requirements)
	setList(&c.Qualifications, p.Qualifications)
	setList(&c.Questions, p.Questions)
	setString(&c.DatePosted, p.DatePosted)
	setBool(&c.IsActive, p.IsActive)
}
