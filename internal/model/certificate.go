package model

import "time"

// Certificate is a quality or compliance certificate shown on the site.
// Deleting one only clears IsActive.
type Certificate struct {
	ID               uint64    `json:"id"`
	Title            string    `json:"title"`
	LogoImage        string    `json:"logo_image"`
	CertificateImage string    `json:"certificate_image"`
	DisplayOrder     int       `json:"display_order"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CertificatePatch holds the fields of a certificate update.
type CertificatePatch struct {
	Title            *string `json:"title"`
	LogoImage        *string `json:"logo_image"`
	CertificateImage *string `json:"certificate_image"`
	DisplayOrder     *int    `json:"display_order"`
	IsActive         *bool   `json:"is_active"`
}

// Apply copies the set fields of p onto c.
func (p CertificatePatch) Apply(c *Certificate) {
	setString(&c.Title, p.Title)
	setString(&c.LogoImage, p.LogoImage)
	setString(&c.CertificateImage, p.CertificateImage)
	setInt(&c.DisplayOrder, p.DisplayOrder)
	setBool(&c.IsActive, p.IsActive)
}
