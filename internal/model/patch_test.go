package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewsPatch_ApplyOnlySetFields(t *testing.T) {
	n := News{Title: "Old", Summary: "keep", IsFeatured: false, Categories: StringList{"a"}}

	var p NewsPatch
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","isFeatured":true}`), &p))
	p.Apply(&n)

	assert.Equal(t, "New", n.Title)
	assert.Equal(t, "keep", n.Summary)
	assert.True(t, n.IsFeatured)
	assert.Equal(t, StringList{"a"}, n.Categories)
}

func TestProductPatch_ApplyZeroValues(t *testing.T) {
	pr := Product{DisplayOrder: 5, IsActive: true}

	var p ProductPatch
	require.NoError(t, json.Unmarshal([]byte(`{"display_order":0,"is_active":false}`), &p))
	p.Apply(&pr)

	assert.Equal(t, 0, pr.DisplayOrder)
	assert.False(t, pr.IsActive)
}

func TestAdminUser_JSONHidesHash(t *testing.T) {
	b, err := json.Marshal(AdminUser{ID: 1, Username: "admin", PasswordHash: "$2a$10$secret", Role: RoleAdmin})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}
