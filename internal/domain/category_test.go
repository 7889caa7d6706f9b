package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "laptops-notebooks", Slugify("Laptops & Notebooks"))
	assert.Equal(t, "4k-tvs", Slugify("  4K TVs!"))
}

func TestBuildCategoryTree(t *testing.T) {
	id := func(v uint64) *uint64 { return &v }
	flat := []Category{
		{ID: 3, Name: "Phones", ParentID: id(1)},
		{ID: 1, Name: "Electronics"},
		{ID: 2, Name: "Books"},
		{ID: 4, Name: "Accessories", ParentID: id(1)},
		{ID: 5, Name: "Cases", ParentID: id(4)},
		{ID: 6, Name: "Orphan", ParentID: id(99)},
	}

	roots := BuildCategoryTree(flat)
	require.Len(t, roots, 2)
	assert.Equal(t, "Books", roots[0].Name)
	assert.Equal(t, "Electronics", roots[1].Name)

	children := roots[1].Children
	require.Len(t, children, 2)
	assert.Equal(t, "Accessories", children[0].Name)
	assert.Equal(t, "Phones", children[1].Name)
	require.Len(t, children[0].Children, 1)
	assert.Equal(t, "Cases", children[0].Children[0].Name)
}
