package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

type Category struct {
	ID          uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string      `json:"name" gorm:"type:varchar(120);not null;uniqueIndex"`
	Slug        string      `json:"slug" gorm:"type:varchar(140);not null;uniqueIndex"`
	Description string      `json:"description,omitempty"`
	ImageURL    string      `json:"image_url,omitempty"`
	ParentID    *uint64     `json:"parent_id" gorm:"index"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	Children    []*Category `json:"children,omitempty" gorm:"-"`
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// BuildCategoryTree nests categories under their parents. Roots and each
// child list are ordered by name. Categories whose parent is not in the
// input are dropped.
func BuildCategoryTree(flat []Category) []*Category {
	nodes := make(map[uint64]*Category, len(flat))
	for i := range flat {
		c := flat[i]
		c.Children = nil
		nodes[c.ID] = &c
	}

	var roots []*Category
	for i := range flat {
		node := nodes[flat[i].ID]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}

	var sortTree func([]*Category)
	sortTree = func(list []*Category) {
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
		for _, c := range list {
			sortTree(c.Children)
		}
	}
	sortTree(roots)
	return roots
}
