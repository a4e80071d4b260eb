package entity

import "strings"

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NormalizeCategoryName upper-cases a category name so that duplicate
// checks compare case-insensitively by construction.
func NormalizeCategoryName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
