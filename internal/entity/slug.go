package entity

import "github.com/gosimple/slug"

// Slugify derives a URL slug from a name. Creation and update paths call
// this explicitly; slugs are never regenerated as a side effect of saving.
func Slugify(name string) string {
	return slug.Make(name)
}
