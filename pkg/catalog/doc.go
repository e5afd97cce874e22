// Package catalog holds the demo marketplace data: categories with their
// custom fields, users and listings. It is seeded from an embedded YAML file
// and lives in memory only.
//
//	c, _ := catalog.New()
//	jobs := c.Search(catalog.Filter{Category: "jobs", Sort: catalog.SortOldest})
//	l, err := c.Create(catalog.NewListing{Title: "Road bike", CategorySlug: "for-sale"})
package catalog
