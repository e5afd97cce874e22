// Package slug generates URL-safe slugs.
//
//	slug.Make("Café & Restaurant")                 // "cafe-restaurant"
//	slug.Make("Über Größe", slug.MaxLength(8))      // "uber"
//	slug.Make("Product Name", slug.Separator("_")) // "product_name"
//
// Diacritics are removed after NFKD normalization; every other character
// outside ASCII letters and digits acts as a word break.
package slug
