// Package pages serves the static informational pages (about, pricing, FAQ,
// terms and so on). Pages are markdown with YAML frontmatter:
//
//	---
//	title: Pricing
//	description: Plans for sellers.
//	order: 3
//	---
//	Post your first ad for free.
//
//	[!button|Post an Ad](/post)
//
// Markdown is rendered with goldmark (GitHub flavored, plus the button
// syntax above) and sanitized before being wrapped in the layout.
package pages
