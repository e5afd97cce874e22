package pages

import "errors"

var (
	ErrPageNotFound       = errors.New("pages: page not found")
	ErrInvalidFrontmatter = errors.New("pages: invalid frontmatter")
	ErrRenderFailed       = errors.New("pages: render failed")
)
