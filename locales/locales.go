// Package locales embeds the UI translations, laid out as {lang}/{namespace}.yaml.
package locales

import "embed"

//go:embed */*.yaml
var FS embed.FS
