// Package assets embeds the data files shipped inside the binary.
package assets

import "embed"

// Themes holds the built-in theme definitions under themes/.
//
//go:embed themes/*.theme
var Themes embed.FS
