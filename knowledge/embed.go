package knowledge

import "embed"

// Default is the company knowledge base compiled into the binary
//
//go:embed *.md
var Default embed.FS
