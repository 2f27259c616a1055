package constant

import _ "embed"

// AsciiArtLogo heads the root command help.
//
//go:embed ascii.txt
var AsciiArtLogo string
