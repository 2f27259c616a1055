// Package icon renders UI symbols in the variant chosen by icons.variant.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares.
package icon

import (
	"github.com/abrplay/abrplay/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// iconDef holds one symbol in every variant.
type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var variants = map[string]func(*iconDef) string{
	emoji:   func(d *iconDef) string { return d.emoji },
	nerd:    func(d *iconDef) string { return d.nerd },
	plain:   func(d *iconDef) string { return d.plain },
	kaomoji: func(d *iconDef) string { return d.kaomoji },
	squares: func(d *iconDef) string { return d.squares },
}

// Get renders i in the configured variant. Unknown variants and icons render as nothing.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}

	render, ok := variants[viper.GetString(key.IconsVariant)]
	if !ok {
		return ""
	}

	return render(def)
}
