package icon

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Success Icon = iota + 1
	Fail
	Progress
	Auto
	Quality
	Probe
	Play
	Pause
	Ended
	Check
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "[ok]",
		kaomoji: "(^_^)",
		squares: "▣",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "[x]",
		kaomoji: "(x_x)",
		squares: "▧",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(o_o)",
		squares: "▤",
	},
	Auto: {
		emoji:   "✨",
		nerd:    "",
		plain:   "A",
		kaomoji: "(*_*)",
		squares: "◈",
	},
	Quality: {
		emoji:   "⚙️",
		nerd:    "",
		plain:   "Q",
		kaomoji: "(-_-)",
		squares: "▦",
	},
	Probe: {
		emoji:   "📶",
		nerd:    "",
		plain:   "~",
		kaomoji: "(>_<)",
		squares: "▥",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "(>.>)",
		squares: "▶",
	},
	Pause: {
		emoji:   "⏸️",
		nerd:    "",
		plain:   "||",
		kaomoji: "(-.-)",
		squares: "▮",
	},
	Ended: {
		emoji:   "⏹️",
		nerd:    "",
		plain:   "[]",
		kaomoji: "(u_u)",
		squares: "■",
	},
	Check: {
		emoji:   "✔️",
		nerd:    "",
		plain:   "*",
		kaomoji: "(^-^)",
		squares: "□",
	},
}
