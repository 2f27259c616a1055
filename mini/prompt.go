package mini

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/style"
	"github.com/muesli/reflow/truncate"
)

// askOne is replaced in tests.
var askOne = survey.AskOne

type action string

const (
	changeQuality action = "Change quality"
	togglePause   action = "Pause / resume"
	showStatus    action = "Status"
	back          action = "Back"
	quit          action = "Quit"
)

func (a action) String() string {
	return string(a)
}

func title(t string) {
	fmt.Println(style.Fg(color.Purple)(truncate.StringWithTail(t, uint(truncateAt), "…")))
}

func fail(t string) {
	fmt.Println(style.Fg(color.Red)(icon.Get(icon.Fail) + " " + t))
}

func succeed(t string) {
	fmt.Println(style.Fg(color.Green)(icon.Get(icon.Success) + " " + t))
}

// menu shows a select prompt over the given options and returns the chosen index.
// The cursor starts on def when it is in range.
func menu(message string, options []string, def int) (int, error) {
	for i, o := range options {
		options[i] = truncate.StringWithTail(o, uint(truncateAt), "…")
	}

	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if def >= 0 && def < len(options) {
		prompt.Default = options[def]
	}

	var index int
	if err := askOne(prompt, &index); err != nil {
		return 0, err
	}

	return index, nil
}
