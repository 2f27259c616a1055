package version

import (
	"context"
	"fmt"
	"time"

	"github.com/abrplay/abrplay/color"
	"github.com/abrplay/abrplay/constant"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/key"
	"github.com/abrplay/abrplay/style"
	"github.com/abrplay/abrplay/util"
	"github.com/spf13/viper"
)

// Notify prints a banner when a newer release than the running binary exists.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a newer release...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/abrplay/abrplay/releases/tag/v"+latest),
	)
}
