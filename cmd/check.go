package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/abrplay/abrplay/constant"
	"github.com/abrplay/abrplay/icon"
	"github.com/abrplay/abrplay/style"
	"github.com/charmbracelet/lipgloss"
)

// CheckDependencies exits when mpv is not in PATH.
func CheckDependencies() {
	if _, err := exec.LookPath("mpv"); err != nil {
		fmt.Println(missingDependency("mpv", runtime.GOOS))
		os.Exit(1)
	}
}

func installHint(goos string) string {
	switch goos {
	case constant.Darwin:
		return "brew install mpv"
	case constant.Linux:
		return "sudo apt install mpv"
	case constant.Windows:
		return "scoop install mpv"
	default:
		return ""
	}
}

func missingDependency(dep, goos string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Missing dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("%s was not found in PATH. It renders the video and takes quality switches.", dep))

	suggestion := ""
	if hint := installHint(goos); hint != "" {
		suggestion = fmt.Sprintf("\n\nInstall it with:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(hint))
	}

	return box.Render(lipgloss.JoinVertical(lipgloss.Left, title, "\n", body, suggestion))
}
