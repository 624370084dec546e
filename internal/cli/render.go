package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitquest/internal/models"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	UnlockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// BadgeLine renders one badge row. Locked badges are dimmed.
func BadgeLine(b models.Badge, unlocked bool) string {
	if !unlocked {
		return MutedStyle.Render(fmt.Sprintf("🔒  %-22s %s", b.Name, b.Description))
	}
	return fmt.Sprintf("%s  %-22s %s", b.Icon, b.Name, b.Description)
}

// UnlockSummary renders the celebration shown after a command unlocked
// badges. It is empty when nothing was unlocked.
func UnlockSummary(badges []models.Badge) string {
	if len(badges) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, b := range badges {
		sb.WriteString(UnlockStyle.Render(fmt.Sprintf("🎉 Badge unlocked: %s %s", b.Icon, b.Name)))
		sb.WriteString("\n")
		sb.WriteString(MutedStyle.Render("   " + b.Description))
		sb.WriteString("\n")
	}
	return sb.String()
}

func PrintUnlocks(badges []models.Badge) {
	fmt.Print(UnlockSummary(badges))
}

// Mark renders a completion cell.
func Mark(done bool) string {
	if done {
		return DoneStyle.Render("■")
	}
	return MutedStyle.Render("·")
}
