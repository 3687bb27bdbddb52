package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/photogolffrance/coupe-hdf-app/internal/roster"
	"github.com/photogolffrance/coupe-hdf-app/internal/selection"
	"github.com/photogolffrance/coupe-hdf-app/internal/tui/styles"
	"github.com/photogolffrance/coupe-hdf-app/internal/util"
)

// chromeLines is the number of lines around the roster table: header,
// summary, messages and help bar.
const chromeLines = 10

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "Coupe roster"
	if m.dirty {
		title += " *"
	}
	header := styles.Header
	if m.width > 4 {
		header = header.Width(m.width - 4)
	}
	b.WriteString(header.Render(title))
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("Roster file: " + m.store.Path()))
	b.WriteString("\n\n")

	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderSummary())
	b.WriteString("\n")

	switch m.mode {
	case modePrompt:
		b.WriteString(m.renderPrompt())
		b.WriteString("\n")
	case modeConfirm:
		b.WriteString(m.renderConfirm())
		b.WriteString("\n")
	default:
		if m.result != nil {
			b.WriteString("\n")
			b.WriteString(m.renderResult())
			b.WriteString("\n")
		}
	}

	// Error/Info messages
	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorMsg.Render("Error: " + m.errorMsg))
	}
	if m.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.SuccessMsg.Render(m.infoMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderTable() string {
	if len(m.players) == 0 {
		return styles.Muted.Render("  No players yet. Press a to add one.") + "\n"
	}

	start, end := m.visibleRange()
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(m.players[i], i == m.cursor))
		b.WriteString("\n")
	}
	if start > 0 || end < len(m.players) {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  %d-%d of %d", start+1, end, len(m.players))))
		b.WriteString("\n")
	}
	return b.String()
}

// visibleRange returns the rows that fit the window, keeping the cursor
// in view.
func (m Model) visibleRange() (int, int) {
	n := len(m.players)
	rows := m.height - chromeLines
	if m.height == 0 || rows >= n {
		return 0, n
	}
	rows = max(rows, 1)
	start := max(m.cursor-rows/2, 0)
	end := min(start+rows, n)
	start = max(end-rows, 0)
	return start, end
}

func (m Model) renderRow(p roster.Player, selected bool) string {
	name := util.Cell(p.Name, m.cfg.NameWidth)
	index := fmt.Sprintf("%6s", selection.FormatIndex(p.Index))
	mark := lipgloss.NewStyle().Foreground(styles.AvailabilityColor(p.Available)).
		Render(styles.AvailabilityIcon(p.Available))
	captain := styles.Captain.Render(styles.CaptainIcon(p.CaptainPick))

	if selected {
		cursor := styles.Secondary.Render(">")
		return fmt.Sprintf("  %s %s %s  %s %s", cursor, styles.RowSelected.Render(name), styles.Primary.Render(index), mark, captain)
	}
	return fmt.Sprintf("    %s %s  %s %s", styles.Text.Render(name), index, mark, captain)
}

func (m Model) renderSummary() string {
	return styles.Muted.Render(fmt.Sprintf("%d players, %d available, %d captain's picks",
		len(m.players), len(roster.Available(m.players)), len(roster.CaptainPicks(m.players))))
}

func (m Model) renderPrompt() string {
	var label string
	switch m.prompt {
	case promptAddName:
		label = "New player name:"
	case promptAddIndex:
		label = fmt.Sprintf("Index of %s:", m.newName)
	case promptEditIndex:
		label = "New index:"
	case promptRename:
		label = "New name:"
	}
	content := label + "\n\n" + m.textInput.View() + "\n\n" + styles.Muted.Render("enter to confirm, esc to cancel")
	return "\n" + styles.PromptBox.Render(content)
}

func (m Model) renderConfirm() string {
	var content string
	switch m.confirm {
	case confirmReset:
		content = styles.WarningMsg.Render(fmt.Sprintf("Remove all %d players?", len(m.players))) +
			"\n\n" + styles.Muted.Render("y to confirm, any other key to cancel")
	case confirmQuit:
		content = styles.WarningMsg.Render("The roster has unsaved changes. Quit anyway?") +
			"\n\n" + styles.Muted.Render("y to quit, w to save and quit, any other key to cancel")
	}
	return "\n" + styles.PromptBox.Render(content)
}

func (m Model) renderResult() string {
	res := m.result
	report := selection.FormatReport(res)
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")
	if n := len(lines); n > 0 {
		lines[n-1] = styles.QualifiedStyle(res.Qualified).Render(lines[n-1])
	}
	return styles.ContentBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderHelp() string {
	helpStyle := styles.HelpBar
	keyStyle := styles.HelpKey

	switch m.mode {
	case modePrompt:
		return helpStyle.Render(
			keyStyle.Render("enter") + " confirm  " +
				keyStyle.Render("esc") + " cancel",
		)
	case modeConfirm:
		return ""
	}

	return helpStyle.Render(
		keyStyle.Render("j/k") + " move  " +
			keyStyle.Render("space") + " available  " +
			keyStyle.Render("c") + " captain  " +
			keyStyle.Render("a/e/r/d") + " add/index/rename/delete  " +
			keyStyle.Render("n/i") + " sort  " +
			keyStyle.Render("s") + " select  " +
			keyStyle.Render("w") + " save  " +
			keyStyle.Render("R") + " reset  " +
			keyStyle.Render("q") + " quit",
	)
}
