package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/tmux-session-browser/internal/format/table"
	"github.com/atomicstack/tmux-session-browser/internal/session"
	"github.com/atomicstack/tmux-session-browser/internal/ui/sessions"
	uistate "github.com/atomicstack/tmux-session-browser/internal/ui/state"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

const (
	listFooter    = "↑/↓ move  enter open  type to filter  esc clear/quit  ctrl+x dismiss  ctrl+c quit"
	historyFooter = "↑/↓ scroll  enter resume  r reload  esc back  ctrl+x dismiss  ctrl+c quit"
	itemIndicator = "▌"
)

// relativeNow is the reference time for list ages.
var relativeNow = time.Now

var listColumns = []table.Column{
	{Align: table.AlignRight, MaxWidth: 16},
	{MaxWidth: 10},
	{Align: table.AlignRight},
	{MaxWidth: 20},
	{},
}

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text already carries ANSI escapes
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.sessions.Mode() == sessions.ModeDetail {
		return m.viewHistory()
	}
	return m.viewList()
}

func (m *Model) viewList() string {
	lines := make([]styledLine, 0, 16)
	lines = append(lines, styledLine{text: m.listHeader(), style: styles.Header})
	m.syncViewport()
	if m.list.Len() == 0 {
		msg := "(no sessions)"
		if m.list.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", m.list.Filter)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	} else {
		rows := formatRows(m.list.Items, relativeNow())
		start := m.list.ViewportOffset
		visible := m.list.Visible(m.maxVisibleItems())
		for i := range visible {
			idx := start + i
			lines = append(lines, m.buildItemLine(rows[idx], idx == m.list.Cursor))
		}
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: listFooter, style: styles.Footer})
	}
	bottom := m.bottomLines(true)
	lines = limitHeight(lines, m.height-len(bottom), m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(append(lines, bottom...))
}

func (m *Model) viewHistory() string {
	m.resizeHistory()
	m.refreshHistory()
	lines := make([]styledLine, 0, 8)
	details, ok := m.sessions.Selected()
	switch {
	case m.sessions.Loading():
		id := m.sessions.PendingID()
		lines = append(lines, styledLine{text: "Session " + session.ShortID(id), style: styles.Title})
		lines = append(lines, styledLine{text: m.spinner.View() + " Loading session…", raw: true})
	case m.sessions.Error() != "":
		lines = append(lines, styledLine{text: "Session " + session.ShortID(m.sessions.PendingID()), style: styles.Title})
		lines = append(lines, styledLine{text: m.sessions.Error(), style: styles.Error})
		lines = append(lines, styledLine{text: "Press esc to go back.", style: styles.Info})
	case ok:
		header := historyHeader(details)
		lines = append(lines, styledLine{text: header[0], style: styles.Title})
		for _, line := range header[1:] {
			lines = append(lines, styledLine{text: line, style: styles.ItemMeta})
		}
		for _, line := range strings.Split(m.history.View(), "\n") {
			lines = append(lines, styledLine{text: line, raw: true})
		}
	}
	if m.showFooter {
		lines = append(lines, styledLine{text: historyFooter, style: styles.Footer})
	}
	bottom := m.bottomLines(false)
	lines = limitHeight(lines, m.height-len(bottom), m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(append(lines, bottom...))
}

func (m *Model) listHeader() string {
	total := len(m.list.Full)
	header := fmt.Sprintf("sessions (%d)", total)
	if m.list.Filter != "" {
		header = fmt.Sprintf("sessions (%d of %d)", m.list.Len(), total)
	}
	if m.backendLastErr != "" {
		header += "  ⚠ " + m.backendLastErr
	}
	return header
}

// bottomLines renders toasts, the status line and, in the list, the filter
// prompt.
func (m *Model) bottomLines(withPrompt bool) []styledLine {
	out := make([]styledLine, 0, 4)
	for _, line := range m.toastLines() {
		out = append(out, styledLine{text: line, raw: true})
	}
	var status styledLine
	if m.errMsg != "" {
		status = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	} else if info := m.currentInfo(); info != "" && m.sessions.Mode() == sessions.ModeDetail {
		status = styledLine{text: info, style: styles.Success}
	}
	out = append(out, status)
	if withPrompt {
		out = append(out, styledLine{text: m.filterPrompt(), raw: true})
	}
	return applyWidth(out, m.width)
}

func (m *Model) bottomRows() int {
	rows := 1 + len(m.toastLines())
	if m.sessions != nil && m.sessions.Mode() == sessions.ModeList {
		rows++
	}
	return rows
}

// formatRows lays out every filtered row so column widths stay stable while
// scrolling.
func formatRows(items []uistate.Item, now time.Time) []string {
	rows := make([][]string, len(items))
	for i, item := range items {
		age := ""
		if !item.Summary.Modified.IsZero() {
			age = humanize.RelTime(item.Summary.Modified, now, "ago", "from now")
		}
		rows[i] = []string{
			age,
			session.ShortID(item.ID),
			fmt.Sprintf("%d msgs", item.Summary.Metadata.MessageCount),
			item.Project,
			item.Label,
		}
	}
	return table.Format(rows, listColumns)
}

// buildItemLine pads the row so the selected background spans the width.
func (m *Model) buildItemLine(row string, selected bool) styledLine {
	lineStyle := styles.Item
	indicatorStyle := styles.ItemMeta
	if selected {
		lineStyle = styles.SelectedItem
		indicatorStyle = styles.SelectedItem
	}
	text := itemIndicator + " " + row
	if m.width > 0 {
		if pad := m.width - lipgloss.Width(text); pad > 0 {
			text += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          text,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.resizeHistory()
	m.refreshHistory()
	m.syncViewport()
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 1 + m.bottomRows()
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		if line.raw {
			if lipgloss.Width(line.text) > width {
				line.text = truncate.StringWithTail(line.text, uint(width-1), "…")
			}
		} else {
			line.text = truncateText(line.text, width)
		}
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}
