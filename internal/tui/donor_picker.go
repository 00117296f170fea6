package tui

import (
	"strings"
	"time"

	"pantry-cli/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// The donor picker is a typeahead combobox over the directory's display
// order: closed, open-unfiltered (full list), or open-filtered (substring
// query). It never talks to storage itself; the app feeds it options and
// reacts to the events it emits.

type pickerEventKind int

const (
	pickerEventNone pickerEventKind = iota
	// pickerEventSelected fires when a donor row is confirmed.
	pickerEventSelected
	// pickerEventAddRequested fires when the add-new row is confirmed; the
	// app decides whether to confirm-create or select an existing donor.
	pickerEventAddRequested
	// pickerEventCleared fires on explicit clear.
	pickerEventCleared
)

type pickerEvent struct {
	Kind pickerEventKind
	Name string
}

const pickerSuppressWindow = 250 * time.Millisecond

type donorPicker struct {
	input textinput.Model

	open     bool
	options  []string // current display order, supplied by the app
	matches  []string
	active   int
	selected string

	// A just-completed selection (or a blocking confirm dialog) suppresses
	// the immediate re-open that focus churn would otherwise trigger.
	suppressUntil time.Time

	maxRows int
}

func newDonorPicker() donorPicker {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "type to search donors"
	in.CharLimit = 120
	return donorPicker{input: in, maxRows: 8}
}

func (p donorPicker) Selected() string { return p.selected }
func (p donorPicker) IsOpen() bool     { return p.open }

func (p donorPicker) query() string { return strings.TrimSpace(p.input.Value()) }

func (p donorPicker) filtered() bool { return p.open && p.query() != "" }

// showsAddRow reports whether the synthetic add-new row is visible. It only
// appears when the filter yields zero donor matches, and then it is the only
// row.
func (p donorPicker) showsAddRow() bool {
	return p.filtered() && len(p.matches) == 0
}

// SetOptions replaces the display-order option list (after a directory
// change or sort-mode switch) and recomputes the current matches.
func (p *donorPicker) SetOptions(options []string) {
	p.options = options
	p.refilter(false)
}

// Open shows the list unless the suppression window is active.
func (p *donorPicker) Open() {
	if time.Now().Before(p.suppressUntil) {
		return
	}
	p.open = true
	p.input.Focus()
	p.refilter(true)
}

func (p *donorPicker) Close() {
	p.open = false
	p.input.Blur()
}

// Suppress arms the re-open suppression window (selection just completed or
// a confirm dialog is about to take over).
func (p *donorPicker) Suppress() {
	p.suppressUntil = time.Now().Add(pickerSuppressWindow)
}

// Select sets the active donor, mirrors it into the input, and closes.
func (p *donorPicker) Select(name string) {
	p.selected = name
	p.input.SetValue(name)
	p.input.CursorEnd()
	p.Close()
	p.Suppress()
}

// Clear resets the combobox and the underlying selection, then reopens.
func (p *donorPicker) Clear() {
	p.selected = ""
	p.input.SetValue("")
	p.suppressUntil = time.Time{}
	p.Open()
}

func (p *donorPicker) refilter(resetActive bool) {
	q := strings.ToLower(p.query())
	if q == "" {
		p.matches = p.options
	} else {
		p.matches = nil
		for _, o := range p.options {
			if strings.Contains(strings.ToLower(o), q) {
				p.matches = append(p.matches, o)
			}
		}
	}
	if resetActive || p.active >= len(p.matches) {
		if len(p.matches) > 0 {
			p.active = 0
		} else {
			p.active = -1
		}
	}
}

// exactMatch returns the stored donor whose label equals the typed text
// case-insensitively, if any.
func (p donorPicker) exactMatch() (string, bool) {
	q := p.query()
	if q == "" {
		return "", false
	}
	for _, o := range p.options {
		if strings.EqualFold(o, q) {
			return o, true
		}
	}
	return "", false
}

// Update handles one key. It returns the emitted event; all storage-facing
// consequences are the app's job.
func (p *donorPicker) Update(msg tea.KeyMsg) pickerEvent {
	switch msg.String() {
	case "esc":
		// Close without changing the selection; restore the selected label.
		p.input.SetValue(p.selected)
		p.input.CursorEnd()
		p.Close()
		return pickerEvent{Kind: pickerEventNone}

	case "ctrl+u":
		p.Clear()
		return pickerEvent{Kind: pickerEventCleared}

	case "down":
		if !p.open {
			p.Open()
			return pickerEvent{Kind: pickerEventNone}
		}
		if n := p.rowCount(); n > 0 && p.active < n-1 {
			p.active++
		}
		return pickerEvent{Kind: pickerEventNone}

	case "up":
		if !p.open {
			p.Open()
			return pickerEvent{Kind: pickerEventNone}
		}
		if p.active > 0 {
			p.active--
		}
		return pickerEvent{Kind: pickerEventNone}

	case "enter":
		return p.confirm()
	}

	// Everything else edits the query. Open first so the input is focused
	// and the keystroke itself registers.
	if !p.open {
		p.Open()
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	_ = cmd
	p.refilter(true)
	return pickerEvent{Kind: pickerEventNone}
}

func (p *donorPicker) confirm() pickerEvent {
	// Exact label match wins regardless of highlight.
	if name, ok := p.exactMatch(); ok {
		p.Select(name)
		return pickerEvent{Kind: pickerEventSelected, Name: name}
	}
	if !p.open {
		return pickerEvent{Kind: pickerEventNone}
	}
	if p.showsAddRow() {
		name := p.query()
		p.Suppress()
		return pickerEvent{Kind: pickerEventAddRequested, Name: name}
	}
	if len(p.matches) == 0 {
		return pickerEvent{Kind: pickerEventNone}
	}
	idx := p.active
	if idx < 0 {
		idx = 0
	}
	name := p.matches[idx]
	p.Select(name)
	return pickerEvent{Kind: pickerEventSelected, Name: name}
}

func (p donorPicker) rowCount() int {
	if p.showsAddRow() {
		return 1
	}
	return len(p.matches)
}

// View renders the input line plus, when open, the match list.
func (p donorPicker) View(width int, favorites map[string]bool) string {
	var b strings.Builder
	label := "Donor: "
	b.WriteString(styleHeader().Render(label))
	b.WriteString(p.input.View())

	if !p.open {
		return b.String()
	}
	b.WriteString("\n")

	rowStyle := lipgloss.NewStyle()
	activeStyle := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	if p.showsAddRow() {
		line := "+ Add new donor: " + p.query()
		b.WriteString(activeStyle.Render(fitLine(line, width)))
		return b.String()
	}

	start := 0
	if p.active >= p.maxRows {
		start = p.active - p.maxRows + 1
	}
	end := start + p.maxRows
	if end > len(p.matches) {
		end = len(p.matches)
	}
	for i := start; i < end; i++ {
		name := p.matches[i]
		star := "  "
		if favorites[model.NormalizeDonor(name)] {
			star = lipgloss.NewStyle().Foreground(colorFavorite).Render("★ ")
		}
		line := star + name
		st := rowStyle
		if i == p.active {
			st = activeStyle
		}
		b.WriteString(st.Render(fitLine(line, width)))
		if i != end-1 {
			b.WriteString("\n")
		}
	}
	if len(p.matches) == 0 {
		b.WriteString(styleMuted().Render("no donors yet - type a name and press enter"))
	}
	return b.String()
}

func fitLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	w := xansi.StringWidth(line)
	if w > width {
		return xansi.Cut(line, 0, width)
	}
	return line + strings.Repeat(" ", width-w)
}
