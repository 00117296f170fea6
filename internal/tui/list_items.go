package tui

import (
	"fmt"
	"io"
	"strings"

	"pantry-cli/internal/donations"
	"pantry-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type donorItem struct {
	name     string
	favorite bool
}

func (i donorItem) Title() string {
	if i.favorite {
		return "★ " + i.name
	}
	return "  " + i.name
}

func (i donorItem) FilterValue() string { return strings.ToLower(i.name) }

type donationItem struct {
	d model.Donation
}

func (i donationItem) Title() string {
	parts := []string{i.d.DateTime, i.d.DonorName}
	total := 0.0
	for _, c := range model.Categories() {
		total += i.d.Weight(c)
	}
	parts = append(parts, donations.FormatWeight(total)+" lbs")
	if strings.TrimSpace(i.d.Temperature) != "" {
		parts = append(parts, i.d.Temperature+"F")
	}
	return strings.Join(parts, "  ")
}

func (i donationItem) FilterValue() string { return strings.ToLower(i.d.DonorName) }

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	if t, ok := item.(interface{ Title() string }); ok {
		txt = t.Title()
	} else {
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}

func newCompactList(title string) list.Model {
	l := list.New([]list.Item{}, newCompactItemDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}
