package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalNotice
	modalPrompt
)

// confirmAction identifies what a yes answer commits.
type confirmAction int

const (
	confirmNothing confirmAction = iota
	confirmRestart
	confirmSubmit
	confirmPrintReceipt
	confirmAddDonor
	confirmDeleteDonor
	confirmDeleteDonation
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func renderModalBox(width int, title, content string) string {
	boxW := width - 8
	if boxW > 64 {
		boxW = 64
	}
	if boxW < 30 {
		boxW = 30
	}
	header := styleHeader().Render(title)
	body := lipgloss.NewStyle().Width(boxW).Render(content)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2).
		Render(header + "\n\n" + body)
	return box
}

func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().Padding(0, 1)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := styleMuted().Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{body, "", controls, "", help}, "\n")
	return renderModalBox(width, title, content)
}

func renderNoticeModal(width int, title, body string) string {
	help := styleMuted().Render("enter/esc: dismiss")
	content := strings.Join([]string{body, "", help}, "\n")
	return renderModalBox(width, title, content)
}
