package tui

import (
	"testing"

	"pantry-cli/internal/donordir"
	"pantry-cli/internal/model"
	"pantry-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func newTestApp(t *testing.T, donors ...string) appModel {
	t.Helper()
	dir := t.TempDir()
	s := store.Store{Dir: dir}
	for _, d := range donors {
		if _, err := (donordir.Directory{Store: s}).Add(d); err != nil {
			t.Fatalf("seed donor %s: %v", d, err)
		}
	}
	db, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	m := newAppModel(dir, db)
	t.Cleanup(m.shutdownWatcher)
	return m
}

func press(t *testing.T, m appModel, msg tea.KeyMsg) appModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(appModel)
	if !ok {
		t.Fatalf("update returned %T", next)
	}
	return out
}

func TestApp_LogWeight(t *testing.T) {
	m := newTestApp(t, "Acme Grocery")

	for _, r := range "7.5" {
		m = press(t, m, keyRunes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.session.Total(model.CategoryProduce); got != 7.5 {
		t.Fatalf("total = %v", got)
	}
	if m.weightInput.Value() != "" {
		t.Fatalf("weight input should clear after logging: %q", m.weightInput.Value())
	}
}

func TestApp_LogWeight_InvalidShowsNotice(t *testing.T) {
	m := newTestApp(t)

	for _, r := range "abc" {
		m = press(t, m, keyRunes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.modal != modalNotice {
		t.Fatalf("invalid weight should raise a notice, modal=%v", m.modal)
	}
	if !m.session.Empty() {
		t.Fatalf("invalid entry must not change totals")
	}
}

func TestApp_CategorySwitch(t *testing.T) {
	m := newTestApp(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.session.Selected != model.CategoryFrozenMeats {
		t.Fatalf("selected = %q", m.session.Selected)
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.session.Selected != model.CategoryProduce {
		t.Fatalf("left should clamp at the first category: %q", m.session.Selected)
	}
}

func TestApp_AddDonorThroughConfirm(t *testing.T) {
	m := newTestApp(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}) // focus the picker
	if m.focus != focusPicker {
		t.Fatalf("tab should focus the picker")
	}
	for _, r := range "New Donor" {
		m = press(t, m, keyRunes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.modal != modalConfirm || m.confirmWhat != confirmAddDonor {
		t.Fatalf("expected add-donor confirm, modal=%v what=%v", m.modal, m.confirmWhat)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // confirm creation

	if m.picker.Selected() != "New Donor" {
		t.Fatalf("new donor should be selected: %q", m.picker.Selected())
	}
	donors, err := m.store.LoadDonors()
	if err != nil || len(donors) != 1 || donors[0] != "New Donor" {
		t.Fatalf("donor should persist: %v %+v", err, donors)
	}
}

func TestApp_AddDonorDeclinedKeepsTypedText(t *testing.T) {
	m := newTestApp(t)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	for _, r := range "Maybe Donor" {
		m = press(t, m, keyRunes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // decline

	if m.modal != modalNone {
		t.Fatalf("modal should close")
	}
	if m.focus != focusPicker || !m.picker.IsOpen() {
		t.Fatalf("declining should return to the open picker")
	}
	if m.picker.query() != "Maybe Donor" {
		t.Fatalf("typed text should survive: %q", m.picker.query())
	}
	donors, _ := m.store.LoadDonors()
	if len(donors) != 0 {
		t.Fatalf("nothing should persist on decline: %+v", donors)
	}
}

func TestApp_AddRequestForExistingIdentitySelectsIt(t *testing.T) {
	m := newTestApp(t, "Acme Grocery")

	m.resolveAddRequest("  ACME GROCERY ")

	if m.modal != modalNone {
		t.Fatalf("existing identity must not raise a confirm")
	}
	if m.picker.Selected() != "Acme Grocery" {
		t.Fatalf("stored casing should be selected: %q", m.picker.Selected())
	}
}

func TestApp_SubmitFlow(t *testing.T) {
	m := newTestApp(t, "Acme Grocery")
	m.picker.Select("Acme Grocery")

	for _, r := range "5" {
		m = press(t, m, keyRunes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.modal != modalConfirm || m.confirmWhat != confirmSubmit {
		t.Fatalf("expected finalize confirm, modal=%v what=%v", m.modal, m.confirmWhat)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // finalize

	if m.modal != modalConfirm || m.confirmWhat != confirmPrintReceipt {
		t.Fatalf("expected print-receipt confirm, modal=%v what=%v", m.modal, m.confirmWhat)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // skip the receipt

	if m.view != viewDonations {
		t.Fatalf("submission should land on the donations view")
	}
	if !m.session.Empty() {
		t.Fatalf("session should reset after submission")
	}
	db, err := m.store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(db.Donations) != 1 || db.Donations[0].DonorName != "Acme Grocery" || db.Donations[0].Produce != 5 {
		t.Fatalf("donation should persist: %+v", db.Donations)
	}
}

func TestApp_SubmitWithoutDonorIsRejected(t *testing.T) {
	m := newTestApp(t)

	for _, r := range "5" {
		m = press(t, m, keyRunes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.modal != modalNotice {
		t.Fatalf("missing donor should raise a notice, modal=%v", m.modal)
	}
	db, _ := m.store.Load()
	if len(db.Donations) != 0 {
		t.Fatalf("nothing should persist: %+v", db.Donations)
	}
}

func TestApp_UndoKeybinding(t *testing.T) {
	m := newTestApp(t)

	for _, r := range "4" {
		m = press(t, m, keyRunes(string(r)))
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlZ})

	if m.modal != modalNotice {
		t.Fatalf("undo should confirm via notice")
	}
	if got := m.session.Total(model.CategoryProduce); got != 0 {
		t.Fatalf("total after undo = %v", got)
	}
}
