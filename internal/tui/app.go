package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pantry-cli/internal/donations"
	"pantry-cli/internal/donordir"
	"pantry-cli/internal/model"
	"pantry-cli/internal/receipt"
	"pantry-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
)

type view int

const (
	viewEntry view = iota
	viewDonors
	viewDonations
)

type entryFocus int

const (
	focusWeight entryFocus = iota
	focusPicker
	focusTemp
)

type appModel struct {
	dir       string
	store     store.Store
	db        *store.DB
	directory donordir.Directory
	register  donations.Register

	width  int
	height int
	view   view

	// Donation entry view. The session is the only holder of in-progress
	// totals; it is created on mount and replaced on restart.
	session     *donations.Session
	picker      donorPicker
	weightInput textinput.Model
	tempInput   textinput.Model
	focus       entryFocus
	catIndex    int

	donorsList    list.Model
	donationsList list.Model
	donationsDir  donations.Direction

	modal        modalKind
	confirmWhat  confirmAction
	confirmTitle string
	confirmBody  string
	confirmFocus confirmModalFocus

	pendingDonation model.Donation
	pendingName     string

	noticeTitle string
	noticeBody  string

	promptInput  textinput.Model
	promptRename bool
	promptOld    string

	watcher *fsnotify.Watcher
	changes chan struct{}

	lastStoreModTime time.Time
}

func newAppModel(dir string, db *store.DB) appModel {
	s := store.Store{Dir: dir}
	m := appModel{
		dir:          dir,
		store:        s,
		db:           db,
		directory:    donordir.Directory{Store: s},
		register:     donations.Register{Store: s},
		view:         viewEntry,
		session:      donations.NewSession(),
		picker:       newDonorPicker(),
		donationsDir: donations.Descending,
	}
	m.session.Selected = model.CategoryProduce

	m.weightInput = textinput.New()
	m.weightInput.Prompt = ""
	m.weightInput.Placeholder = "0.00"
	m.weightInput.CharLimit = 10
	m.weightInput.Focus()

	m.tempInput = textinput.New()
	m.tempInput.Prompt = ""
	m.tempInput.Placeholder = "temp F"
	m.tempInput.CharLimit = 10

	m.promptInput = textinput.New()
	m.promptInput.Prompt = ""
	m.promptInput.CharLimit = 120

	m.donorsList = newCompactList("Donors")
	m.donationsList = newCompactList("Donations")

	m.watcher, m.changes = newStoreWatcher(dir)

	m.refreshAll()
	m.captureStoreModTime()
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(tickReload(), waitForStoreChange(m.changes))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case storeChangedMsg:
		_ = m.reloadFromDisk()
		return m, waitForStoreChange(m.changes)

	case reloadTickMsg:
		if m.storeChanged() {
			_ = m.reloadFromDisk()
		}
		return m, tickReload()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.shutdownWatcher()
			return m, tea.Quit
		}
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		switch m.view {
		case viewEntry:
			return m.updateEntry(msg)
		case viewDonors:
			return m.updateDonors(msg)
		case viewDonations:
			return m.updateDonations(msg)
		}
	}
	return m, nil
}

// --- entry view ---

func (m appModel) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case "tab":
		m.cycleEntryFocus()
		return m, nil
	case "ctrl+d":
		m.view = viewDonors
		m.refreshDonors()
		return m, nil
	case "ctrl+l":
		m.view = viewDonations
		m.refreshDonations()
		return m, nil
	case "ctrl+z":
		if mt, ok := m.session.Undo(); ok {
			m.showNotice("Undo", fmt.Sprintf("Removed %s lbs from %s.", donations.FormatWeight(mt.Weight), mt.Category))
		} else {
			m.showNotice("Undo", "No measurement to undo.")
		}
		return m, nil
	case "ctrl+x":
		if err := m.session.ClearCategory(m.session.Selected); err != nil {
			m.showError(err)
		}
		return m, nil
	case "ctrl+r":
		m.openConfirm(confirmRestart, "Restart donation",
			"Are you sure you want to restart the donation? This will clear all entered data.")
		return m, nil
	case "ctrl+s":
		return m.beginSubmit()
	}

	if m.focus == focusPicker {
		ev := m.picker.Update(msg)
		switch ev.Kind {
		case pickerEventSelected:
			m.focus = focusWeight
			m.weightInput.Focus()
		case pickerEventAddRequested:
			m.resolveAddRequest(ev.Name)
		}
		if key == "esc" && !m.picker.IsOpen() {
			m.focus = focusWeight
			m.weightInput.Focus()
		}
		return m, nil
	}

	switch key {
	case "left":
		if m.catIndex > 0 {
			m.catIndex--
		}
		m.session.Selected = model.Categories()[m.catIndex]
		return m, nil
	case "right":
		if m.catIndex < len(model.Categories())-1 {
			m.catIndex++
		}
		m.session.Selected = model.Categories()[m.catIndex]
		return m, nil
	case "enter":
		if m.focus == focusWeight {
			m.logWeight()
			return m, nil
		}
		return m, nil
	case "esc":
		if m.focus == focusTemp {
			m.focus = focusWeight
			m.tempInput.Blur()
			m.weightInput.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusWeight:
		m.weightInput, cmd = m.weightInput.Update(msg)
	case focusTemp:
		m.tempInput, cmd = m.tempInput.Update(msg)
	}
	return m, cmd
}

func (m *appModel) cycleEntryFocus() {
	m.weightInput.Blur()
	m.tempInput.Blur()
	switch m.focus {
	case focusWeight:
		m.focus = focusPicker
		m.picker.Open()
	case focusPicker:
		m.picker.Close()
		if m.session.NeedsTemperature() {
			m.focus = focusTemp
			m.tempInput.Focus()
		} else {
			m.focus = focusWeight
			m.weightInput.Focus()
		}
	default:
		m.focus = focusWeight
		m.weightInput.Focus()
	}
}

func (m *appModel) logWeight() {
	raw := strings.TrimSpace(m.weightInput.Value())
	w, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		m.showNotice("Invalid weight", "Please enter a valid weight.")
		return
	}
	if err := m.session.LogWeight(m.session.Selected, w); err != nil {
		m.showError(err)
		return
	}
	m.weightInput.SetValue("")
}

func (m appModel) beginSubmit() (tea.Model, tea.Cmd) {
	d, err := m.session.Build(m.picker.Selected(), m.tempInput.Value(), time.Now())
	if err != nil {
		m.showError(err)
		return m, nil
	}
	m.pendingDonation = d
	m.openConfirm(confirmSubmit, "Finalize donation",
		fmt.Sprintf("Finalize this donation for %s?", d.DonorName))
	return m, nil
}

// resolveAddRequest handles the picker's add-new row: an identity that
// already exists (race with another view, or a case-only difference) selects
// the existing donor; otherwise the operator confirms the creation.
func (m *appModel) resolveAddRequest(name string) {
	if idx, ok := m.db.FindDonor(model.NormalizeDonor(name)); ok {
		m.picker.Select(m.db.Donors[idx])
		m.focus = focusWeight
		m.weightInput.Focus()
		return
	}
	m.pendingName = name
	m.openConfirm(confirmAddDonor, "Add donor", fmt.Sprintf("Add %q as a new donor?", name))
}

// --- donors view ---

func (m appModel) updateDonors(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.shutdownWatcher()
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewEntry
		return m, nil
	case "a":
		m.promptRename = false
		m.promptInput.SetValue("")
		m.promptInput.Focus()
		m.modal = modalPrompt
		return m, nil
	case "e", "enter":
		if it, ok := m.donorsList.SelectedItem().(donorItem); ok {
			m.promptRename = true
			m.promptOld = it.name
			m.promptInput.SetValue(it.name)
			m.promptInput.CursorEnd()
			m.promptInput.Focus()
			m.modal = modalPrompt
		}
		return m, nil
	case "x", "delete":
		if it, ok := m.donorsList.SelectedItem().(donorItem); ok {
			m.pendingName = it.name
			m.openConfirm(confirmDeleteDonor, "Delete donor", fmt.Sprintf("Delete donor %q?", it.name))
		}
		return m, nil
	case "f":
		if it, ok := m.donorsList.SelectedItem().(donorItem); ok {
			if err := m.directory.ToggleFavorite(it.name); err != nil {
				m.showError(err)
				return m, nil
			}
			_ = m.reloadFromDisk()
		}
		return m, nil
	case "p":
		if err := m.store.SaveFavoritesPinned(!m.db.FavoritesPinned); err != nil {
			m.showError(err)
			return m, nil
		}
		_ = m.reloadFromDisk()
		return m, nil
	case "o":
		if err := m.store.SaveSortMode(nextSortMode(m.db.SortMode)); err != nil {
			m.showError(err)
			return m, nil
		}
		_ = m.reloadFromDisk()
		return m, nil
	}

	var cmd tea.Cmd
	m.donorsList, cmd = m.donorsList.Update(msg)
	return m, cmd
}

func nextSortMode(mode model.SortMode) model.SortMode {
	switch mode {
	case model.SortInsertionDesc:
		return model.SortInsertionAsc
	case model.SortInsertionAsc:
		return model.SortAlphaAsc
	case model.SortAlphaAsc:
		return model.SortAlphaDesc
	default:
		return model.SortInsertionDesc
	}
}

// --- donations view ---

func (m appModel) updateDonations(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.shutdownWatcher()
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewEntry
		return m, nil
	case "o":
		if m.donationsDir == donations.Descending {
			m.donationsDir = donations.Ascending
		} else {
			m.donationsDir = donations.Descending
		}
		m.refreshDonations()
		return m, nil
	case "x", "delete":
		if it, ok := m.donationsList.SelectedItem().(donationItem); ok {
			m.pendingName = it.d.ID
			m.openConfirm(confirmDeleteDonation, "Delete donation",
				"Are you sure you want to delete this donation?")
		}
		return m, nil
	case "p", "enter":
		if it, ok := m.donationsList.SelectedItem().(donationItem); ok {
			m.stageReceipt(it.d)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.donationsList, cmd = m.donationsList.Update(msg)
	return m, cmd
}

func (m *appModel) stageReceipt(d model.Donation) {
	id, err := m.store.PutReceipt(d)
	if err != nil {
		var unavailable store.StorageUnavailableError
		if errors.As(err, &unavailable) {
			m.showNotice("Receipt", "Unable to prepare receipt data (storage unavailable).")
			return
		}
		m.showError(err)
		return
	}
	body := receipt.Render(d, 48, true) +
		"\n" + styleMuted().Render("print with: pantry receipt "+id)
	m.showNotice("Receipt", body)
}

// --- modals ---

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalNotice:
		switch msg.String() {
		case "enter", "esc":
			m.modal = modalNone
		}
		return m, nil

	case modalConfirm:
		switch msg.String() {
		case "tab", "left", "right":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
			return m, nil
		case "esc":
			m.cancelConfirm()
			return m, nil
		case "enter":
			if m.confirmFocus == confirmFocusCancel {
				m.cancelConfirm()
				return m, nil
			}
			return m.applyConfirm()
		}
		return m, nil

	case modalPrompt:
		switch msg.String() {
		case "esc":
			m.modal = modalNone
			m.promptInput.Blur()
			return m, nil
		case "enter":
			name := m.promptInput.Value()
			m.modal = modalNone
			m.promptInput.Blur()
			var err error
			if m.promptRename {
				err = m.directory.Rename(m.promptOld, name)
			} else {
				_, err = m.directory.Add(name)
			}
			if err != nil {
				m.showError(err)
				return m, nil
			}
			_ = m.reloadFromDisk()
			return m, nil
		}
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) openConfirm(what confirmAction, title, body string) {
	m.modal = modalConfirm
	m.confirmWhat = what
	m.confirmTitle = title
	m.confirmBody = body
	m.confirmFocus = confirmFocusConfirm
	m.picker.Suppress()
}

func (m *appModel) cancelConfirm() {
	what := m.confirmWhat
	m.modal = modalNone
	m.confirmWhat = confirmNothing
	switch what {
	case confirmAddDonor:
		// Declining leaves the combobox open with the typed text intact.
		m.focus = focusPicker
		m.picker.suppressUntil = time.Time{}
		m.picker.Open()
	case confirmPrintReceipt:
		// The donation is already saved; declining the receipt still
		// completes the submission.
		m.finishSubmit()
	}
}

func (m appModel) applyConfirm() (tea.Model, tea.Cmd) {
	what := m.confirmWhat
	m.modal = modalNone
	m.confirmWhat = confirmNothing

	switch what {
	case confirmRestart:
		m.session.Restart()
		m.session.Selected = model.CategoryProduce
		m.catIndex = 0
		m.weightInput.SetValue("")
		m.tempInput.SetValue("")
		m.picker.Clear()
		m.picker.Close()
		m.focus = focusWeight
		m.weightInput.Focus()
		return m, nil

	case confirmSubmit:
		if err := m.register.Append(m.pendingDonation); err != nil {
			m.showError(err)
			return m, nil
		}
		_ = m.reloadFromDisk()
		m.openConfirm(confirmPrintReceipt, "Print receipt", "Would you like to print a receipt?")
		return m, nil

	case confirmPrintReceipt:
		d := m.pendingDonation
		m.finishSubmit()
		m.stageReceipt(d)
		return m, nil

	case confirmAddDonor:
		name, err := m.directory.Add(m.pendingName)
		if err != nil {
			var dup donordir.DuplicateDonorError
			if errors.As(err, &dup) {
				// Race with another view: select the existing donor.
				_ = m.reloadFromDisk()
				if idx, ok := m.db.FindDonor(model.NormalizeDonor(m.pendingName)); ok {
					m.picker.Select(m.db.Donors[idx])
					m.focus = focusWeight
					m.weightInput.Focus()
				}
				return m, nil
			}
			m.showError(err)
			return m, nil
		}
		_ = m.reloadFromDisk()
		m.picker.Select(name)
		m.focus = focusWeight
		m.weightInput.Focus()
		return m, nil

	case confirmDeleteDonor:
		if err := m.directory.Remove(m.pendingName); err != nil {
			m.showError(err)
			return m, nil
		}
		_ = m.reloadFromDisk()
		return m, nil

	case confirmDeleteDonation:
		if err := m.register.DeleteByID(m.pendingName); err != nil {
			m.showError(err)
			return m, nil
		}
		_ = m.reloadFromDisk()
		return m, nil
	}
	return m, nil
}

// finishSubmit resets entry state after a finalized donation and lands on
// the donations view, matching the legacy flow.
func (m *appModel) finishSubmit() {
	m.session.Restart()
	m.session.Selected = model.CategoryProduce
	m.catIndex = 0
	m.weightInput.SetValue("")
	m.tempInput.SetValue("")
	m.picker.Clear()
	m.picker.Close()
	m.focus = focusWeight
	m.weightInput.Focus()
	m.view = viewDonations
	m.refreshDonations()
}

func (m *appModel) showNotice(title, body string) {
	m.modal = modalNotice
	m.noticeTitle = title
	m.noticeBody = body
}

func (m *appModel) showError(err error) {
	m.showNotice("Error", err.Error())
}

// --- refresh / reload ---

func (m *appModel) refreshAll() {
	m.refreshPicker()
	m.refreshDonors()
	m.refreshDonations()
}

func (m *appModel) refreshPicker() {
	order := donordir.DisplayOrder(m.db.Donors, m.db.SortMode, m.db.FavoriteSet(), m.db.FavoritesPinned)
	m.picker.SetOptions(order)
}

func (m *appModel) refreshDonors() {
	curName := ""
	if it, ok := m.donorsList.SelectedItem().(donorItem); ok {
		curName = it.name
	}
	favorites := m.db.FavoriteSet()
	order := donordir.DisplayOrder(m.db.Donors, m.db.SortMode, favorites, m.db.FavoritesPinned)
	items := make([]list.Item, 0, len(order))
	for _, name := range order {
		items = append(items, donorItem{name: name, favorite: favorites[model.NormalizeDonor(name)]})
	}
	m.donorsList.SetItems(items)
	if curName != "" {
		selectDonorByName(&m.donorsList, curName)
	}
}

func (m *appModel) refreshDonations() {
	curID := ""
	if it, ok := m.donationsList.SelectedItem().(donationItem); ok {
		curID = it.d.ID
	}
	sorted := donations.Sorted(m.db.Donations, m.donationsDir)
	items := make([]list.Item, 0, len(sorted))
	for _, d := range sorted {
		items = append(items, donationItem{d: d})
	}
	m.donationsList.SetItems(items)
	if curID != "" {
		selectDonationByID(&m.donationsList, curID)
	}
}

func (m *appModel) reloadFromDisk() error {
	db, err := m.store.Load()
	if err != nil {
		return err
	}
	m.db = db
	m.captureStoreModTime()
	m.refreshAll()
	return nil
}

func (m *appModel) captureStoreModTime() {
	m.lastStoreModTime = fileModTime(m.store.SQLitePath())
}

func (m *appModel) storeChanged() bool {
	return fileModTime(m.store.SQLitePath()).After(m.lastStoreModTime)
}

func fileModTime(path string) time.Time {
	st, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return st.ModTime()
}

func (m *appModel) shutdownWatcher() {
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
}

func (m *appModel) resizeLists() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.donorsList.SetSize(w, h)
	m.donationsList.SetSize(w, h)
}

func selectDonorByName(l *list.Model, name string) {
	for i, it := range l.Items() {
		if d, ok := it.(donorItem); ok && d.name == name {
			l.Select(i)
			return
		}
	}
}

func selectDonationByID(l *list.Model, id string) {
	for i, it := range l.Items() {
		if d, ok := it.(donationItem); ok && d.d.ID == id {
			l.Select(i)
			return
		}
	}
}

// --- view ---

func (m appModel) View() string {
	header := styleHeader().Render("Pantry Intake  Dir=" + m.dir)

	var body string
	switch m.modal {
	case modalConfirm:
		body = renderConfirmModal(m.width, m.confirmTitle, m.confirmBody, "Yes", "No", m.confirmFocus)
	case modalNotice:
		body = renderNoticeModal(m.width, m.noticeTitle, m.noticeBody)
	case modalPrompt:
		title := "Add donor"
		if m.promptRename {
			title = "Rename donor"
		}
		body = renderModalBox(m.width, title, m.promptInput.View()+"\n\n"+styleMuted().Render("enter: save   esc: cancel"))
	default:
		switch m.view {
		case viewEntry:
			body = m.viewEntry()
		case viewDonors:
			body = m.viewDonors()
		case viewDonations:
			body = m.viewDonations()
		}
	}

	footer := styleMuted().Render(m.footerHelp())
	return strings.Join([]string{header, body, footer}, "\n\n")
}

func (m appModel) footerHelp() string {
	if m.modal != modalNone {
		return ""
	}
	switch m.view {
	case viewEntry:
		return "enter: log weight  ←/→: category  tab: focus  ctrl+z: undo  ctrl+x: clear  ctrl+r: restart  ctrl+s: submit  ctrl+d: donors  ctrl+l: donations  ctrl+c: quit"
	case viewDonors:
		return "a: add  e: rename  x: delete  f: favorite  p: pin favorites  o: sort  esc: back  q: quit"
	default:
		return "o: order  x: delete  p: receipt  esc: back  q: quit"
	}
}

func (m appModel) viewEntry() string {
	var b strings.Builder

	b.WriteString(m.picker.View(m.width-4, m.db.FavoriteSet()))
	b.WriteString("\n\n")

	// Category selector row.
	var cats []string
	for i, c := range model.Categories() {
		st := lipgloss.NewStyle().Padding(0, 1)
		if i == m.catIndex {
			st = st.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
		}
		cats = append(cats, st.Render(string(c)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cats...))
	b.WriteString("\n\n")

	b.WriteString(styleHeader().Render("Weight (lbs): "))
	b.WriteString(m.weightInput.View())
	if m.session.NeedsTemperature() {
		b.WriteString("    ")
		b.WriteString(styleHeader().Render("Temp (F): "))
		b.WriteString(m.tempInput.View())
	}
	b.WriteString("\n\n")

	b.WriteString(styleHeader().Render("Totals") + "\n")
	for _, c := range model.Categories() {
		line := fmt.Sprintf("  %-13s %8s", c, donations.FormatWeight(m.session.Total(c)))
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m appModel) viewDonors() string {
	status := fmt.Sprintf("sort: %s   favorites pinned: %v", m.db.SortMode, m.db.FavoritesPinned)
	return m.donorsList.View() + "\n" + styleMuted().Render(status)
}

func (m appModel) viewDonations() string {
	status := fmt.Sprintf("order: %s   records: %d", m.donationsDir, len(m.db.Donations))
	return m.donationsList.View() + "\n" + styleMuted().Render(status)
}
