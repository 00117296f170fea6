package tui

import (
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// Cross-view refresh: a donor-management session and an entry session may
// run in separate processes over the same store. Instead of one view calling
// back into the other, both watch the persistence layer and reload when it
// changes. The mod-time poll tick stays as a fallback for filesystems where
// fsnotify delivers nothing.

type storeChangedMsg struct{}

type reloadTickMsg struct{}

func newStoreWatcher(dir string) (*fsnotify.Watcher, chan struct{}) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, nil
	}
	changes := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					close(changes)
					return
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				name := filepath.Base(ev.Name)
				if !strings.HasPrefix(name, "pantry.sqlite") {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					close(changes)
					return
				}
			}
		}
	}()
	return w, changes
}

func waitForStoreChange(changes chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func tickReload() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return reloadTickMsg{} })
}
