package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kinetools/linkrate/pkg/errors"
	"github.com/kinetools/linkrate/pkg/kinematics"
)

func TestWatchModelQuitKeys(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c", "esc"} {
		m := watchModel{path: "rig.yaml"}
		var msg tea.KeyMsg
		switch key {
		case "q":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}

		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("key %s: cmd = nil, want tea.Quit", key)
		}
	}
}

func TestWatchModelView(t *testing.T) {
	m := watchModel{path: "rig.yaml"}

	view := m.View()
	if !strings.Contains(view, "waiting for first solve") {
		t.Errorf("initial view missing placeholder: %q", view)
	}

	travel := 50.0
	updated, _ := m.Update(solvedMsg{
		at: time.Now(),
		sweep: &sweep{
			loaded: mustLoad(t),
			unit:   "mm",
			result: &kinematics.Result{
				RearAxlePointID: "axle",
				Steps: []kinematics.Step{
					{Index: 0, ShockStroke: 0},
					{Index: 1, ShockStroke: 50, RearTravel: &travel},
				},
			},
		},
	})
	view = updated.View()
	if !strings.Contains(view, "rear travel") || !strings.Contains(view, "mm") {
		t.Errorf("solved view missing metrics: %q", view)
	}

	failed, _ := m.Update(failedMsg{
		err: errors.New(errors.ErrCodeNoShock, "no shock body found"),
		at:  time.Now(),
	})
	view = failed.View()
	if !strings.Contains(view, "no shock body found") || !strings.Contains(view, string(errors.ErrCodeNoShock)) {
		t.Errorf("error view missing failure detail: %q", view)
	}
}

func mustLoad(t *testing.T) *loaded {
	t.Helper()
	l, err := loadModel(writeDef(t, calibratedDef))
	if err != nil {
		t.Fatal(err)
	}
	return l
}
