package cli

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/kinetools/linkrate/pkg/errors"
	"github.com/kinetools/linkrate/pkg/kinematics"
)

// watchOpts holds the command-line flags for the watch command.
type watchOpts struct {
	steps      int
	iterations int
	mm         bool
}

// newWatchCmd creates the watch command: a live view that re-solves the
// definition on every write, so a linkage can be tuned in an editor with
// the travel and leverage numbers updating alongside.
func newWatchCmd() *cobra.Command {
	opts := watchOpts{
		steps:      kinematics.DefaultSteps,
		iterations: kinematics.DefaultIterations,
	}

	cmd := &cobra.Command{
		Use:   "watch [file]",
		Short: "Re-solve a linkage whenever its definition changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.steps, "steps", opts.steps, "number of stroke increments")
	cmd.Flags().IntVar(&opts.iterations, "iterations", opts.iterations, "relaxation iterations per step")
	cmd.Flags().BoolVar(&opts.mm, "mm", true, "report in millimeters when the definition is calibrated")

	return cmd
}

// solvedMsg carries a completed sweep into the bubbletea model.
type solvedMsg struct {
	sweep *sweep
	at    time.Time
}

// failedMsg carries a load or validation failure into the model.
type failedMsg struct {
	err error
	at  time.Time
}

// watchModel is the bubbletea model for the live view.
type watchModel struct {
	path  string
	sweep *sweep
	err   error
	at    time.Time
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case solvedMsg:
		m.sweep = msg.sweep
		m.err = nil
		m.at = msg.at
	case failedMsg:
		m.err = msg.err
		m.at = msg.at
	}
	return m, nil
}

var (
	watchBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 2)
	watchErrStyle = lipgloss.NewStyle().Foreground(colorRed)
)

func (m watchModel) View() string {
	header := StyleTitle.Render("linkrate watch") + StyleDim.Render("  "+m.path)

	var body string
	switch {
	case m.err != nil:
		body = watchErrStyle.Render(iconError+" "+errors.UserMessage(m.err)) +
			"\n" + StyleDim.Render(string(errors.GetCode(m.err)))
	case m.sweep != nil:
		body = m.renderSweep()
	default:
		body = StyleDim.Render("waiting for first solve...")
	}

	footer := StyleDim.Render(fmt.Sprintf("updated %s · press q to quit", m.at.Format("15:04:05")))
	if m.at.IsZero() {
		footer = StyleDim.Render("press q to quit")
	}

	return header + "\n" + watchBoxStyle.Render(body) + "\n" + footer + "\n"
}

// renderSweep formats the headline numbers for the live view.
func (m watchModel) renderSweep() string {
	s := m.sweep
	res := s.result

	lines := []string{
		fmt.Sprintf("%-12s %d points, %d edges", "model", s.loaded.model.PointCount(), s.loaded.model.EdgeCount()),
		fmt.Sprintf("%-12s %s %s", "stroke",
			StyleNumber.Render(fmt.Sprintf("%.1f", res.Steps[len(res.Steps)-1].ShockStroke)), s.unit),
	}
	if travel, ok := res.TotalTravel(); ok {
		lines = append(lines, fmt.Sprintf("%-12s %s %s", "rear travel",
			StyleNumber.Render(fmt.Sprintf("%.1f", travel)), s.unit))
	}
	if first, last, ok := res.LeverageRange(); ok {
		lines = append(lines, fmt.Sprintf("%-12s %.2f %s %.2f", "leverage", first, iconArrow, last))
	}
	if prog, ok := res.Progression(); ok {
		lines = append(lines, fmt.Sprintf("%-12s %.1f%%", "progression", prog*100))
	}
	lines = append(lines, StyleDim.Render(fmt.Sprintf("%-12s %s", "solved in", s.elapsed.Round(time.Millisecond))))

	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

// runWatch drives the live view: an fsnotify watcher on the definition's
// directory feeds re-solve results into the bubbletea program. Watching
// the directory rather than the file keeps the watch alive across editors
// that replace the file on save.
func runWatch(cmd *cobra.Command, input string, opts *watchOpts) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(input), err)
	}

	p := tea.NewProgram(watchModel{path: input}, tea.WithContext(cmd.Context()))

	solve := func() tea.Msg {
		s, err := runSweep(input, kinematics.Options{Steps: opts.steps, Iterations: opts.iterations}, opts.mm)
		if err != nil {
			return failedMsg{err: err, at: time.Now()}
		}
		return solvedMsg{sweep: s, at: time.Now()}
	}

	go func() {
		p.Send(solve())

		// Editors often emit bursts of events per save; a short debounce
		// collapses them into one re-solve.
		var pending *time.Timer
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(input) {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(100*time.Millisecond, func() {
					p.Send(solve())
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.Send(failedMsg{err: err, at: time.Now()})
			}
		}
	}()

	_, err = p.Run()
	return err
}
