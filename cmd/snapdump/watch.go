package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	telemdec "github.com/hwtelem/telemdec"
	"github.com/hwtelem/telemdec/decoding"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const refreshInterval = time.Second

type tickMsg time.Time

type watchModel struct {
	eng     *decoding.Engine
	dir     string
	guids   []telemdec.Guid
	table   table.Model
	err     error
	updated time.Time
}

func newWatchModel(eng *decoding.Engine, dir string, guids []telemdec.Guid) watchModel {
	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "Device", Width: 10},
			{Title: "Group", Width: 14},
			{Title: "Sample", Width: 24},
			{Title: "Kind", Width: 9},
			{Title: "Value", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	return watchModel{eng: eng, dir: dir, guids: guids, table: tbl}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case tickMsg:
		rows, err := decodeRows(m.eng, m.dir, m.guids)
		m.err = err
		if err == nil {
			m.table.SetRows(rows)
			m.updated = time.Time(msg)
		}
		return m, tick()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	s := titleStyle.Render("snapdump") + " " + m.dir + "\n\n"
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n"
	}
	s += m.table.View() + "\n\n"
	if m.updated.IsZero() {
		s += helpStyle.Render("waiting for first snapshot • q quit")
	} else {
		s += helpStyle.Render(fmt.Sprintf("updated %s • ↑/↓ scroll • q quit", m.updated.Format("15:04:05")))
	}
	return s
}

// decodeRows reads the current snapshot files and decodes them into table
// rows. A partially written snapshot surfaces as an error for this tick and
// the previous rows stay on screen.
func decodeRows(eng *decoding.Engine, dir string, guids []telemdec.Guid) ([]table.Row, error) {
	snap, err := readSnapshot(dir, guids)
	if err != nil {
		return nil, err
	}
	res, err := eng.Decode(snap)
	if err != nil {
		return nil, err
	}

	rows := make([]table.Row, 0, len(res.Metadata))
	for i, meta := range res.Metadata {
		rows = append(rows, table.Row{
			meta.Device.String(),
			meta.Group,
			meta.Name,
			meta.Kind.String(),
			formatValue(meta.Kind, res.Values[i]),
		})
	}
	return rows, nil
}

func runWatch(eng *decoding.Engine, dir string, guids []telemdec.Guid) error {
	p := tea.NewProgram(newWatchModel(eng, dir, guids), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
