package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/manager"
	"github.com/lvkit/lv-runtime/memory"
	"github.com/lvkit/lv-runtime/simhost"
	"github.com/lvkit/lv-runtime/types"
)

var (
	tableStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

const traceTail = 12

type inspectorModel struct {
	host    *simhost.Manager
	trace   *manager.Trace
	handles map[int]*memory.Handle[byte]
	nextID  int
	input   textinput.Model
	status  string
	failed  bool
}

func runInteractive(maxPages uint32) error {
	ctx := context.Background()

	host, err := simhost.NewWithConfig(ctx, &simhost.Config{MaxPages: maxPages})
	if err != nil {
		return err
	}
	defer host.Close(ctx)

	input := textinput.New()
	input.Placeholder = "alloc 16"
	input.Focus()

	m := &inspectorModel{
		host:    host,
		trace:   manager.NewTrace(host),
		handles: make(map[int]*memory.Handle[byte]),
		nextID:  1,
		input:   input,
	}

	_, err = tea.NewProgram(m).Run()
	return err
}

func (m *inspectorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			for _, h := range m.handles {
				h.Close()
			}
			return m, tea.Quit

		case "enter":
			m.execute(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *inspectorModel) execute(line string) {
	m.failed = false
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	var err error
	switch fields[0] {
	case "alloc":
		err = m.cmdAlloc(fields[1:])
	case "resize":
		err = m.cmdResize(fields[1:])
	case "write":
		err = m.cmdWrite(fields[1:])
	case "read":
		err = m.cmdRead(fields[1:])
	case "free":
		err = m.cmdFree(fields[1:])
	case "quit", "q":
		m.status = "ctrl+c to quit"
		return
	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if err != nil {
		m.status = err.Error()
		m.failed = true
	}
}

func (m *inspectorModel) cmdAlloc(args []string) error {
	n, err := argInt(args, 0, "byte count")
	if err != nil {
		return err
	}
	h, err := memory.Allocate[byte](m.trace, n)
	if err != nil {
		return err
	}
	id := m.nextID
	m.nextID++
	m.handles[id] = h
	m.status = fmt.Sprintf("#%d allocated (%d bytes)", id, n)
	return nil
}

func (m *inspectorModel) cmdResize(args []string) error {
	h, id, err := m.argHandle(args)
	if err != nil {
		return err
	}
	n, err := argInt(args, 1, "byte count")
	if err != nil {
		return err
	}
	if err := h.Resize(n); err != nil {
		return err
	}
	m.status = fmt.Sprintf("#%d resized to %d bytes", id, n)
	return nil
}

func (m *inspectorModel) cmdWrite(args []string) error {
	h, id, err := m.argHandle(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("write <id> <text>")
	}
	data := []byte(strings.Join(args[1:], " "))

	view, err := h.Lock()
	if err != nil {
		return err
	}
	defer view.Unlock()
	n := copy(view.Slice(), data)
	m.status = fmt.Sprintf("#%d wrote %d bytes", id, n)
	return nil
}

func (m *inspectorModel) cmdRead(args []string) error {
	h, id, err := m.argHandle(args)
	if err != nil {
		return err
	}
	view, err := h.Lock()
	if err != nil {
		return err
	}
	defer view.Unlock()
	m.status = fmt.Sprintf("#%d: %q", id, string(view.Slice()))
	return nil
}

func (m *inspectorModel) cmdFree(args []string) error {
	h, id, err := m.argHandle(args)
	if err != nil {
		return err
	}
	h.Close()
	delete(m.handles, id)
	m.status = fmt.Sprintf("#%d disposed", id)
	return nil
}

func (m *inspectorModel) argHandle(args []string) (*memory.Handle[byte], int, error) {
	id, err := argInt(args, 0, "handle id")
	if err != nil {
		return nil, 0, err
	}
	h, ok := m.handles[id]
	if !ok {
		return nil, 0, fmt.Errorf("no handle #%d", id)
	}
	return h, id, nil
}

func argInt(args []string, i int, what string) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing %s", what)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad %s %q", what, args[i])
	}
	return n, nil
}

func (m *inspectorModel) View() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("simulated host inspector"))
	b.WriteString("\n\n")

	ids := make([]int, 0, len(m.handles))
	for id := range m.handles {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	if len(ids) == 0 {
		b.WriteString(helpStyle.Render("no live handles"))
		b.WriteByte('\n')
	}
	for _, id := range ids {
		h := m.handles[id]
		b.WriteString(tableStyle.Render(fmt.Sprintf("#%-3d raw=%-4d len=%d bytes", id, h.Raw(), h.Len())))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(promptStyle.Render(fmt.Sprintf("host: %d blocks, %d refs",
		m.host.ActiveHandles(), m.host.ActiveRefs())))
	b.WriteByte('\n')

	calls := m.trace.Calls()
	if len(calls) > traceTail {
		calls = calls[len(calls)-traceTail:]
	}
	for _, c := range calls {
		line := fmt.Sprintf("%-14s handle=%-4d size=%-6d %s",
			c.Op, c.Handle, c.Size, types.StatusString(c.Status))
		if c.Status == lvruntime.MgNoErr {
			b.WriteString(helpStyle.Render(line))
		} else {
			b.WriteString(errStyle.Render(line))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.status != "" {
		if m.failed {
			b.WriteString(errStyle.Render(m.status))
		} else {
			b.WriteString(promptStyle.Render(m.status))
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("commands: alloc <n> | resize <id> <n> | write <id> <text> | read <id> | free <id> | ctrl+c quits"))
	b.WriteByte('\n')
	return b.String()
}
