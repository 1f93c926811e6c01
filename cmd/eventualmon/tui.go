package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/edgeandnode/eventuals"
	"github.com/edgeandnode/eventuals/monitor"
)

// frameMsg carries one throttled dashboard frame from the pipeline.
type frameMsg struct {
	frame monitor.Frame
}

// feedClosedMsg signals that the pipeline finalized underneath the
// dashboard.
type feedClosedMsg struct{}

// model is the bubbletea model displaying the latest pipeline frame.
type model struct {
	reader  *eventuals.Reader[monitor.Frame]
	ctx     context.Context
	cancel  context.CancelFunc
	current monitor.Frame
	started time.Time
	frames  int
	cols    int
	rows    int
	have    bool
}

func newModel(pipeline *monitor.Pipeline, cols, rows int) *model {
	ctx, cancel := context.WithCancel(context.Background())

	return &model{
		reader:  pipeline.Frames.Subscribe(),
		ctx:     ctx,
		cancel:  cancel,
		started: time.Now(),
		cols:    cols,
		rows:    rows,
	}
}

// Init starts the frame feed.
func (m *model) Init() tea.Cmd {
	return m.readFrame()
}

// readFrame waits for the next frame the pipeline lets through. Only one
// read is ever in flight; each delivery re-arms the next.
func (m *model) readFrame() tea.Cmd {
	return func() tea.Msg {
		f, err := m.reader.Next(m.ctx)
		if err != nil {
			return feedClosedMsg{}
		}

		return frameMsg{frame: f}
	}
}

// Update handles frames, feed shutdown, resize, and quit.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// Cancelling unblocks the in-flight read. The reader itself
			// is not closed, so it stays subscribed to the frame feed
			// until the process exits.
			m.cancel()

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.cols = msg.Width
		m.rows = msg.Height

	case frameMsg:
		m.current = msg.frame
		m.have = true
		m.frames++

		return m, m.readFrame()

	case feedClosedMsg:
		m.cancel()

		return m, tea.Quit
	}

	return m, nil
}

// View renders the latest frame as a small stat panel.
func (m *model) View() tea.View {
	var sb strings.Builder

	sb.WriteString("eventualmon - Go runtime dashboard\n\n")

	if !m.have {
		sb.WriteString("waiting for the first frame...\n")
	} else {
		fmt.Fprintf(&sb, "  heap alloc    %s\n", formatBytes(m.current.Mem.HeapAlloc))
		fmt.Fprintf(&sb, "  heap objects  %d\n", m.current.Mem.HeapObjects)
		fmt.Fprintf(&sb, "  gc cycles     %d\n", m.current.Mem.GCCycles)
		fmt.Fprintf(&sb, "  goroutines    %d\n", m.current.Sched.Goroutines)
		fmt.Fprintf(&sb, "  cpus          %d\n", m.current.Sched.CPUs)
	}

	fmt.Fprintf(&sb, "\n  frames %d, up %s, q to quit\n",
		m.frames, time.Since(m.started).Round(time.Second))

	v := tea.NewView(sb.String())
	v.AltScreen = true

	return v
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
