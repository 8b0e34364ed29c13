package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"voicenote/recorder"
)

// TUI message types
type RecordingStartMsg struct{ Device string }
type RecordingFailedMsg struct{ Err error }
type RecordingPausedMsg struct{}
type RecordingResumedMsg struct{}
type RecordingStopMsg struct{ Elapsed int }
type TranscriptMsg struct{ Text string }
type TranscriptErrMsg struct{ Err error }
type TimerTickMsg struct{ Elapsed int }
type AudioLevelMsg struct{ Level float64 }
type ToastMsg struct{ Text string }
type frameMsg time.Time

const toastDuration = 3 * time.Second

var (
	tuiProgram   *tea.Program
	tuiMu        sync.Mutex
	tuiReady     = make(chan struct{})
	tuiReadyOnce sync.Once
)

var (
	styleIdle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleRecording  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	stylePaused     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	styleStopped    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	styleTimer      = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	styleTimerDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDevice     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleToast      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleToastErr   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleTranscript = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleHelp       = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleHelpKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
	styleMeterLow   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleMeterMid   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleMeterHigh  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleMeterOff   = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

type tuiModel struct {
	commands chan<- command

	state      recorder.State
	elapsed    int
	level      float64
	device     string
	transcript string
	errLine    string
	toast      string
	toastErr   bool
	toastUntil time.Time
	pending    bool // stopped, transcript not in yet
	width      int
	height     int
}

func NewTUIProgram(commands chan<- command) *tea.Program {
	m := tuiModel{commands: commands}
	return tea.NewProgram(m, tea.WithAltScreen())
}

func frameTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	tuiReadyOnce.Do(func() { close(tuiReady) })
	return frameTick()
}

func (m tuiModel) push(c command) {
	select {
	case m.commands <- c:
	default:
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.push(cmdStart)
		case " ", "space":
			m.push(cmdPauseResume)
		case "s":
			m.push(cmdStop)
		case "n":
			m.push(cmdReset)
		case "w":
			m.push(cmdSave)
		case "c":
			m.push(cmdCopy)
		}

	case frameMsg:
		if m.toast != "" && time.Now().After(m.toastUntil) {
			m.toast = ""
		}
		return m, frameTick()

	case RecordingStartMsg:
		m.state = recorder.Recording
		m.elapsed = 0
		m.level = 0
		m.device = msg.Device
		m.transcript = ""
		m.errLine = ""
		m.pending = false

	case RecordingFailedMsg:
		m.state = recorder.Idle
		m.errLine = "recording failed: " + msg.Err.Error()

	case RecordingPausedMsg:
		m.state = recorder.Paused
		m.level = 0

	case RecordingResumedMsg:
		m.state = recorder.Recording

	case RecordingStopMsg:
		m.state = recorder.Stopped
		m.elapsed = msg.Elapsed
		m.level = 0
		m.pending = true

	case TranscriptMsg:
		m.transcript = msg.Text
		m.pending = false

	case TranscriptErrMsg:
		m.errLine = "transcription failed: " + msg.Err.Error()
		m.pending = false

	case TimerTickMsg:
		m.elapsed = msg.Elapsed

	case AudioLevelMsg:
		if m.state == recorder.Recording {
			m.level = m.level*0.6 + msg.Level*0.4
		}

	case ToastMsg:
		m.toast = msg.Text
		m.toastErr = strings.HasPrefix(msg.Text, "error")
		m.toastUntil = time.Now().Add(toastDuration)
	}
	return m, nil
}

func (m tuiModel) statusLine() string {
	switch m.state {
	case recorder.Recording:
		return styleRecording.Render("● REC")
	case recorder.Paused:
		return stylePaused.Render("⏸ PAUSED")
	case recorder.Stopped:
		if m.pending {
			return styleStopped.Render("■ STOPPED") + styleIdle.Render(" transcribing...")
		}
		return styleStopped.Render("■ STOPPED")
	}
	return styleIdle.Render("○ IDLE")
}

func (m tuiModel) timerLine() string {
	text := recorder.FormatDuration(m.elapsed)
	if m.state == recorder.Recording {
		return styleTimer.Render(text)
	}
	return styleTimerDim.Render(text)
}

func renderMeter(level float64, width int) string {
	if width < 4 {
		width = 4
	}
	filled := int(level * 3 * float64(width))
	if filled > width {
		filled = width
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i >= filled {
			b.WriteString(styleMeterOff.Render("░"))
			continue
		}
		pos := float64(i) / float64(width)
		switch {
		case pos < 0.6:
			b.WriteString(styleMeterLow.Render("█"))
		case pos < 0.85:
			b.WriteString(styleMeterMid.Render("█"))
		default:
			b.WriteString(styleMeterHigh.Render("█"))
		}
	}
	return b.String()
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var lines []string
	lines = append(lines, "")
	lines = append(lines, " "+m.statusLine()+"  "+m.timerLine())
	lines = append(lines, "")

	meterWidth := m.width - 4
	if meterWidth > 40 {
		meterWidth = 40
	}
	lines = append(lines, " "+renderMeter(m.level, meterWidth))
	lines = append(lines, "")

	if m.device != "" {
		lines = append(lines, " "+styleDevice.Render("mic: "+m.device))
	}

	if m.errLine != "" {
		lines = append(lines, " "+styleToastErr.Render(m.errLine))
	}

	if m.toast != "" {
		style := styleToast
		if m.toastErr {
			style = styleToastErr
		}
		lines = append(lines, " "+style.Render(m.toast))
	}

	lines = append(lines, "")
	wrapWidth := m.width - 4
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	if m.transcript != "" {
		for _, line := range wrapText(m.transcript, wrapWidth) {
			lines = append(lines, " "+styleTranscript.Render(line))
		}
	} else if m.state == recorder.Stopped && m.pending {
		lines = append(lines, " "+styleIdle.Render("waiting for transcript..."))
	} else {
		lines = append(lines, " "+styleIdle.Render("no transcript yet"))
	}

	lines = append(lines, "")
	help := styleHelpKey.Render("r") + styleHelp.Render(" record  ") +
		styleHelpKey.Render("space") + styleHelp.Render(" pause  ") +
		styleHelpKey.Render("s") + styleHelp.Render(" stop  ") +
		styleHelpKey.Render("w") + styleHelp.Render(" save  ") +
		styleHelpKey.Render("c") + styleHelp.Render(" copy  ") +
		styleHelpKey.Render("n") + styleHelp.Render(" new  ") +
		styleHelpKey.Render("q") + styleHelp.Render(" quit")
	lines = append(lines, " "+help)
	lines = append(lines, " "+styleHelp.Render(fmt.Sprintf("voicenote %s", version)))

	out := strings.Join(lines, "\n")
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(out)
}

func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()

	if p != nil {
		p.Send(msg)
	}
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
