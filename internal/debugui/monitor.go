// Package debugui implements an optional tcell-based live dashboard:
// while it runs it owns the terminal, rendering the hart's registers
// and CSRs in one pane and the guest's UART console in another, and
// feeding key presses to the UART as input bytes in place of raw
// stdin.
package debugui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"rv64emu/internal/emu"
)

// cpuView is the subset of *emu.Cpu the monitor needs to render a
// frame; declared as an interface so any type with these methods can be
// attached.
type cpuView interface {
	PC() uint64
	Mode() emu.Privilege
	Reg(n int) int64
	Csr(addr uint16) uint64
}

var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Monitor owns the tcell screen, the key-to-byte pipe the UART reads
// from, and the scrollback of bytes the guest has written to its
// console.
type Monitor struct {
	screen tcell.Screen

	keyR *io.PipeReader
	keyW *io.PipeWriter

	mu      sync.Mutex
	console []byte

	cpu  cpuView
	done chan struct{}
}

func New() (*Monitor, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.Clear()

	keyR, keyW := io.Pipe()
	m := &Monitor{
		screen: screen,
		keyR:   keyR,
		keyW:   keyW,
		done:   make(chan struct{}),
	}
	go m.pollKeys()
	go m.redrawLoop()
	return m, nil
}

// Attach begins rendering cpu's register/CSR state every frame.
func (m *Monitor) Attach(cpu cpuView) {
	m.mu.Lock()
	m.cpu = cpu
	m.mu.Unlock()
}

// KeyReader returns an io.Reader that yields one byte per rune, Enter,
// Backspace or Tab key event, for the UART's receiver goroutine to
// consume.
func (m *Monitor) KeyReader() io.Reader { return m.keyR }

// OutputWriter returns an io.Writer that appends to the console pane
// instead of the real stdout, for the UART's THR sink.
func (m *Monitor) OutputWriter() io.Writer { return consoleWriter{m} }

type consoleWriter struct{ m *Monitor }

func (w consoleWriter) Write(p []byte) (int, error) {
	w.m.mu.Lock()
	w.m.console = append(w.m.console, p...)
	if len(w.m.console) > 4096 {
		w.m.console = w.m.console[len(w.m.console)-4096:]
	}
	w.m.mu.Unlock()
	return len(p), nil
}

func (m *Monitor) pollKeys() {
	for {
		ev := m.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				close(m.done)
				return
			}
			if b := keyToByte(ev); b >= 0 {
				m.keyW.Write([]byte{byte(b)})
			}
		case *tcell.EventResize:
			m.screen.Sync()
		}
	}
}

func keyToByte(ev *tcell.EventKey) int {
	switch ev.Key() {
	case tcell.KeyEnter:
		return '\r'
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return 0x7f
	case tcell.KeyTab:
		return '\t'
	case tcell.KeyRune:
		return int(ev.Rune())
	default:
		return -1
	}
}

func (m *Monitor) redrawLoop() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.draw()
		}
	}
}

func (m *Monitor) draw() {
	m.mu.Lock()
	cpu := m.cpu
	console := append([]byte(nil), m.console...)
	m.mu.Unlock()

	m.screen.Clear()
	style := tcell.StyleDefault

	row := 0
	emit := func(s string) {
		for i, r := range s {
			m.screen.SetContent(i, row, r, nil, style)
		}
		row++
	}

	if cpu != nil {
		emit(fmt.Sprintf("pc=%#016x mode=%d", cpu.PC(), cpu.Mode()))
		for i := 0; i < 32; i += 4 {
			emit(fmt.Sprintf("%-4s=%016x  %-4s=%016x  %-4s=%016x  %-4s=%016x",
				regNames[i], uint64(cpu.Reg(i)),
				regNames[i+1], uint64(cpu.Reg(i+1)),
				regNames[i+2], uint64(cpu.Reg(i+2)),
				regNames[i+3], uint64(cpu.Reg(i+3))))
		}
		emit(fmt.Sprintf("mstatus=%#016x mcause=%#016x mepc=%#016x", cpu.Csr(emu.Mstatus), cpu.Csr(emu.Mcause), cpu.Csr(emu.Mepc)))
	} else {
		emit("(no cpu attached)")
	}

	row++
	emit("--- console ---")
	for _, line := range splitLines(console) {
		emit(line)
		row++
	}

	m.screen.Show()
}

func splitLines(b []byte) []string {
	var lines []string
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, string(b[start:i]))
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, string(b[start:]))
	}
	return lines
}

// Close shuts down the key-poll and redraw goroutines and restores the
// terminal to its prior state.
func (m *Monitor) Close() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.keyW.Close()
	m.screen.Fini()
}
