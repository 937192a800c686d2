// Command rvemu boots a raw RV64GC kernel image against an emulated
// virt-style machine: DRAM, CLINT, PLIC, a 16550 UART wired to the
// host terminal, and an optional virtio-block disk image.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"rv64emu/internal/debugui"
	"rv64emu/internal/emu"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rvemu:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rvemu", flag.ExitOnError)
	tracePath := fs.String("debug", "", "write a per-instruction trace to this file")
	monitor := fs.Bool("monitor", false, "show a live tcell register/CSR dashboard")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) < 1 {
		return fmt.Errorf("usage: rvemu [-debug file] [-monitor] <kernel.bin> [disk.img]")
	}

	code, err := os.ReadFile(rest[0])
	if err != nil {
		return fmt.Errorf("reading kernel image: %w", err)
	}

	var disk []byte
	if len(rest) >= 2 {
		disk, err = os.ReadFile(rest[1])
		if err != nil {
			return fmt.Errorf("reading disk image: %w", err)
		}
	}

	var traceFile *os.File
	if *tracePath != "" {
		traceFile, err = os.Create(*tracePath)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		defer traceFile.Close()
	}

	if *monitor {
		return runWithMonitor(code, disk, traceFile)
	}
	return runHeadless(code, disk, traceFile)
}

// runHeadless wires the UART directly to the process's stdin/stdout,
// putting stdin into raw mode for the process lifetime so the guest
// sees bytes as they are typed rather than after a line is buffered.
func runHeadless(code, disk []byte, traceFile *os.File) error {
	var restore func()
	if term.IsTerminal(int(os.Stdin.Fd())) {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("enable raw mode: %w", err)
		}
		restore = func() { term.Restore(int(os.Stdin.Fd()), oldState) }
		defer restore()
	}

	uart := emu.NewUart(os.Stdin, os.Stdout)
	cpu := newCpu(code, disk, uart, traceFile)
	return runToCompletion(cpu)
}

// runWithMonitor starts the tcell dashboard, which owns the terminal
// and becomes the UART's byte source for the duration of the run.
func runWithMonitor(code, disk []byte, traceFile *os.File) error {
	mon, err := debugui.New()
	if err != nil {
		return fmt.Errorf("starting monitor: %w", err)
	}
	defer mon.Close()

	uart := emu.NewUart(mon.KeyReader(), mon.OutputWriter())
	cpu := newCpu(code, disk, uart, traceFile)
	mon.Attach(cpu)

	return runToCompletion(cpu)
}

func newCpu(code, disk []byte, uart *emu.Uart, traceFile *os.File) *emu.Cpu {
	bus := emu.NewBus(code, disk, uart)
	cpu := emu.NewCpu(bus)
	if traceFile != nil {
		cpu.Trace = func(count uint64, pc uint64, instr uint32, regs [32]int64) {
			fmt.Fprintf(traceFile, "%08d -- [%08x]: %08x %v\n", count, pc, instr, regs)
		}
	}
	return cpu
}

func runToCompletion(cpu *emu.Cpu) error {
	if exc := cpu.Run(); exc != nil {
		return fmt.Errorf("fatal trap at pc=%#x: %s", cpu.PC(), exc.Error())
	}
	return nil
}
