package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/zademn/AtomC-compiler/compiler"
	"github.com/zademn/AtomC-compiler/host"
	"github.com/zademn/AtomC-compiler/internal/diag"
	"github.com/zademn/AtomC-compiler/vm"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		fileName    string
		globalsSize int64
		stackSize   int64
		dump        bool
		trace       bool
		debug       bool
		stats       bool
		showVersion bool
	)

	flag.StringVar(&fileName, "file", "", "AtomC source `filename` to compile and run")
	flag.StringVar(&fileName, "f", "", "shorthand for -file")
	flag.Int64Var(&globalsSize, "globals-size", 32*1024, "size in bytes of the VM's globals area")
	flag.Int64Var(&stackSize, "stack-size", 32*1024, "size in bytes of the VM's runtime stack")
	flag.BoolVar(&dump, "dump", false, "print a disassembly of the compiled program instead of running it")
	flag.BoolVar(&trace, "trace", false, "print one line per dispatched instruction to stderr while running")
	flag.BoolVar(&debug, "debug", false, "print a full error chain and stack-machine state on a run-time failure")
	flag.BoolVar(&stats, "stats", false, "print instruction count and elapsed time on exit")
	flag.BoolVar(&showVersion, "version", false, "print the version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("atomc", version)
		return 0
	}
	if fileName == "" {
		fmt.Fprintln(os.Stderr, "atomc: -file is required")
		flag.Usage()
		return 2
	}

	reporter := diag.NewReporter(os.Stderr)

	src, err := os.ReadFile(fileName)
	if err != nil {
		reporter.Report(errors.Wrap(err, "reading source file"))
		return reporter.ExitCode()
	}

	prog, err := compiler.Compile(fileName, string(src))
	if err != nil {
		reporter.Report(err)
		return reporter.ExitCode()
	}

	if dump {
		if err := dumpProgram(prog, os.Stdout); err != nil {
			reporter.Report(errors.Wrap(err, "writing disassembly"))
			return reporter.ExitCode()
		}
		return 0
	}

	opts := []vm.Option{
		vm.GlobalsSize(globalsSize),
		vm.StackSize(stackSize),
		vm.Host(host.New(os.Stdin, os.Stdout)),
		vm.Input(os.Stdin),
		vm.Output(os.Stdout),
	}
	if trace {
		opts = append(opts, vm.Trace(os.Stderr))
	}

	instance, err := vm.New(prog, opts...)
	if err != nil {
		reporter.Report(err)
		return reporter.ExitCode()
	}

	start := time.Now()
	runErr := instance.Run()
	elapsed := time.Since(start)

	if stats {
		fmt.Fprintf(os.Stderr, "executed %d instruction(s) in %v\n", instance.InstructionCount(), elapsed)
	}

	if runErr != nil {
		if debug {
			fmt.Fprintf(os.Stderr, "%+v\n", runErr)
			fmt.Fprintf(os.Stderr, "ip=%d sp=%d fp=%d\n", instance.IP(), instance.SP(), instance.FP())
		}
		reporter.Report(runErr)
		return reporter.ExitCode()
	}
	return 0
}
