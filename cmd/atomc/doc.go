// The atomc command compiles and runs a single AtomC source file.
//
// Usage:
//
//	-file filename
//		  AtomC source filename to compile and run
//	-f filename
//		  shorthand for -file
//	-globals-size int
//		  size in bytes of the VM's globals area (default 32768)
//	-stack-size int
//		  size in bytes of the VM's runtime stack (default 32768)
//	-dump
//		  print a disassembly of the compiled program instead of running it
//	-trace
//		  print one line per dispatched instruction to stderr while running
//	-debug
//		  print a full error chain and stack-machine state on a run-time failure
//	-stats
//		  print instruction count and elapsed time on exit
//	-version
//		  print the version and exit
//
// -dump prints a numbered instruction listing and stops before
// execution; it does not require stdin/stdout to be connected to
// anything meaningful, since the program never runs. Jump and call
// targets are rendered as "->N", the flattened instruction index the
// vm package itself resolves them to at construction time.
//
// -debug prints the full %+v error chain (including the
// github.com/pkg/errors stack trace a wrapped error carries) and the
// VM's register state at the point of failure, in addition to the
// single-line diagnostic every run prints regardless. It applies only
// to errors raised while the VM runs; a compile-time error prints just
// the single-line diagnostic.
package main
