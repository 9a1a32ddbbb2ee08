// Package vm is AtomC's stack machine (C6): it walks the doubly-linked
// bytecode.Program the compiler package produces, starting at its head,
// until a HALT instruction runs or a fatal ErrStack/ErrInvalidOpcode is
// raised.
//
// Memory is one flat byte slice split into two regions — a globals area
// addressed by PUSHCT_A constants, and a runtime stack addressed
// relative to the frame pointer — so that every address value the
// compiler or the VM itself produces is a plain offset into the same
// slice (see DESIGN.md's "VM address representation" note). Host
// routines (put_i, get_s, ...) are bound by CALLEXT's operand index into
// a HostFunc slice supplied through the Host Option; the vm package
// itself knows nothing about what any of them do.
package vm
