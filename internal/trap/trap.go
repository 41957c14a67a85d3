// Package trap implements the host-service (OS call) convention: code
// hooks bound to fixed ROM addresses invoke host-provided handlers that
// inspect registers and memory, perform the requested service, and either
// simulate a subroutine return or let execution fall through to ROM code.
package trap

import "github.com/beebcore/beebcore/internal/cpu"

type outcome int

const (
	outcomeNotHandled outcome = iota
	outcomeHandled
	outcomeError
	outcomeEOF
)

// Result is a trap handler's verdict: Handled, NotHandled, Error, or Eof.
// A tagged variant rather than a boolean plus a side-channel error, so the
// Registry handles each outcome explicitly.
type Result struct {
	kind outcome
	err  *cpu.BBCError
}

// Handled simulates an RTS back to the caller.
func Handled() Result { return Result{kind: outcomeHandled} }

// NotHandled lets execution fall through to the original ROM code at the
// trap address.
func NotHandled() Result { return Result{kind: outcomeNotHandled} }

// Error raises a guest-visible BBC error, recovered by the Registry via the
// standard 0x0100 error-block handover.
func Error(num int, msg string) Result {
	return Result{kind: outcomeError, err: &cpu.BBCError{Num: num, Msg: msg}}
}

// Eof signals unrecoverable input termination; it propagates out of
// Registry.Run as cpu.ErrInputEOF.
func Eof() Result { return Result{kind: outcomeEOF} }

func (r Result) isHandled() bool    { return r.kind == outcomeHandled }
func (r Result) isError() bool      { return r.kind == outcomeError }
func (r Result) isEOF() bool        { return r.kind == outcomeEOF }
func (r Result) bbcError() *cpu.BBCError { return r.err }

// Handler is a host-service implementation bound to one trap address.
type Handler func(e *cpu.Emulator) Result
