package lcore

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// ErrRunning indicates an error condition when a function expects the thread to be stopped.
var ErrRunning = errors.New("operation not permitted when thread is running")

// Thread represents a procedure running on an LCore.
// The procedure runs to completion once launched; there is no stop request.
type Thread struct {
	lc      LCore
	pin     bool
	main    func() error
	running atomic.Bool
	done    chan struct{}
	err     error
}

// NewThread creates a Thread.
func NewThread(main func() error) *Thread {
	return &Thread{main: main}
}

// LCore returns allocated lcore.
func (th *Thread) LCore() LCore {
	return th.lc
}

// SetLCore assigns an lcore.
// This can only be used when the thread is stopped.
func (th *Thread) SetLCore(lc LCore) {
	if th.IsRunning() {
		logger.Panic("SetLCore", zap.Error(ErrRunning))
	}
	th.lc = lc
}

// SetPin determines whether the thread should be pinned to its lcore.
// This can only be used when the thread is stopped.
func (th *Thread) SetPin(pin bool) {
	if th.IsRunning() {
		logger.Panic("SetPin", zap.Error(ErrRunning))
	}
	th.pin = pin
}

// IsRunning indicates whether the thread is running.
// It remains true until Wait returns.
func (th *Thread) IsRunning() bool {
	return th.running.Load()
}

// Launch launches the thread.
func (th *Thread) Launch() {
	if !th.running.CompareAndSwap(false, true) {
		logger.Panic("Launch", zap.Error(ErrRunning), th.lc.ZapField("lc"))
	}
	th.err = nil
	th.done = make(chan struct{})
	go th.run()
}

func (th *Thread) run() {
	defer close(th.done)
	defer func() {
		if r := recover(); r != nil {
			th.err = fmt.Errorf("thread panic: %v", r)
		}
	}()

	if th.pin && th.lc.Valid() {
		// The OS thread is never unlocked: it terminates together with this goroutine,
		// so that its CPU affinity does not leak into the Go scheduler.
		runtime.LockOSThread()
		if e := pinCurrentThread(th.lc); e != nil {
			logger.Warn("cannot pin thread", th.lc.ZapField("lc"), zap.Error(e))
		}
	}

	th.err = th.main()
}

// Wait blocks until the thread exits, and returns its error.
// All memory writes performed by the thread are visible to the caller after Wait returns.
// Wait on a thread that was never launched returns nil.
func (th *Thread) Wait() error {
	if th.done == nil {
		return nil
	}
	<-th.done
	th.running.Store(false)
	return th.err
}

func pinCurrentThread(lc LCore) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(lc.ID())
	return unix.SchedSetaffinity(0, &set)
}
