package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/ensapi/base/log"
)

var (
	logger = log.Log()
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	logger         *log.Logger
	beforeStart    *func()
	afterEnded     *func()
	afterRecovered *func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions) error

func getRecoverableGoOptions(fns ...RecoverableGoOptionsFunc) RecoverableGoOptions {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}

// WithLogger reports recovered panics through l instead of the package logger
func WithLogger(l log.Logger) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.logger = &l
		return nil
	}
}

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.beforeStart = &f
		return nil
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterEnded = &f
		return nil
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterRecovered = &f
		return nil
	}
}

// Recover logs the value returned by recover() and wraps it with the stack.
// It returns nil when p is nil.
func Recover(p interface{}, l log.Logger) *PanicEvent {
	if p == nil {
		return nil
	}
	stack := debug.Stack()
	l.WithFields(log.Fields{
		"err":   p,
		"stack": string(stack),
	}).Error("panic")
	return &PanicEvent{p, stack}
}

// RecoverableGo runs f in a new goroutine. The returned channel is closed
// when f returns normally, or receives one PanicEvent when f panicked.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) chan *PanicEvent {
	opts := getRecoverableGoOptions(fns...)
	l := logger
	if opts.logger != nil {
		l = *opts.logger
	}

	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if opts.afterEnded != nil {
				(*opts.afterEnded)()
			}

			if ev := Recover(recover(), l); ev != nil {
				if opts.afterRecovered != nil {
					(*opts.afterRecovered)(ev.Panic, ev.Stack)
				}
				panicChan <- ev
			} else {
				close(panicChan)
			}
		}()

		if opts.beforeStart != nil {
			(*opts.beforeStart)()
		}

		f()
	}()

	return panicChan
}
