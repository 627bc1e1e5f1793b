package manager

import (
	"sync/atomic"

	lvruntime "github.com/lvkit/lv-runtime"
	"github.com/lvkit/lv-runtime/errors"
)

// binding holds the process-wide manager table. It is written exactly
// once by Bind and read lock-free afterwards.
var binding atomic.Pointer[bindingBox]

type bindingBox struct {
	m lvruntime.Manager
}

// Bind installs the resolved manager table. It must be called once,
// before any wrapper operation, typically from the plugin's load hook.
// Binding twice is a programming error and panics.
func Bind(m lvruntime.Manager) {
	if m == nil {
		panic("manager: Bind called with nil manager")
	}
	if !binding.CompareAndSwap(nil, &bindingBox{m: m}) {
		panic("manager: already bound")
	}
}

// Current returns the bound manager table, or a not_initialized error if
// Bind has not run.
func Current() (lvruntime.Manager, error) {
	b := binding.Load()
	if b == nil {
		return nil, errors.NotInitialized("manager table not bound; call manager.Bind at load time")
	}
	return b.m, nil
}

// unbind clears the binding. Test use only.
func unbind() {
	binding.Store(nil)
}
