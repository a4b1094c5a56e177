//go:build !ios && !android && (amd64 || arm64)

package pygo

import (
	"github.com/obinnaokechukwu/pygo/cpython"
	"github.com/obinnaokechukwu/pygo/gil"
)

// pyRuntime adapts the cpython package to gil.Runtime.
type pyRuntime struct{}

func (pyRuntime) IsInitialized() bool                 { return cpython.IsInitialized() }
func (pyRuntime) Initialize(initsigs bool)            { cpython.InitializeEx(initsigs) }
func (pyRuntime) Finalize()                           { cpython.Finalize() }
func (pyRuntime) ThreadsInitialized() bool            { return cpython.ThreadsInitialized() }
func (pyRuntime) InitThreads()                        { cpython.InitThreads() }
func (pyRuntime) EnsureGIL() gil.GILState             { return cpython.GILStateEnsure() }
func (pyRuntime) ReleaseGIL(s gil.GILState)           { cpython.GILStateRelease(s) }
func (pyRuntime) SaveThread() gil.ThreadState         { return cpython.EvalSaveThread() }
func (pyRuntime) RestoreThread(s gil.ThreadState)     { cpython.EvalRestoreThread(s) }
func (pyRuntime) IncRef(h gil.Handle)                 { cpython.IncRef(h) }
func (pyRuntime) DecRef(h gil.Handle)                 { cpython.DecRef(h) }
