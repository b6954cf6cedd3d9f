// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package audiograph is the root of a modular real-time audio processing
// framework for priority-scheduled embedded targets. It assembles directed
// acyclic pipelines ("graphs") from reusable processing units ("nodes") that
// operate on fixed-size PCM sample blocks drawn from lock-free pools.
//
// Subpackages:
//
//	block    fixed-capacity pools, atomic refcounting, copy-on-write
//	queue    bounded FIFO edges with blocking take / non-blocking put
//	node     the node interface shared by both execution models
//	engine   the concurrent per-node engine and fan-out splitter
//	strip    the sequential engine: channel strips and mixers
//	nodes    illustrative leaf nodes (sine, volume, meter, sink, ...)
//	analyzer the streaming spectrum analyzer
//	platform injected logging and clock capabilities
//
// This package itself holds only the error taxonomy shared by every
// subpackage.
package audiograph

import "errors"

// Error taxonomy (spec §7). These are classification errors, not a single
// failure type: callers are expected to branch on them with errors.Is.
var (
	// ErrOutOfMemory is returned when a bounded pool cannot satisfy a
	// request. Producers skip output for that step; mutators drop the
	// block after release; mixers treat the affected channel as silent
	// for that iteration.
	ErrOutOfMemory = errors.New("audiograph: out of memory")

	// ErrInvalid is returned for bad configuration at construction time
	// (non-power-of-two FFT size, non-positive frequency, bad capacity).
	// The constructed object is left unusable; no partial state escapes.
	ErrInvalid = errors.New("audiograph: invalid configuration")

	// ErrNotReady is returned by readouts attempted before sufficient
	// data has accumulated (e.g. the analyzer's first FFT).
	ErrNotReady = errors.New("audiograph: not ready")

	// ErrNotSupported is returned for a feature query against a
	// configuration that did not enable it (e.g. phase readout when
	// compute_phase is false).
	ErrNotSupported = errors.New("audiograph: not supported")

	// ErrFull is returned when adding more nodes/channels/outputs than
	// a static capacity allows.
	ErrFull = errors.New("audiograph: capacity exceeded")
)
