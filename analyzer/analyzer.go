// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package analyzer implements the framework's spectrum analyzer node
// (spec §4.7), the representative "hard" node: configurable FFT size,
// hop size and window, a windowed real FFT, and magnitude/phase/peak
// extraction published under a lock for safe concurrent readout. It is a
// pass-through on the audio path — Step always returns its input block
// unchanged once consumed into the accumulation buffer.
package analyzer

import (
	"math"
	"sync"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/audiograph"
	"code.hybscloud.com/audiograph/block"
)

// DefaultFFTSize, DefaultMagnitudeFloorDB and DefaultSampleRate are the
// configuration defaults named in spec §4.7.
const (
	DefaultFFTSize          = 256
	DefaultMagnitudeFloorDB = -120.0
	DefaultSampleRate       = 48000.0
)

// MaxInstances bounds the number of simultaneously live Analyzer
// contexts (spec §4.7: "at most MAX_SPECTRUM_INSTANCES (typical 4)
// analyzer contexts from statically reserved storage"). Go has no
// built-in static arena, so this is expressed as a package-level atomic
// counter that New and Close maintain together — the nearest idiomatic
// equivalent to a fixed-size reservation without a real memory arena.
const MaxInstances = 4

var liveInstances atomix.Int32

// Config enumerates the analyzer's configuration (spec §4.7).
type Config struct {
	// FFTSize must be a power of two in [32, 2048]; other values fail
	// New with ErrInvalid.
	FFTSize int
	// HopSize in [1, FFTSize]; 0 is interpreted as FFTSize (no overlap).
	HopSize int
	Window  WindowKind
	// ComputePhase enables phase-spectrum tracking; GetPhase returns
	// ErrNotSupported when this is false.
	ComputePhase bool
	// MagnitudeFloorDB must be negative; GetSpectrumDB raises every
	// magnitude to at least this level (as a linear amplitude) before
	// converting it to decibels.
	MagnitudeFloorDB float64
	// SampleRate is used to convert bins to frequencies; defaults to
	// DefaultSampleRate when zero.
	SampleRate float64
}

// DefaultConfig returns the spec's documented defaults: 256-point FFT,
// non-overlapping Hann-windowed analysis, no phase tracking.
func DefaultConfig() Config {
	return Config{
		FFTSize:          DefaultFFTSize,
		HopSize:          DefaultFFTSize,
		Window:           Hann,
		ComputePhase:     false,
		MagnitudeFloorDB: DefaultMagnitudeFloorDB,
		SampleRate:       DefaultSampleRate,
	}
}

func validFFTSize(n int) bool {
	switch n {
	case 32, 64, 128, 256, 512, 1024, 2048:
		return true
	default:
		return false
	}
}

// Analyzer is a sequential node (spec §4.7). It accumulates samples
// across Step calls, runs a windowed FFT once its buffer fills, and
// publishes magnitude/phase/peak results under a mutex. A single
// Analyzer is driven by one strip's worker at a time, matching every
// other sequential node in this module; the mutex exists solely to make
// the *readout* methods (GetSpectrum and friends) safe to call from any
// goroutine, per spec §4.7's "must be callable from any thread."
type Analyzer struct {
	cfg    Config
	window []float64

	accum []int16
	pos   int

	reFFT []float64
	imFFT []float64

	mu           sync.Mutex
	magnitude    []float64
	phase        []float64
	peakFreq     float64
	peakMag      float64
	processCount uint64
	ready        bool

	closed bool
}

// New constructs an Analyzer from cfg, validating fft_size, hop_size and
// magnitude_floor_db per spec §4.7, and reserving one of MaxInstances
// slots. Returns ErrOutOfMemory once MaxInstances live analyzers already
// exist.
func New(cfg Config) (*Analyzer, error) {
	if !validFFTSize(cfg.FFTSize) {
		return nil, audiograph.ErrInvalid
	}
	if cfg.HopSize == 0 {
		cfg.HopSize = cfg.FFTSize
	}
	if cfg.HopSize < 1 || cfg.HopSize > cfg.FFTSize {
		return nil, audiograph.ErrInvalid
	}
	if cfg.MagnitudeFloorDB >= 0 {
		return nil, audiograph.ErrInvalid
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}

	for {
		cur := liveInstances.LoadAcquire()
		if cur >= MaxInstances {
			return nil, audiograph.ErrOutOfMemory
		}
		if liveInstances.CompareAndSwapAcqRel(cur, cur+1) {
			break
		}
	}

	half := cfg.FFTSize / 2
	a := &Analyzer{
		cfg:       cfg,
		window:    generateWindow(cfg.Window, cfg.FFTSize),
		accum:     make([]int16, cfg.FFTSize),
		reFFT:     make([]float64, cfg.FFTSize),
		imFFT:     make([]float64, cfg.FFTSize),
		magnitude: make([]float64, half),
	}
	if cfg.ComputePhase {
		a.phase = make([]float64, half)
	}
	return a, nil
}

// Close releases this Analyzer's reserved instance slot. An Analyzer
// must not be used after Close.
func (a *Analyzer) Close() {
	if a.closed {
		return
	}
	a.closed = true
	liveInstances.AddAcqRel(-1)
}

// Step implements node.Sequential (spec §4.7 step algorithm). It copies
// as many input samples as fit into the accumulation buffer, and once
// full, runs the windowed FFT and publishes fresh results before
// shifting the buffer for the next hop. Step always returns in
// unchanged: the analyzer is a pass-through.
func (a *Analyzer) Step(in block.Handle) block.Handle {
	if in == nil {
		return nil
	}

	samples := in.Samples()
	remain := a.cfg.FFTSize - a.pos
	n := len(samples)
	if remain < n {
		n = remain
	}
	copy(a.accum[a.pos:a.pos+n], samples[:n])
	a.pos += n

	if a.pos < a.cfg.FFTSize {
		return in
	}

	a.runFFT()

	if a.cfg.HopSize < a.cfg.FFTSize {
		shift := a.cfg.HopSize
		copy(a.accum, a.accum[shift:])
		a.pos = a.cfg.FFTSize - shift
	} else {
		a.pos = 0
	}

	return in
}

// runFFT windows the accumulation buffer, runs the FFT, extracts
// magnitude/phase/peak, and publishes the result under the lock (spec
// §4.7 steps 4-5).
func (a *Analyzer) runFFT() {
	n := a.cfg.FFTSize
	for i := 0; i < n; i++ {
		a.reFFT[i] = float64(a.accum[i]) / math.MaxInt16 * a.window[i]
		a.imFFT[i] = 0
	}
	fftComplex(a.reFFT, a.imFFT)

	half := n / 2
	mags := make([]float64, half)
	var peakBin int
	var peakMag float64
	for k := 0; k < half; k++ {
		re, im := a.reFFT[k], a.imFFT[k]
		mag := math.Sqrt(re*re+im*im) / float64(n)
		mags[k] = mag
		if k >= 1 && mag > peakMag {
			peakMag = mag
			peakBin = k
		}
	}

	var phases []float64
	if a.cfg.ComputePhase {
		phases = make([]float64, half)
		for k := 0; k < half; k++ {
			phases[k] = math.Atan2(a.imFFT[k], a.reFFT[k])
		}
	}
	peakFreq := BinToFreq(peakBin, n, a.cfg.SampleRate)

	a.mu.Lock()
	copy(a.magnitude, mags)
	if a.cfg.ComputePhase {
		copy(a.phase, phases)
	}
	a.peakFreq = peakFreq
	a.peakMag = peakMag
	a.processCount++
	a.ready = true
	a.mu.Unlock()
}

// Reset clears accumulation progress, the ready flag, the process count,
// and the peak/magnitude/phase results, while preserving configuration
// (spec §4.7 failure semantics; spec §9 Open Question 1: readers must
// wait for a fresh FFT after Reset — ready stays false, and every
// readout reports stale state as gone, until the next completed
// transform).
func (a *Analyzer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos = 0
	a.ready = false
	a.processCount = 0
	a.peakFreq = 0
	a.peakMag = 0
	for i := range a.accum {
		a.accum[i] = 0
	}
	for i := range a.magnitude {
		a.magnitude[i] = 0
	}
	for i := range a.phase {
		a.phase[i] = 0
	}
}

// GetSpectrum copies min(len(out), fft_size/2) magnitude bins under the
// lock, returning the count copied. Returns ErrNotReady if no FFT has
// completed yet.
func (a *Analyzer) GetSpectrum(out []float64) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return 0, audiograph.ErrNotReady
	}
	n := len(out)
	if n > len(a.magnitude) {
		n = len(a.magnitude)
	}
	copy(out[:n], a.magnitude[:n])
	return n, nil
}

// GetSpectrumDB is GetSpectrum with each magnitude converted to decibels
// relative to ref (spec §4.7). Each magnitude is first floored at the
// linear equivalent of cfg.MagnitudeFloorDB, so the lowest value reported
// is MagnitudeFloorDB - 20·log10(ref).
func (a *Analyzer) GetSpectrumDB(out []float64, ref float64) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return 0, audiograph.ErrNotReady
	}
	floor := math.Pow(10, a.cfg.MagnitudeFloorDB/20)
	n := len(out)
	if n > len(a.magnitude) {
		n = len(a.magnitude)
	}
	for i := 0; i < n; i++ {
		m := a.magnitude[i]
		if m < floor {
			m = floor
		}
		out[i] = 20 * math.Log10(m/ref)
	}
	return n, nil
}

// GetPhase mirrors GetSpectrum for the phase spectrum. Returns
// ErrNotSupported if the analyzer was not configured with ComputePhase.
func (a *Analyzer) GetPhase(out []float64) (int, error) {
	if !a.cfg.ComputePhase {
		return 0, audiograph.ErrNotSupported
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return 0, audiograph.ErrNotReady
	}
	n := len(out)
	if n > len(a.phase) {
		n = len(a.phase)
	}
	copy(out[:n], a.phase[:n])
	return n, nil
}

// GetPeak returns the most recently published peak frequency and
// magnitude, or ErrNotReady if no FFT has completed yet.
func (a *Analyzer) GetPeak() (freq, mag float64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.ready {
		return 0, 0, audiograph.ErrNotReady
	}
	return a.peakFreq, a.peakMag, nil
}

// ProcessCount returns the monotonically increasing count of completed
// FFTs.
func (a *Analyzer) ProcessCount() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.processCount
}

// BinToFreq converts an FFT bin index to a frequency in Hz (spec §4.7:
// "bin * sample_rate / fft_size").
func BinToFreq(bin, fftSize int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(fftSize)
}
