// player.go - oto v3 audio output, adapted from the teacher's OtoPlayer:
// same atomic-pointer hot path and Start/Stop/Close control surface, but
// stereo and pulling samples from Chip.Update's int32 pair instead of a
// mono sample ring.

package main

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/octavecore/multivoice"
)

// chipPlayer streams a Chip's mixed output through oto. Read runs on
// oto's own goroutine; chip is swapped atomically so Start/Stop never
// block the audio callback.
type chipPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	chip    atomic.Pointer[multivoice.Chip]
	left    []int32
	right   []int32
	sampleBuf []float32
	started bool
	mu      sync.Mutex
}

func newChipPlayer(sampleRate int) (*chipPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	cp := &chipPlayer{ctx: ctx}
	return cp, nil
}

func (cp *chipPlayer) setup(chip *multivoice.Chip) {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	cp.chip.Store(chip)
	cp.player = cp.ctx.NewPlayer(cp)
	cp.sampleBuf = make([]float32, 4096)
}

// Read satisfies io.Reader for oto.NewPlayer. p holds interleaved
// stereo float32LE frames; each Read renders all of its frames with one
// Chip.Update call.
func (cp *chipPlayer) Read(p []byte) (n int, err error) {
	chip := cp.chip.Load()
	if chip == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	frames := len(p) / 8 // 2 channels * 4 bytes
	if cap(cp.left) < frames {
		cp.left = make([]int32, frames)
		cp.right = make([]int32, frames)
	}
	left := cp.left[:frames]
	right := cp.right[:frames]
	chip.Update(frames, left, right)

	if len(cp.sampleBuf) < frames*2 {
		cp.sampleBuf = make([]float32, frames*2)
	}
	samples := cp.sampleBuf[:frames*2]
	for i := 0; i < frames; i++ {
		samples[2*i] = float32(left[i]) / 32768
		samples[2*i+1] = float32(right[i]) / 32768
	}

	for i, v := range samples {
		putFloat32LE(p[i*4:], v)
	}
	return frames * 8, nil
}

func (cp *chipPlayer) start() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if !cp.started && cp.player != nil {
		cp.player.Play()
		cp.started = true
	}
}

func (cp *chipPlayer) stop() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.started && cp.player != nil {
		cp.player.Pause()
		cp.started = false
	}
}

func (cp *chipPlayer) close() {
	cp.stop()
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.player != nil {
		cp.player.Close()
		cp.player = nil
	}
}

func putFloat32LE(b []byte, f float32) {
	bits := math.Float32bits(f)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}
