// lut.go - lookup tables.
//
// Clock-independent tables (waveforms, envelope-volume, total-level,
// channel-attenuation, pitch/amplitude LFO shapes, detune, pow/multiple,
// RKS) are computed once in init() and shared by every Chip. Clock- and
// sample-rate-dependent tables (attack/decay time, LFO frequency) are
// rebuilt per Chip in newRateTables, since §4.1 scales them by
// clock/stdClock for tempo fidelity.

package multivoice

import "math"

const stdClock = 16934400 // STD_CLOCK, the datasheet reference clock in Hz

// waveTables holds the eight 1024-sample internal waveforms, quantised to
// signed 16-bit (§4.1).
var waveTables [8][sinSize]int16

// envVolumeLUT converts an 8-bit envelope attenuation index to linear
// 16.16 gain: ev[i] = 65536 / 10^((i*96/256)/20).
var envVolumeLUT [256]int32

// totalLevelLUT converts a 7-bit total-level register value to linear
// 16.16 gain at 0.75 dB/step.
var totalLevelLUT [128]int32

// chanAttenLUT converts a 4-bit channel level to linear 16.16 gain,
// i*96.1/12 dB, with entries 12-15 clamped to -96 dB.
var chanAttenLUT [16]int32

// pitchLFOLUT[wave][depth][phase] is a 16.16 pitch multiplier: 2^(cents*phi/1200).
var pitchLFOLUT [4][8][256]int32

// ampLFOLUT[wave][phase] is the 16.16 tremolo shape coefficient in [0,1];
// buildAmpAttenLUT scales it by the ams-selected depth into ampAttenLUT.
var ampLFOLUT [4][256]int32

// ampAttenLUT[wave][ams][phase] is a 16.16 tremolo gain combining the
// waveform shape with the ams-selected depth in amsDepthDB.
var ampAttenLUT [4][4][256]int32

// lfoDepthCents are the eight modulation depths selectable per slot.
var lfoDepthCents = [8]float64{0, 3.378, 5.065, 6.750, 10.114, 20.170, 40.108, 79.307}

// detuneLUT[d][keycode] is a signed 16.16 relative fns change (pitch
// ratio minus one), applied as fns*ratio; d in [0,7], d=0 and
// d=4 are zero, d in [1..3] positive, d in [5..7] negative (mirror of [1..3]).
var detuneLUT [8][32]int32

// powTable: blocks 0-7 hold the raw FM octave multipliers {128..16384};
// blocks 8-15 hold the PCM fractional multipliers {0.5..64} as 16.16
// fixed point. The discontinuity at the 7/8 boundary is load-bearing
// (§4.3) — do not "fix" it into a single monotone scale.
var powTable [16]uint64

// multipleTable is the FM frequency-multiplier table indexed by the
// 4-bit "multiple" register field; entry 0 means x0.5.
var multipleTable [16]uint64

// rksTable[keycode][keyscale] is the rate-key-scaling offset added to a
// slot's base envelope rate (§4.2).
var rksTable [32][4]int32

// fsFrequency is the PCM sample-rate divider table selected by the 2-bit
// "fs" register field.
var fsFrequency = [4]uint64{8, 4, 2, 1}

func init() {
	buildWaveTables()
	buildEnvVolumeLUT()
	buildTotalLevelLUT()
	buildChanAttenLUT()
	buildPitchLFOLUT()
	buildAmpLFOLUT()
	buildAmpAttenLUT()
	buildDetuneLUT()
	buildPowTable()
	buildMultipleTable()
	buildRKSTable()
}

func quantiseWave(v float64) int16 {
	s := int32(math.Round(v * 32767))
	if s > maxOut {
		s = maxOut
	}
	if s < minOut {
		s = minOut
	}
	return int16(s)
}

func buildWaveTables() {
	for i := 0; i < sinSize; i++ {
		theta := (2*float64(i) + 1) * math.Pi / sinSize
		s := math.Sin(theta)
		waveTables[Wave0][i] = quantiseWave(s)

		sign := 1.0
		if s < 0 {
			sign = -1.0
		}
		waveTables[Wave1][i] = quantiseWave(sign * s * s)

		waveTables[Wave2][i] = quantiseWave(math.Abs(s))

		if s >= 0 {
			waveTables[Wave3][i] = quantiseWave(s)
		} else {
			waveTables[Wave3][i] = 0
		}

		theta2 := 2 * theta
		s2 := math.Sin(theta2)
		if i < sinSize/2 {
			waveTables[Wave4][i] = quantiseWave(s2)
			waveTables[Wave5][i] = quantiseWave(math.Abs(s2))
		} else {
			waveTables[Wave4][i] = 0
			waveTables[Wave5][i] = 0
		}

		waveTables[Wave6][i] = maxOut
	}
	// waveform 7 (WaveExternalPCM) has no table: it routes through the
	// PCM reader instead of a wave lookup.
}

func dbToQ16(db float64) int32 {
	g := math.Pow(10, -db/20)
	v := int64(math.Round(g * fracOne))
	if v > 0x7fffffff {
		v = 0x7fffffff
	}
	if v < 0 {
		v = 0
	}
	return int32(v)
}

func buildEnvVolumeLUT() {
	for i := 0; i < 256; i++ {
		db := float64(i) * 96.0 / 256.0
		envVolumeLUT[i] = dbToQ16(db)
	}
}

func buildTotalLevelLUT() {
	for i := 0; i < 128; i++ {
		db := float64(i) * 0.75
		totalLevelLUT[i] = dbToQ16(db)
	}
}

func buildChanAttenLUT() {
	for i := 0; i < 16; i++ {
		db := float64(i) * 96.1 / 12.0
		if db > 96.0 {
			db = 96.0
		}
		chanAttenLUT[i] = dbToQ16(db)
	}
}

func buildPitchLFOLUT() {
	for wave := 0; wave < 4; wave++ {
		for depth := 0; depth < 8; depth++ {
			cents := lfoDepthCents[depth]
			for phase := 0; phase < 256; phase++ {
				phi := lfoWaveShape(wave, phase)
				mult := math.Pow(2, cents*phi/1200.0)
				pitchLFOLUT[wave][depth][phase] = int32(math.Round(mult * fracOne))
			}
		}
	}
}

// lfoWaveShape returns the bipolar [-1,1] modulation shape for an LFO
// waveform at a given 256-step phase: 0=off, 1=saw, 2=square, 3=triangle.
func lfoWaveShape(wave, phase int) float64 {
	p := float64(phase) / 256.0 // [0,1)
	switch wave {
	case 0:
		return 0
	case 1: // saw: ramps -1..1
		return 2*p - 1
	case 2: // square
		if p < 0.5 {
			return 1
		}
		return -1
	case 3: // triangle
		if p < 0.5 {
			return 4*p - 1
		}
		return 3 - 4*p
	}
	return 0
}

// amsDepthDB are the four tremolo depths selectable per slot's ams field.
var amsDepthDB = [4]float64{0, 5.91, 11.81, 23.63}

func buildAmpLFOLUT() {
	for wave := 0; wave < 4; wave++ {
		for phase := 0; phase < 256; phase++ {
			ampLFOLUT[wave][phase] = int32(math.Round((lfoWaveShape(wave, phase) + 1) / 2 * fracOne))
		}
	}
}

// amsDepthDB selects the tremolo depth in dB applied at full waveform
// excursion; ams indexes this table (§4.8).
func buildAmpAttenLUT() {
	for wave := 0; wave < 4; wave++ {
		for ams := 0; ams < 4; ams++ {
			for phase := 0; phase < 256; phase++ {
				coeff := float64(ampLFOLUT[wave][phase]) / fracOne
				db := coeff * amsDepthDB[ams]
				ampAttenLUT[wave][ams][phase] = dbToQ16(db)
			}
		}
	}
}

// n43Ranges splits an f-number into one of four bands for keycode
// derivation (§4.3).
var n43Ranges = [4]int{0x780, 0x900, 0xa80, 0x800000}

func n43Band(fns int) int {
	for i, edge := range n43Ranges[:3] {
		if fns < edge {
			return i
		}
	}
	return 3
}

func buildDetuneLUT() {
	// Cents applied to a representative f-number per n43 band, mirrored
	// in sign across d=0..3 (positive) and d=4..7 (negative); d=0,4 are
	// the null detune.
	cents := [4]float64{0, 2.5, 5.0, 10.0} // per-band detune unit, d multiplies this
	for d := 0; d < 8; d++ {
		var mag float64
		var sign float64 = 1
		if d >= 4 {
			sign = -1
		}
		step := d % 4
		for kc := 0; kc < 32; kc++ {
			band := kc % 4
			mag = float64(step) * cents[band]
			ratio := math.Pow(2, sign*mag/1200.0) - 1.0
			detuneLUT[d][kc] = int32(math.Round(ratio * fracOne))
		}
	}
	// d=0 and d=4 are exactly zero.
	for kc := 0; kc < 32; kc++ {
		detuneLUT[0][kc] = 0
		detuneLUT[4][kc] = 0
	}
}

func buildPowTable() {
	fmBlocks := [8]uint64{128, 256, 512, 1024, 2048, 4096, 8192, 16384}
	pcmBlocks := [8]float64{0.5, 1, 2, 4, 8, 16, 32, 64}
	for i := 0; i < 8; i++ {
		powTable[i] = fmBlocks[i]
	}
	for i := 0; i < 8; i++ {
		powTable[8+i] = uint64(math.Round(pcmBlocks[i] * fracOne))
	}
}

func buildMultipleTable() {
	// Standard FM multiple table: 0 means x0.5, 1..15 mean x1..x15.
	multipleTable[0] = fracOne / 2
	for m := 1; m < 16; m++ {
		multipleTable[m] = uint64(m) * fracOne
	}
}

func buildRKSTable() {
	for kc := 0; kc < 32; kc++ {
		for ks := 0; ks < 4; ks++ {
			if ks == 0 {
				rksTable[kc][ks] = 0
				continue
			}
			rksTable[kc][ks] = int32(kc >> (3 - uint(ks)))
		}
	}
}

// rateTables holds the clock/sample-rate dependent attack and decay
// sample-count tables (§4.1).
type rateTables struct {
	attack [64]int32 // samples to traverse a full-scale envelope ramp; 0 = infinite
	decay  [64]int32
	lfoFreqSteps [256]int32 // per-sample LFO phase increment, 16.8 fixed point
}

func newRateTables(clockHz uint32, sampleRate int) *rateTables {
	rt := &rateTables{}
	correction := float64(clockHz) / float64(stdClock)

	for i := 0; i < 64; i++ {
		if i < 4 {
			rt.attack[i] = 0
			rt.decay[i] = 0
			continue
		}
		timeMs := 20000.0 / math.Pow(2, float64(i-4)/4.0)
		samples := timeMs * float64(sampleRate) / 1000.0 / correction
		if samples < 1 {
			samples = 1
		}
		rt.attack[i] = int32(math.Round(samples))
		rt.decay[i] = int32(math.Round(samples))
	}

	const minFreqHz = 0.167
	const maxFreqHz = 27.5
	for i := 0; i < 256; i++ {
		freqHz := minFreqHz * math.Pow(maxFreqHz/minFreqHz, float64(i)/255.0) * correction
		step := freqHz * 65536.0 / float64(sampleRate)
		rt.lfoFreqSteps[i] = int32(math.Round(step))
	}
	return rt
}
