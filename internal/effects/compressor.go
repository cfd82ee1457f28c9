package effects

import "math"

// Compressor implements basic stereo dynamic range compression. The engine
// can place one after the master gain as an output limiter.
type Compressor struct {
	threshold float64
	ratio     float64
	attack    float64 // coefficient
	release   float64 // coefficient
	makeup    float64
	envL      float64
	envR      float64
}

// NewCompressor creates a compressor.
// thresholdDB: threshold in dB (e.g., -20)
// ratio: compression ratio (e.g., 4 for 4:1)
// attackMs: attack time in ms
// releaseMs: release time in ms
// makeupDB: makeup gain in dB
func NewCompressor(sampleRate int, thresholdDB, ratio, attackMs, releaseMs, makeupDB float64) *Compressor {
	sr := float64(sampleRate)
	return &Compressor{
		threshold: math.Pow(10, thresholdDB/20),
		ratio:     ratio,
		attack:    1.0 - math.Exp(-1.0/(attackMs*sr/1000.0)),
		release:   1.0 - math.Exp(-1.0/(releaseMs*sr/1000.0)),
		makeup:    math.Pow(10, makeupDB/20),
	}
}

// NewLimiter returns a fast, high-ratio compressor that keeps the output
// near full scale.
func NewLimiter(sampleRate int) *Compressor {
	return NewCompressor(sampleRate, -1, 20, 1, 80, 0)
}

func (c *Compressor) ProcessStereo(l, r float64) (float64, float64) {
	c.envL = follow(c.envL, math.Abs(l), c.attack, c.release)
	c.envR = follow(c.envR, math.Abs(r), c.attack, c.release)
	return l * c.computeGain(c.envL) * c.makeup, r * c.computeGain(c.envR) * c.makeup
}

func follow(env, level, attack, release float64) float64 {
	if level > env {
		return env + attack*(level-env)
	}
	return env + release*(level-env)
}

func (c *Compressor) computeGain(env float64) float64 {
	if env <= c.threshold || c.threshold <= 0 {
		return 1.0
	}
	over := env / c.threshold
	return math.Pow(over, 1.0/c.ratio-1)
}

func (c *Compressor) Reset() {
	c.envL = 0
	c.envR = 0
}
