package graph

import "testing"

func BenchmarkContextProcess(b *testing.B) {
	buf := make([]float32, 2048*2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx := newTestContext()
		ctx.Update(func(now float64, g *SignalGraph) {
			g.MasterGain.SetValueAtTime(0.7, now)
		})
		for v := 0; v < 8; v++ {
			ctx.Schedule(toneVoice(0, 1))
		}
		ctx.Process(buf)
	}
}
