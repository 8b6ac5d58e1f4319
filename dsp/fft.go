package dsp

// Plan is a forward, unnormalized FFT of a fixed length. A plan is built
// once and reused for every frame; the returned spectrum is owned by the
// plan and overwritten by the next Transform.
type Plan interface {
	Len() int
	Transform(in []complex64) ([]complex64, error)
	Close() error
}
