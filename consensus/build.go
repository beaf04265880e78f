package consensus

type Options struct {
	MinDepth    int
	MinFraction float64
	// OnMasked, when set, receives the buffer after masking and before any
	// variant is applied. An error aborts the build.
	OnMasked func(masked []byte) error
}

func DefaultOptions() Options {
	return Options{MinDepth: DefaultMinDepth, MinFraction: DefaultMinFraction}
}

type Result struct {
	Sequence []byte
	LowDepth int
	Tally    Tally
	Accepted []Accepted
	Quality  Quality
}

// Build runs masking, variant application and classification over one reference.
// On error no partial result is returned.
func Build(ref []byte, depth DepthLookup, src RecordSource, o Options) (*Result, error) {
	b := NewBuilder(ref)
	res := &Result{LowDepth: b.Mask(depth, o.MinDepth)}
	if o.OnMasked != nil {
		if err := o.OnMasked(b.Sequence()); err != nil {
			return nil, err
		}
	}

	tally, err := b.ApplyFrom(src)
	if err != nil {
		return nil, err
	}
	res.Tally = tally
	res.Accepted = b.Ledger().Entries()
	res.Sequence = b.Sequence()
	res.Quality = Classify(res.Sequence, o.MinFraction)
	return res, nil
}
