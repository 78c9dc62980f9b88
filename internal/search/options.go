package search

// Options tune a search run. The multiplier and pool factor mirror the
// tuning knobs of the upstream heuristics: over-request from the search
// collaborator because a fraction of candidates lacks metrics, and
// over-collect unique repositories so the ranking step has a meaningful
// pool to cut from. Both are deliberate knobs, not derived constants.
type Options struct {
	// TargetCount is the number of qualified repositories requested.
	TargetCount int
	// MaxIterations bounds the fetch loop inside one keyword round.
	MaxIterations int
	// BatchSize is the minimum per-iteration request size.
	BatchSize int
	// RequestMultiplier over-requests candidates relative to the gap.
	RequestMultiplier int

	// Multi-round (profile) search only.
	MaxRounds          int
	MinCombinationSize int
	MaxCombinationSize int
	// PoolFactor sizes the unique pool collected before ranking, as a
	// multiple of TargetCount.
	PoolFactor int
	// RoundTargetFloor is the minimum per-round target when closing the
	// remaining gap toward the pool.
	RoundTargetFloor int
	// RoundIterations and RoundBatchSize bound each inner round.
	RoundIterations int
	RoundBatchSize  int
}

// DefaultOptions returns the baseline knobs.
func DefaultOptions() Options {
	return Options{
		TargetCount:        10,
		MaxIterations:      10,
		BatchSize:          15,
		RequestMultiplier:  3,
		MaxRounds:          5,
		MinCombinationSize: 2,
		MaxCombinationSize: 3,
		PoolFactor:         2,
		RoundTargetFloor:   5,
		RoundIterations:    3,
		RoundBatchSize:     10,
	}
}

// withDefaults fills zero fields so callers can set only what they care
// about.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TargetCount <= 0 {
		o.TargetCount = def.TargetCount
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.BatchSize <= 0 {
		o.BatchSize = def.BatchSize
	}
	if o.RequestMultiplier <= 0 {
		o.RequestMultiplier = def.RequestMultiplier
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = def.MaxRounds
	}
	if o.MinCombinationSize <= 0 {
		o.MinCombinationSize = def.MinCombinationSize
	}
	if o.MaxCombinationSize <= 0 {
		o.MaxCombinationSize = def.MaxCombinationSize
	}
	if o.MaxCombinationSize < o.MinCombinationSize {
		o.MaxCombinationSize = o.MinCombinationSize
	}
	if o.PoolFactor <= 0 {
		o.PoolFactor = def.PoolFactor
	}
	if o.RoundTargetFloor <= 0 {
		o.RoundTargetFloor = def.RoundTargetFloor
	}
	if o.RoundIterations <= 0 {
		o.RoundIterations = def.RoundIterations
	}
	if o.RoundBatchSize <= 0 {
		o.RoundBatchSize = def.RoundBatchSize
	}
	return o
}
