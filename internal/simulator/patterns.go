package simulator

import (
	"math"
	"math/rand"
)

// Sample is one synthetic sensor sample before it is stamped with a machine and time.
type Sample struct {
	Temperature float64
	Pressure    float64
	Vibration   float64
	OilQuality  float64
	Failure     bool
}

// Lifecycle generates the sample at a given step of a machine's life.
type Lifecycle interface {
	Sample(step, total int, rng *rand.Rand) Sample
	Name() string
}

var (
	LifecycleNormal             Lifecycle = &NormalLifecycle{}
	LifecycleGradualDegradation Lifecycle = &GradualDegradationLifecycle{}
	LifecycleSuddenFailure      Lifecycle = &SuddenFailureLifecycle{}
)

const (
	normalShare  = 0.7
	gradualShare = 0.2

	degradationFailureFrom = 0.9
	suddenFailureAt        = 0.8
)

func ParseLifecycle(name string) (Lifecycle, bool) {
	switch name {
	case "normal":
		return LifecycleNormal, true
	case "gradual_degradation":
		return LifecycleGradualDegradation, true
	case "sudden_failure":
		return LifecycleSuddenFailure, true
	default:
		return nil, false
	}
}

// DrawLifecycle picks a lifecycle with 70/20/10 odds.
func DrawLifecycle(rng *rand.Rand) Lifecycle {
	p := rng.Float64()
	switch {
	case p < normalShare:
		return LifecycleNormal
	case p < normalShare+gradualShare:
		return LifecycleGradualDegradation
	default:
		return LifecycleSuddenFailure
	}
}

// NormalLifecycle - healthy machine, oil degrades slowly
type NormalLifecycle struct{}

func (l *NormalLifecycle) Sample(_, _ int, rng *rand.Rand) Sample {
	return healthySample(rng)
}

func (l *NormalLifecycle) Name() string {
	return "normal"
}

// GradualDegradationLifecycle - all channels drift linearly towards failure
type GradualDegradationLifecycle struct{}

func (l *GradualDegradationLifecycle) Sample(step, total int, rng *rand.Rand) Sample {
	d := progress(step, total)
	return Sample{
		Temperature: 75 + d*40 + rng.NormFloat64()*5,
		Pressure:    40 + d*20 + rng.NormFloat64()*4,
		Vibration:   2 + d*8 + rng.NormFloat64(),
		OilQuality:  100 - d*70 - rng.ExpFloat64()*5,
		Failure:     step >= int(float64(total)*degradationFailureFrom),
	}
}

func (l *GradualDegradationLifecycle) Name() string {
	return "gradual_degradation"
}

// SuddenFailureLifecycle - healthy until 80% of life, then a step change
type SuddenFailureLifecycle struct{}

func (l *SuddenFailureLifecycle) Sample(step, total int, rng *rand.Rand) Sample {
	if step < int(float64(total)*suddenFailureAt) {
		return healthySample(rng)
	}
	return Sample{
		Temperature: normal(rng, 120, 10),
		Pressure:    normal(rng, 65, 8),
		Vibration:   normal(rng, 12, 3),
		OilQuality:  10 + rng.Float64()*20,
		Failure:     true,
	}
}

func (l *SuddenFailureLifecycle) Name() string {
	return "sudden_failure"
}

func healthySample(rng *rand.Rand) Sample {
	return Sample{
		Temperature: normal(rng, 75, 5),
		Pressure:    normal(rng, 40, 3),
		Vibration:   normal(rng, 2, 0.5),
		OilQuality:  clamp(100-rng.ExpFloat64()*2, 40, 100),
	}
}

// progress maps step onto [0,1] inclusive at both ends.
func progress(step, total int) float64 {
	if total <= 1 {
		return 0
	}
	return math.Min(float64(step)/float64(total-1), 1)
}

func normal(rng *rand.Rand, mean, sd float64) float64 {
	return mean + rng.NormFloat64()*sd
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
