package engine

import "math"

// Closed-form win rates for the strategies in this package, used as
// reference lines for tournament results.

// BinaryEntropy returns H(p) in bits; 0 outside the open interval (0, 1).
func BinaryEntropy(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return -p*math.Log2(p) - (1-p)*math.Log2(1-p)
}

// BinaryEntropyInverse returns p in [0.5, 1] with BinaryEntropy(p) == h,
// to within 10^-digits, by bisection.
func BinaryEntropyInverse(h float64, digits int) (float64, error) {
	if !(h >= 0 && h <= 1) {
		return 0, configErrorf("entropy inverse", "h = %v outside [0, 1]", h)
	}
	switch h {
	case 0:
		return 1, nil
	case 1:
		return 0.5, nil
	}
	tol := math.Pow(10, -float64(digits))
	lo, hi := 0.5, 1.0
	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		hm := BinaryEntropy(mid)
		if math.Abs(hm-h) < tol {
			return mid, nil
		}
		if hm > h {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0, violationf("entropy inverse", -1, "no convergence after 200 iterations")
}

// ExpectedWinRateSimple is the win rate of SimplePlayers: covered cells are
// read through the noisy channel, uncovered cells are guessed with
// Bernoulli(p).
func ExpectedWinRateSimple(l Layout) (float64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	p, c := l.EnemyProbability, l.ChannelNoise
	covered := float64(l.CommsSize) / float64(l.N2())
	uncovered := p*p + (1-p)*(1-p)
	return covered*(1-c) + (1-covered)*uncovered, nil
}

// ExpectedWinRateMajority is the win rate of MajorityPlayers over i.i.d.
// Bernoulli(p) fields and a uniform gun.
func ExpectedWinRateMajority(l Layout) (float64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	p, c := l.EnemyProbability, l.ChannelNoise
	if p == 0 || p == 1 {
		return 1 - c, nil
	}
	seg := l.N2() / l.CommsSize
	logP, logQ := math.Log(p), math.Log(1-p)
	lg := func(n int) float64 { v, _ := math.Lgamma(float64(n + 1)); return v }

	var total float64
	for k := 0; k <= seg; k++ {
		prob := math.Exp(lg(seg) - lg(k) - lg(seg-k) + float64(k)*logP + float64(seg-k)*logQ)
		one := float64(k) / float64(seg)
		zero := 1 - one
		var win float64
		if 2*k >= seg {
			win = (1-c)*one + c*zero
		} else {
			win = (1-c)*zero + c*one
		}
		total += prob * win
	}
	return total, nil
}

// ExpectedWinRateAssisted is the win rate of PRAssistedPlayers with the
// given bias: 1/2 (1 + (2·bias - 1)^L) for L = log2(n2) levels, then passed
// through the channel noise.
func ExpectedWinRateAssisted(l Layout, bias float64) (float64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	if l.CommsSize != 1 {
		return 0, configErrorf("assisted win rate", "comms size %d, want 1", l.CommsSize)
	}
	if !(bias >= 0 && bias <= 1) {
		return 0, configErrorf("assisted win rate", "bias %v outside [0, 1]", bias)
	}
	c := l.ChannelNoise
	ideal := 0.5 * (1 + math.Pow(2*bias-1, float64(log2(l.N2()))))
	noisy := (1-c)*ideal + c*(1-ideal)
	return math.Max(0, math.Min(1, noisy)), nil
}

// InformationCausalityLimit is the highest per-cell success probability
// that m noisy bits can support under Information Causality.
func InformationCausalityLimit(l Layout, digits int) (float64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	n2 := float64(l.N2())
	eff := float64(l.CommsSize) * (1 - BinaryEntropy(l.ChannelNoise))
	switch {
	case eff <= 0:
		return 0.5, nil
	case eff >= n2:
		return 1, nil
	}
	return BinaryEntropyInverse(1-eff/n2, digits)
}
