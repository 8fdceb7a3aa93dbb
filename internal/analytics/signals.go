package analytics

// Trend classifies the slope of the daily completion series.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendDeclining Trend = "Declining"
	TrendStable    Trend = "Stable"
)

// Risk classifies recent completion against the longer-run baseline.
type Risk string

const (
	RiskTooEarly  Risk = "Too early"
	RiskHigh      Risk = "High Risk"
	RiskDeclining Risk = "Declining"
	RiskStable    Risk = "Stable"
)

const (
	// MomentumShortWindow and MomentumLongWindow are the windows the progress
	// view compares.
	MomentumShortWindow = 7
	MomentumLongWindow  = 21

	trendMinDates = 7
	trendSlope    = 0.01

	riskMinDates   = 10
	riskShort      = 7
	riskLong       = 21
	riskHighCutoff = 0.4
)

// Momentum is the mean of the trailing window entries of the daily series.
// The window counts dates that have data, not calendar days. ok is false when
// fewer than window dates exist.
func Momentum(log Log, window int) (value float64, ok bool) {
	if window <= 0 {
		return 0, false
	}
	daily := dailyFractions(log)
	if len(daily) < window {
		return 0, false
	}
	return mean(tail(daily, window)), true
}

// ConsistencyTrend fits a least-squares line to the daily series against a
// 0-based day index and classifies its slope. ok is false below seven dates.
func ConsistencyTrend(log Log) (trend Trend, ok bool) {
	daily := dailyFractions(log)
	if len(daily) < trendMinDates {
		return "", false
	}

	m := slope(daily)
	switch {
	case m > trendSlope:
		return TrendImproving, true
	case m < -trendSlope:
		return TrendDeclining, true
	default:
		return TrendStable, true
	}
}

// RiskSignal compares the trailing 7-day mean with the trailing 21-day mean
// (or the whole series when shorter). The first matching rule wins.
func RiskSignal(log Log) Risk {
	daily := dailyFractions(log)
	if len(daily) < riskMinDates {
		return RiskTooEarly
	}

	short := mean(tail(daily, riskShort))
	long := mean(daily)
	if len(daily) >= riskLong {
		long = mean(tail(daily, riskLong))
	}

	if short < riskHighCutoff {
		return RiskHigh
	}
	if short < long {
		return RiskDeclining
	}
	return RiskStable
}

func tail(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// slope is the first-degree least-squares coefficient of ys against 0..n-1.
func slope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	mx := (n - 1) / 2
	my := mean(ys)

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - mx
		num += dx * (y - my)
		den += dx * dx
	}
	return num / den
}
