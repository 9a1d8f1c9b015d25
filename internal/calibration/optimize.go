package calibration

import "math"

// candidateStep is the grid resolution the proposer searches over; a
// coarse grid keeps this offline and informational rather than a real
// optimizer that could silently start driving the active config.
const candidateStep = 5.0

// ProposeWeights searches nearby weight vectors for one minimizing mean
// absolute bias against ground truth, recomputing each sample's
// predicted total from its recorded PillarRawScores under every
// candidate so the search doesn't need to re-run the pipeline. A
// candidate is only scored if it stays within maxShift of current on
// every axis (the grade-band stability constraint) and still sums to
// 100. Returns current, unchanged, if fewer than minSamples
// ground-truthed samples are available or no candidate beats it. Never
// activates the result; callers must persist it as a new draft Config.
func ProposeWeights(current PillarWeights, samples []Sample, minSamples int, maxShift float64) PillarWeights {
	scored := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.GroundTruth != nil && len(s.PillarRawScores) > 0 {
			scored = append(scored, s)
		}
	}
	if len(scored) < minSamples {
		return current
	}

	best := current
	bestBias := meanAbsBias(current, scored)

	// Shift weight pairwise between two axes so every candidate still
	// sums to 100 without a separate renormalization step.
	axes := pillarAxes()
	for _, from := range axes {
		for _, to := range axes {
			if from == to {
				continue
			}
			candidate := shift(shift(current, from, -candidateStep), to, candidateStep)
			if !withinShift(current, candidate, maxShift) {
				continue
			}
			if math.Abs(candidate.Sum()-100) > weightSumEpsilon {
				continue
			}
			if b := meanAbsBias(candidate, scored); b < bestBias {
				bestBias = b
				best = candidate
			}
		}
	}
	return best
}

// predictedTotal recomputes a sample's total score under w from its
// recorded per-pillar raw scores.
func predictedTotal(w PillarWeights, raw map[string]float64) float64 {
	var total float64
	for name, weight := range map[string]float64{
		"technical": w.Technical, "structure": w.Structure, "schema": w.Schema,
		"authority": w.Authority, "retrieval": w.Retrieval, "coverage": w.Coverage,
		"entity_recognition": w.EntityRecognition,
	} {
		if r, ok := raw[name]; ok {
			total += r / 100 * weight
		}
	}
	return total
}

func meanAbsBias(w PillarWeights, samples []Sample) float64 {
	var sum float64
	var n int
	for _, s := range samples {
		if s.GroundTruth == nil {
			continue
		}
		predicted := predictedTotal(w, s.PillarRawScores)
		sum += math.Abs(predicted - *s.GroundTruth)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

type pillarAxis string

const (
	axisTechnical pillarAxis = "technical"
	axisStructure pillarAxis = "structure"
	axisSchema    pillarAxis = "schema"
	axisAuthority pillarAxis = "authority"
	axisRetrieval pillarAxis = "retrieval"
	axisCoverage  pillarAxis = "coverage"
)

func pillarAxes() []pillarAxis {
	return []pillarAxis{axisTechnical, axisStructure, axisSchema, axisAuthority, axisRetrieval, axisCoverage}
}

func shift(w PillarWeights, axis pillarAxis, delta float64) PillarWeights {
	switch axis {
	case axisTechnical:
		w.Technical += delta
	case axisStructure:
		w.Structure += delta
	case axisSchema:
		w.Schema += delta
	case axisAuthority:
		w.Authority += delta
	case axisRetrieval:
		w.Retrieval += delta
	case axisCoverage:
		w.Coverage += delta
	}
	return w
}

func withinShift(a, b PillarWeights, maxShift float64) bool {
	diffs := []float64{
		math.Abs(a.Technical - b.Technical),
		math.Abs(a.Structure - b.Structure),
		math.Abs(a.Schema - b.Schema),
		math.Abs(a.Authority - b.Authority),
		math.Abs(a.Retrieval - b.Retrieval),
		math.Abs(a.Coverage - b.Coverage),
	}
	for _, d := range diffs {
		if d > maxShift {
			return false
		}
	}
	return true
}
