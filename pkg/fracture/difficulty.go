package fracture

// Wave difficulty tuning constants.
const (
	baseAsteroidCount = 4
	asteroidsPerWave  = 2
	maxAsteroidCount  = 12
	speedStepPerWave  = 0.1
)

// sizeWeightBuckets bias tier draws toward large asteroids on early
// waves and small ones later. Bucket index advances every two waves.
var sizeWeightBuckets = [][]int{
	{3, 3, 2, 2, 1},
	{3, 2, 2, 1, 1},
	{2, 2, 1, 1, 1},
	{2, 1, 1, 1, 1},
}

// WaveDifficulty describes the spawn parameters for one wave.
type WaveDifficulty struct {
	AsteroidCount   int
	SpeedMultiplier float64
	SizeWeights     []int
}

// CalculateWaveDifficulty derives spawn parameters from a wave number.
// Count grows by two per wave from a base of four, capped at twelve.
func CalculateWaveDifficulty(waveNumber int) WaveDifficulty {
	count := baseAsteroidCount + (waveNumber-1)*asteroidsPerWave
	if count > maxAsteroidCount {
		count = maxAsteroidCount
	}

	bucket := (waveNumber - 1) / 2
	if bucket >= len(sizeWeightBuckets) {
		bucket = len(sizeWeightBuckets) - 1
	}

	return WaveDifficulty{
		AsteroidCount:   count,
		SpeedMultiplier: 1.0 + float64(waveNumber-1)*speedStepPerWave,
		SizeWeights:     sizeWeightBuckets[bucket],
	}
}
