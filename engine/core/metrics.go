package core

import (
	"sync"
	"time"
)

const AVG_COUNT uint8 = 30

// ExportMetrics accumulates per-mesh export statistics for a batch run.
// Safe for concurrent use by the job workers.
type ExportMetrics struct {
	mutex sync.Mutex

	avgCounter uint8
	msTimes    [AVG_COUNT]float64
	msAvg      float64

	Meshes   int
	Failed   int
	Vertices int
	Indices  int
	Warnings int
	Errors   int
}

func NewExportMetrics() *ExportMetrics {
	return &ExportMetrics{}
}

// Update records one finished mesh export.
func (em *ExportMetrics) Update(elapsed time.Duration, vertices, indices, warnings, errors int) {
	em.mutex.Lock()
	defer em.mutex.Unlock()

	// Calculate rolling ms average over the last AVG_COUNT meshes
	ms := float64(elapsed.Microseconds()) / 1000.0
	em.msTimes[em.avgCounter] = ms
	samples := em.Meshes + 1
	if samples > int(AVG_COUNT) {
		samples = int(AVG_COUNT)
	}
	sum := 0.0
	for i := 0; i < samples; i++ {
		sum += em.msTimes[i]
	}
	em.msAvg = sum / float64(samples)
	em.avgCounter++
	em.avgCounter %= AVG_COUNT

	em.Meshes++
	em.Vertices += vertices
	em.Indices += indices
	em.Warnings += warnings
	em.Errors += errors
}

// Fail records a mesh that could not be loaded or written.
func (em *ExportMetrics) Fail() {
	em.mutex.Lock()
	defer em.mutex.Unlock()
	em.Failed++
}

// AverageMS returns the rolling average export time in milliseconds.
func (em *ExportMetrics) AverageMS() float64 {
	em.mutex.Lock()
	defer em.mutex.Unlock()
	return em.msAvg
}
