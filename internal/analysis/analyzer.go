package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/bodyfit-ai/bodyfit/internal/models"
)

// DefaultDelay is how long the mock analysis pretends to work
const DefaultDelay = 3 * time.Second

// Analyzer turns an uploaded image into body measurements
type Analyzer interface {
	Analyze(ctx context.Context, image models.ImageRef) (models.Measurements, error)
}

// FixedMeasurements is returned by MockAnalyzer for every image
var FixedMeasurements = models.Measurements{
	Height:     `5'8" (173 cm)`,
	Chest:      `40" (102 cm)`,
	Waist:      `34" (86 cm)`,
	Hips:       `38" (97 cm)`,
	Shoulders:  `44" (112 cm)`,
	BodyType:   "Athletic",
	Confidence: 94,
}

// MockAnalyzer waits for Delay and then returns FixedMeasurements.
// The image is never read.
type MockAnalyzer struct {
	Delay time.Duration
}

// NewMockAnalyzer creates a mock analyzer; a non-positive delay means DefaultDelay
func NewMockAnalyzer(delay time.Duration) *MockAnalyzer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &MockAnalyzer{Delay: delay}
}

func (a *MockAnalyzer) Analyze(ctx context.Context, image models.ImageRef) (models.Measurements, error) {
	slog.Debug("Mock analysis started", "image", image.Name, "delay", a.Delay)

	timer := time.NewTimer(a.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return models.Measurements{}, ctx.Err()
	case <-timer.C:
	}

	return FixedMeasurements, nil
}

// Run adapts an Analyzer call on image into a TaskFunc
func Run(a Analyzer, image models.ImageRef) TaskFunc {
	return func(ctx context.Context) (models.Measurements, error) {
		return a.Analyze(ctx, image)
	}
}
