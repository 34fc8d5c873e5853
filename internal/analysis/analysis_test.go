package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bodyfit-ai/bodyfit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewMockAnalyzerDefaults(t *testing.T) {
	assert.Equal(t, DefaultDelay, NewMockAnalyzer(0).Delay)
	assert.Equal(t, DefaultDelay, NewMockAnalyzer(-time.Second).Delay)
	assert.Equal(t, 5*time.Millisecond, NewMockAnalyzer(5*time.Millisecond).Delay)
}

func TestMockAnalyzerIgnoresInput(t *testing.T) {
	analyzer := NewMockAnalyzer(time.Millisecond)

	images := []models.ImageRef{
		{Name: "photo.jpg", Size: 1024, MediaType: "image/jpeg"},
		{Name: "tiny.png", Size: 1, MediaType: "image/png"},
		{Name: "huge.webp", Size: 50 << 20, MediaType: "image/webp"},
	}

	for _, img := range images {
		t.Run(img.Name, func(t *testing.T) {
			got, err := analyzer.Analyze(context.Background(), img)
			require.NoError(t, err)
			assert.Equal(t, FixedMeasurements, got)
		})
	}
}

func TestFixedMeasurements(t *testing.T) {
	assert.Equal(t, `5'8" (173 cm)`, FixedMeasurements.Height)
	assert.Equal(t, 94, FixedMeasurements.Confidence)
	assert.Equal(t, "Athletic", FixedMeasurements.BodyType)
}

func TestMockAnalyzerHonoursCancellation(t *testing.T) {
	analyzer := NewMockAnalyzer(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzer.Analyze(ctx, models.ImageRef{Name: "photo.jpg", MediaType: "image/jpeg"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskCompletes(t *testing.T) {
	task := Start(context.Background(), func(ctx context.Context) (models.Measurements, error) {
		return FixedMeasurements, nil
	})

	got, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FixedMeasurements, got)
	assert.Equal(t, TaskStatusComplete, task.Status())
	assert.NotEmpty(t, task.ID())
}

func TestTaskResultBeforeDone(t *testing.T) {
	release := make(chan struct{})
	task := Start(context.Background(), func(ctx context.Context) (models.Measurements, error) {
		<-release
		return FixedMeasurements, nil
	})

	_, err := task.Result()
	assert.Error(t, err)
	assert.Equal(t, TaskStatusRunning, task.Status())

	close(release)
	<-task.Done()
	_, err = task.Result()
	assert.NoError(t, err)
}

func TestTaskCancel(t *testing.T) {
	task := Start(context.Background(), Run(NewMockAnalyzer(time.Hour), models.ImageRef{}))
	task.Cancel()

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("cancelled task did not finish")
	}

	_, err := task.Result()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, TaskStatusCancelled, task.Status())
}

func TestTaskCancelAfterCompletionDiscardsResult(t *testing.T) {
	task := Start(context.Background(), func(ctx context.Context) (models.Measurements, error) {
		return FixedMeasurements, nil
	})
	<-task.Done()

	task.Cancel()

	got, err := task.Result()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, models.Measurements{}, got)
}

func TestTaskFailure(t *testing.T) {
	boom := errors.New("boom")
	task := Start(context.Background(), func(ctx context.Context) (models.Measurements, error) {
		return models.Measurements{}, boom
	})

	_, err := task.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, TaskStatusFailed, task.Status())
}

func TestTaskParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	task := Start(parent, Run(NewMockAnalyzer(time.Hour), models.ImageRef{}))
	cancel()

	_, err := task.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskWaitContext(t *testing.T) {
	task := Start(context.Background(), Run(NewMockAnalyzer(time.Hour), models.ImageRef{}))
	defer func() {
		task.Cancel()
		<-task.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
