package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bodyfit-ai/bodyfit/internal/analysis"
	"github.com/bodyfit-ai/bodyfit/internal/models"
	"github.com/bodyfit-ai/bodyfit/internal/preview"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrNoImage              = errors.New("no image selected")
	ErrClosed               = errors.New("session closed")
)

// File is an image handed to the session by the picker or a drop
type File struct {
	Name      string
	Size      int64
	MediaType string
	Data      []byte
}

// Session is the upload/analysis state machine for one visitor.
//
//	Idle -> ImageSelected -> Analyzing -> Complete
//
// Reset returns to Idle from any phase.
type Session struct {
	id       string
	analyzer analysis.Analyzer
	previews *preview.Store

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	phase      models.Phase
	image      *models.ImageRef
	result     *models.Measurements
	dragActive bool
	task       *analysis.Task
	updatedAt  time.Time
	subs       map[int]chan models.SessionView
	nextSub    int
	closed     bool
}

// New creates an idle session. A nil analyzer falls back to the mock
// analyzer; a nil preview store means no previews are kept.
func New(id string, analyzer analysis.Analyzer, previews *preview.Store) *Session {
	if analyzer == nil {
		analyzer = analysis.NewMockAnalyzer(analysis.DefaultDelay)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:        id,
		analyzer:  analyzer,
		previews:  previews,
		ctx:       ctx,
		cancel:    cancel,
		phase:     models.PhaseIdle,
		updatedAt: time.Now(),
		subs:      make(map[int]chan models.SessionView),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Phase() models.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Snapshot() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Select stores f as the session image. Non-image files are refused with
// ErrUnsupportedMediaType and leave the session untouched. Selecting while
// an image is already selected replaces it.
func (s *Session) Select(f File) error {
	if !models.IsImageMediaType(f.MediaType) {
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, f.MediaType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.phase != models.PhaseIdle && s.phase != models.PhaseImageSelected {
		return fmt.Errorf("%w: select while %s", ErrInvalidTransition, s.phase)
	}

	s.releasePreviewLocked()

	ref := models.ImageRef{
		Name:      f.Name,
		Size:      f.Size,
		MediaType: f.MediaType,
	}
	if s.previews != nil {
		ref.PreviewID = s.previews.Put(f.MediaType, f.Data)
	}

	s.image = &ref
	s.phase = models.PhaseImageSelected
	s.changedLocked()

	slog.Info("Image selected", "session_id", s.id, "name", f.Name, "size", f.Size, "media_type", f.MediaType)
	return nil
}

// Drop handles files dropped on the drop target. Only the first file is
// considered.
func (s *Session) Drop(files []File) error {
	s.Drag(DragLeave)
	if len(files) == 0 {
		return nil
	}
	return s.Select(files[0])
}

// Drag updates the cosmetic drag-active flag
func (s *Session) Drag(ev DragEvent) {
	active := ev == DragEnter || ev == DragOver

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.dragActive == active {
		return
	}
	s.dragActive = active
	s.changedLocked()
}

// Analyze starts the analysis of the selected image. The session is
// Analyzing when Analyze returns and moves to Complete once the task ends.
func (s *Session) Analyze() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	switch s.phase {
	case models.PhaseIdle:
		return ErrNoImage
	case models.PhaseAnalyzing, models.PhaseComplete:
		return fmt.Errorf("%w: analyze while %s", ErrInvalidTransition, s.phase)
	}

	task := analysis.Start(s.ctx, analysis.Run(s.analyzer, *s.image))
	s.task = task
	s.phase = models.PhaseAnalyzing
	s.changedLocked()

	slog.Info("Analysis started", "session_id", s.id, "task_id", task.ID())

	go s.await(task)
	return nil
}

// await applies the outcome of task if it is still the current one
func (s *Session) await(task *analysis.Task) {
	<-task.Done()
	result, err := task.Result()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.task != task || s.phase != models.PhaseAnalyzing {
		slog.Debug("Discarding stale analysis", "session_id", s.id, "task_id", task.ID())
		return
	}
	s.task = nil

	if err != nil {
		slog.Error("Analysis failed", "session_id", s.id, "task_id", task.ID(), "err", err)
		s.phase = models.PhaseImageSelected
		s.changedLocked()
		return
	}

	s.result = &result
	s.phase = models.PhaseComplete
	s.changedLocked()

	slog.Info("Analysis complete", "session_id", s.id, "task_id", task.ID(), "confidence", result.Confidence)
}

// Reset returns the session to Idle, cancelling any pending analysis and
// releasing the preview.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	s.releasePreviewLocked()
	s.image = nil
	s.result = nil
	s.phase = models.PhaseIdle
	s.changedLocked()

	slog.Info("Session reset", "session_id", s.id)
}

// Subscribe returns a channel that receives the current snapshot and then
// the latest snapshot after each change. Slow readers only see the newest
// value. The returned func unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan models.SessionView, func()) {
	ch := make(chan models.SessionView, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// Close cancels any pending analysis, releases the preview and closes
// subscriber channels. The session refuses further changes.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	s.cancel()
	s.releasePreviewLocked()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}

	slog.Debug("Session closed", "session_id", s.id)
}

func (s *Session) releasePreviewLocked() {
	if s.image != nil && s.previews != nil {
		s.previews.Release(s.image.PreviewID)
	}
}

func (s *Session) snapshotLocked() models.SessionView {
	view := models.SessionView{
		ID:         s.id,
		Phase:      s.phase,
		DragActive: s.dragActive,
		UpdatedAt:  s.updatedAt,
	}
	if s.image != nil {
		img := *s.image
		view.Image = &img
	}
	if s.result != nil {
		res := *s.result
		view.Result = &res
	}
	return view
}

func (s *Session) changedLocked() {
	s.updatedAt = time.Now()
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale value so the newest one fits
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
