package models

import (
	"strings"
	"time"
)

// Phase is the stage of an upload session
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseImageSelected Phase = "image_selected"
	PhaseAnalyzing     Phase = "analyzing"
	PhaseComplete      Phase = "complete"
)

func (p Phase) String() string {
	return string(p)
}

// ImageRef describes a user supplied image. Only metadata is kept here;
// the bytes live in the preview store under PreviewID.
type ImageRef struct {
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MediaType string `json:"media_type"`
	PreviewID string `json:"preview_id,omitempty"`
}

// IsImage reports whether the declared media type is an image type
func (r ImageRef) IsImage() bool {
	return IsImageMediaType(r.MediaType)
}

// IsImageMediaType reports whether mediaType begins with "image/"
func IsImageMediaType(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}

// Measurements is the body measurement result shown after analysis
type Measurements struct {
	Height     string `json:"height" yaml:"height"`
	Chest      string `json:"chest" yaml:"chest"`
	Waist      string `json:"waist" yaml:"waist"`
	Hips       string `json:"hips" yaml:"hips"`
	Shoulders  string `json:"shoulders" yaml:"shoulders"`
	BodyType   string `json:"body_type" yaml:"body_type"`
	Confidence int    `json:"confidence" yaml:"confidence"`
}

// SessionView is a point-in-time copy of an upload session
type SessionView struct {
	ID         string        `json:"id"`
	Phase      Phase         `json:"phase"`
	Image      *ImageRef     `json:"image,omitempty"`
	Result     *Measurements `json:"result,omitempty"`
	DragActive bool          `json:"drag_active"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (v SessionView) Idle() bool {
	return v.Phase == PhaseIdle
}

func (v SessionView) Complete() bool {
	return v.Phase == PhaseComplete && v.Result != nil
}

// Analyzing reports whether an analysis is in flight
func (v SessionView) Analyzing() bool {
	return v.Phase == PhaseAnalyzing
}

// ShowPreview reports whether the selected image preview should be shown
func (v SessionView) ShowPreview() bool {
	return v.Phase == PhaseImageSelected || v.Phase == PhaseAnalyzing
}
