package session

import "fmt"

// DragEvent is a drag-and-drop event reported by the drop target
type DragEvent string

const (
	DragEnter DragEvent = "enter"
	DragOver  DragEvent = "over"
	DragLeave DragEvent = "leave"
)

// ParseDragEvent accepts both the short names and the DOM event names
func ParseDragEvent(s string) (DragEvent, error) {
	switch s {
	case "enter", "dragenter":
		return DragEnter, nil
	case "over", "dragover":
		return DragOver, nil
	case "leave", "dragleave":
		return DragLeave, nil
	default:
		return "", fmt.Errorf("unknown drag event %q", s)
	}
}
