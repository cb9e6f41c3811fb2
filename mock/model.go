package mock

import "short-video-agent/domain"

// MockEvent is one recorded progress event and the pause before it is sent.
type MockEvent struct {
	domain.ProgressEvent
	DelayMs int `json:"delay_ms"`
}
