package mock

import (
	"encoding/json"
	"errors"
	"os"
	"short-video-agent/application/ports/outbound"
)

type EventReader interface {
	Read(fileName string) ([]MockEvent, error)
}

type fileEventReader struct {
	logger outbound.LoggerPort
}

func NewFileEventReader(logger outbound.LoggerPort) EventReader {
	return &fileEventReader{
		logger: logger,
	}
}

// Read loads a recording. The recording must end with its only terminal event.
func (f *fileEventReader) Read(fileName string) ([]MockEvent, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			f.logger.Error(err, "failed to close file")
		}
	}(file)

	var events []MockEvent
	if err := json.NewDecoder(file).Decode(&events); err != nil {
		f.logger.Error(err, "failed to decode json")
		return nil, err
	}

	if len(events) == 0 || !events[len(events)-1].Terminal() {
		return nil, errors.New("recording must end with a completed or failed event")
	}
	for _, e := range events[:len(events)-1] {
		if e.Terminal() {
			return nil, errors.New("recording has a terminal event before its end")
		}
	}

	return events, nil
}
