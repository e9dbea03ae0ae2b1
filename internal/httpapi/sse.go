package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// sseEventType is one of the four envelope kinds a streamed tool call or
// refresh notification emits.
type sseEventType string

const (
	sseStart  sseEventType = "start"
	sseResult sseEventType = "result"
	sseError  sseEventType = "error"
	sseDone   sseEventType = "done"
)

type sseEvent struct {
	Type sseEventType `json:"type"`
	Data interface{}  `json:"data"`
}

// sseWriter streams sseEvent values as standard SSE "data: ..." frames,
// flushing after every write so clients see progress as it happens.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &sseWriter{w: w, flusher: flusher}, true
}

func (s *sseWriter) send(typ sseEventType, data interface{}) {
	payload, err := json.Marshal(sseEvent{Type: typ, Data: data})
	if err != nil {
		payload, _ = json.Marshal(sseEvent{Type: sseError, Data: map[string]string{"message": "failed to encode event"}})
	}
	fmt.Fprintf(s.w, "data: %s\n\n", payload)
	s.flusher.Flush()
}
