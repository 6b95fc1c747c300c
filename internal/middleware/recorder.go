package middleware

import (
	"bytes"
	"net/http"
)

// statusRecorder wraps http.ResponseWriter and remembers the status code.
// When capture is positive the first capture bytes of the body are kept too.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
	capture    int
	body       bytes.Buffer
}

func newStatusRecorder(w http.ResponseWriter, capture int) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK, capture: capture}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	if room := sr.capture - sr.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		sr.body.Write(b[:room])
	}
	return sr.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}
