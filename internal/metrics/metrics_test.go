package metrics

import (
	"testing"
	"time"
)

// TestHelpersSafeBeforeInit exercises every recording helper before Init;
// none may panic when the collectors are absent.
func TestHelpersSafeBeforeInit(t *testing.T) {
	RecordCandidateSampled()
	RecordCandidateRejected("no_stream_url")
	RecordCandidateAccepted()
	RecordCapture("success", 0.5)
	RecordDegenerateFrame()
	RecordPost("failure")
	SetLastPostTime(time.Now())
}

func TestInitIdempotent(t *testing.T) {
	Init()
	Init() // second call must not re-register collectors

	RecordCandidateSampled()
	RecordCandidateRejected("invalid_stream_url")
	RecordCandidateAccepted()
	RecordCapture("failure", 1.2)
	RecordDegenerateFrame()
	RecordPost("success")
	SetLastPostTime(time.Now())
}
