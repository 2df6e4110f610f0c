package chi

import (
	"net/http"
	"time"

	"github.com/ringhub/voice-gateway/audit"
	"github.com/ringhub/voice-gateway/metrics"
)

/* exchangeObserver fans pipeline observations out to the audit recorder
 * and the metrics tracker. It is the only place the two meet.
 */
type exchangeObserver struct {
	recorder *audit.Recorder
	tracker  *metrics.Tracker
}

func (o exchangeObserver) Request(r *http.Request, body []byte) string {
	return o.recorder.Request(r, body)
}

func (o exchangeObserver) Response(id string, elapsed time.Duration, status int, header http.Header, body []byte) {
	o.recorder.Response(id, elapsed, status, header, body)
	if o.tracker != nil {
		o.tracker.Track(status, audit.Classify(elapsed.Milliseconds()).String())
	}
}
