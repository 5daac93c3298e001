package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsRegisterAndCount(t *testing.T) {
	before := testutil.ToFloat64(FramesRejected.WithLabelValues("metrics-test", ReasonSender))
	FramesRejected.WithLabelValues("metrics-test", ReasonSender).Inc()
	after := testutil.ToFloat64(FramesRejected.WithLabelValues("metrics-test", ReasonSender))
	if after-before != 1 {
		t.Errorf("FramesRejected delta = %v, want 1", after-before)
	}

	Deliberations.WithLabelValues("optimizer", "accepted").Inc()
	if got := testutil.ToFloat64(Deliberations.WithLabelValues("optimizer", "accepted")); got < 1 {
		t.Errorf("Deliberations = %v, want >= 1", got)
	}
}
