package observability

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/ddeurl/internal/testutil/testlog"
)

func TestRegisterMetricsAndRecordersAreSafe(t *testing.T) {
	testlog.Start(t)
	RegisterMetrics()
	RegisterMetrics()

	RecordDDEMessage("execute", "ack")
	RecordDispatch(true, 40*time.Microsecond)
	RecordActivation("dde4qt", true)
	RecordRegistrationOp("dde4qt", "install", nil)
	RecordRegistrationOp("dde4qt", "uninstall", errors.New("denied"))
}

func TestHandlerExposesCounters(t *testing.T) {
	testlog.Start(t)
	RecordDDEMessage("initiate", "ack")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("unexpected status=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ddeurl_dde_messages_total") {
		t.Fatalf("missing dde counter in exposition")
	}
}
