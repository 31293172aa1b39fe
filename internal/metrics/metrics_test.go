package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DnsBot/bot/chat"
)

func TestObserveGateway(t *testing.T) {
	m := New()

	m.ObserveGateway("create_record", 120*time.Millisecond, nil)
	m.ObserveGateway("create_record", 80*time.Millisecond, errors.New("boom"))
	m.ObserveGateway("list_zones", 10*time.Millisecond, nil)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.gatewayRequests.WithLabelValues("create_record", StatusSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.gatewayRequests.WithLabelValues("create_record", StatusError)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.gatewayDuration))
}

func TestDialogueEvent(t *testing.T) {
	m := New()

	m.DialogueEvent(chat.Event{Type: chat.EventStarted, WorkflowID: "create_record"})
	m.DialogueEvent(chat.Event{Type: chat.EventStarted, WorkflowID: "edit_record"})
	m.DialogueEvent(chat.Event{Type: chat.EventStep, WorkflowID: "edit_record"})
	m.DialogueEvent(chat.Event{Type: chat.EventCompleted, WorkflowID: "create_record"})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.dialoguesActive))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dialogueEvents.WithLabelValues("edit_record", chat.EventStep)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveGateway("delete_record", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `dnsbot_gateway_requests_total{operation="delete_record",status="success"} 1`)
}
