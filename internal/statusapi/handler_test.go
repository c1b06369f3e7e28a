package statusapi_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/stackwatch/internal/aggregate"
	"github.com/angeloszaimis/stackwatch/internal/scheduler"
	"github.com/angeloszaimis/stackwatch/internal/stats"
	"github.com/angeloszaimis/stackwatch/internal/statusapi"
)

func TestStatusAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "StatusAPI Suite")
}

var _ = Describe("Handler", func() {
	var (
		log       *slog.Logger
		collector *stats.Collector
	)

	BeforeEach(func() {
		log = slog.Default()
		collector = stats.NewCollector(64, log)
	})

	Describe("Status", func() {
		It("reports first_load before any cycle has completed", func() {
			sched := scheduler.New(nil, time.Second, time.Hour, log)
			defer sched.Stop()

			handler := statusapi.New(log, sched, collector)

			rec := httptest.NewRecorder()
			handler.Status(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(rec.Body.String()).To(MatchJSON(`{"first_load":true,"services":[]}`))
		})

		It("serves the latest snapshot in spec order", func() {
			target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer target.Close()

			specs := []aggregate.Spec{
				{ID: "api", URL: target.URL, Expect: []int{200}},
				{ID: "gone", URL: "http://127.0.0.1:1", Expect: []int{200}},
			}
			sched := scheduler.New(specs, time.Second, time.Hour, log)
			defer sched.Stop()

			sched.Start(context.Background())
			Eventually(sched.Updates()).Should(Receive())

			handler := statusapi.New(log, sched, collector)
			rec := httptest.NewRecorder()
			handler.Status(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

			var resp struct {
				FirstLoad bool `json:"first_load"`
				Services  []map[string]interface{}
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.FirstLoad).To(BeFalse())
			Expect(resp.Services).To(HaveLen(2))
			Expect(resp.Services[0]["id"]).To(Equal("api"))
			Expect(resp.Services[0]["ok"]).To(Equal(true))
			Expect(resp.Services[1]["id"]).To(Equal("gone"))
			Expect(resp.Services[1]["status"]).To(Equal("unreachable"))
		})
	})

	Describe("Stats", func() {
		It("serves the stats snapshot as JSON", func() {
			sched := scheduler.New(nil, time.Second, time.Hour, log)
			defer sched.Stop()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			collector.Start(ctx)
			collector.RecordCycle([]aggregate.Status{
				{ID: "api", StatusCode: 200, Latency: 5 * time.Millisecond, OK: true},
			})
			Eventually(func() int64 { return collector.Snapshot().Cycles }).Should(Equal(int64(1)))

			handler := statusapi.New(log, sched, collector)
			rec := httptest.NewRecorder()
			handler.Stats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Expect(rec.Code).To(Equal(http.StatusOK))

			var snap stats.Snapshot
			Expect(json.Unmarshal(rec.Body.Bytes(), &snap)).To(Succeed())
			Expect(snap.Cycles).To(Equal(int64(1)))
			Expect(snap.Services).To(HaveKey("api"))
		})
	})
})
