package probe_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/stackwatch/internal/probe"
)

func TestProbe(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Probe Suite")
}

var _ = Describe("Probe", func() {
	var client *http.Client

	BeforeEach(func() {
		client = &http.Client{}
	})

	Context("reachable services", func() {
		It("captures the status code and latency of a 200 response", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			outcome := probe.Probe(context.Background(), client, srv.URL, time.Second)

			Expect(outcome.Reachable()).To(BeTrue())
			Expect(outcome.StatusCode).To(Equal(http.StatusOK))
			Expect(outcome.Latency).To(BeNumerically(">", 0))
		})

		It("reports non-2xx responses as reachable", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			outcome := probe.Probe(context.Background(), client, srv.URL, time.Second)

			Expect(outcome.Reachable()).To(BeTrue())
			Expect(outcome.StatusCode).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Context("unreachable services", func() {
		It("returns the unreachable outcome when the response exceeds the timeout", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			outcome := probe.Probe(context.Background(), client, srv.URL, 50*time.Millisecond)

			Expect(outcome.Reachable()).To(BeFalse())
			Expect(outcome.StatusCode).To(Equal(probe.StatusUnreachable))
			Expect(outcome.Latency).To(BeZero())
		})

		It("returns the unreachable outcome for a refused connection", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			url := srv.URL
			srv.Close()

			outcome := probe.Probe(context.Background(), client, url, time.Second)

			Expect(outcome.Reachable()).To(BeFalse())
			Expect(outcome.StatusCode).To(Equal(probe.StatusUnreachable))
		})

		It("returns the unreachable outcome for a malformed URL", func() {
			outcome := probe.Probe(context.Background(), client, "http://\x00invalid", time.Second)

			Expect(outcome.Reachable()).To(BeFalse())
		})

		It("returns the unreachable outcome when the parent context is already cancelled", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			outcome := probe.Probe(ctx, client, srv.URL, time.Second)

			Expect(outcome.Reachable()).To(BeFalse())
		})
	})
})
