// Target is a fake local service used to exercise the dashboard by hand.
// It answers /health (and every other path) with a configurable status
// code after an optional artificial delay.
//
// Usage:
//
//	go run target.go -port 3000
//	go run target.go -port 3001 -status 503
//	go run target.go -port 3002 -delay 6s   # slower than the probe timeout
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	port := flag.Int("port", 3000, "port to listen on")
	status := flag.Int("status", 200, "status code to answer with")
	delay := flag.Duration("delay", 0, "artificial delay before answering")
	flag.Parse()

	handler := func(w http.ResponseWriter, r *http.Request) {
		if *delay > 0 {
			time.Sleep(*delay)
		}

		log.Printf("%s %s -> %d", r.Method, r.URL.Path, *status)
		w.WriteHeader(*status)
		fmt.Fprintf(w, `{"status":%d}`, *status)
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("target listening on %s (status=%d delay=%s)", addr, *status, *delay)
	log.Fatal(http.ListenAndServe(addr, http.HandlerFunc(handler)))
}
