package main

import (
	"net/http"

	"github.com/angeloszaimis/stackwatch/internal/statusapi"
)

func setupRouter(api *statusapi.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/status", api.Status)
	mux.HandleFunc("/stats", api.Stats)

	return mux
}
