// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"flag"
	"net/http"

	"github.com/google/gops/agent"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arkimet/arkimet/internal/index"
	"github.com/arkimet/arkimet/internal/matcher"
	"github.com/arkimet/arkimet/pkg/arkilog"
	"github.com/arkimet/arkimet/pkg/metadata"
	"github.com/arkimet/arkimet/pkg/summary"
	"github.com/arkimet/arkimet/pkg/types"
)

// queriesServed counts /query and /summary requests by outcome, the
// ambient metric SPEC_FULL.md's domain-stack wiring note describes for
// "arki serve --metrics" (not load-bearing for correctness, purely
// observability on a debug surface).
var queriesServed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "arki_serve_requests_total",
	Help: "Requests handled by arki serve, by endpoint and outcome.",
}, []string{"endpoint", "outcome"})

// runServe exposes a read-only, debug-only HTTP surface over one
// dataset's index: GET /query?matcher=... and GET /summary?matcher=...
// This is not a dataset front-end (spec.md's Non-goals explicitly
// exclude that); it exists for manual inspection during development.
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", "./arki.json", "configuration file")
	indexPath := fs.String("index", "./index.sqlite", "path to the dataset's index database")
	addr := fs.String("addr", "localhost:8780", "address to listen on")
	withGops := fs.Bool("gops", false, "listen via github.com/google/gops/agent (for debugging)")
	withMetrics := fs.Bool("metrics", false, "expose /metrics (Prometheus)")
	fs.Parse(args)
	initConfig(*configFile)

	if *withGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			arkilog.Fatalf("gops/agent.Listen failed: %v", err)
		}
	}

	store, err := openDataset(*indexPath)
	if err != nil {
		arkilog.Fatalf("open index: %v", err)
	}
	defer store.Close()

	r := mux.NewRouter()
	r.HandleFunc("/query", queryHandler(store)).Methods(http.MethodGet)
	r.HandleFunc("/summary", summaryHandler(store)).Methods(http.MethodGet)
	if *withMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	arkilog.Info("arki serve listening on", *addr)
	arkilog.Fatal(http.ListenAndServe(*addr, r))
}

func compileMatcher(q string) (*matcher.Matcher, error) {
	return matcher.Parse(q)
}

func queryHandler(store *index.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		m, err := compileMatcher(req.URL.Query().Get("matcher"))
		if err != nil {
			queriesServed.WithLabelValues("query", "bad_matcher").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		results, err := store.Query(m)
		if err != nil {
			queriesServed.WithLabelValues("query", "error").Inc()
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		queriesServed.WithLabelValues("query", "ok").Inc()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, r := range results {
			if err := metadata.WriteItemSetText(w, r.Items); err != nil {
				return
			}
		}
	}
}

func summaryHandler(store *index.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		m, err := compileMatcher(req.URL.Query().Get("matcher"))
		if err != nil {
			queriesServed.WithLabelValues("summary", "bad_matcher").Inc()
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		results, err := store.Query(m)
		if err != nil {
			queriesServed.WithLabelValues("summary", "error").Inc()
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		s := summary.New()
		for _, r := range results {
			md := metadata.New()
			for _, item := range r.Items.Items() {
				md.Set(item)
			}
			md.Source = types.SourceBlob{Filename: r.File, Offset: uint64(r.Offset), Size: uint64(r.Size)}
			s.Add(md)
		}

		queriesServed.WithLabelValues("summary", "ok").Inc()
		w.Header().Set("Content-Type", "application/octet-stream")
		if _, err := w.Write(s.Encode()); err != nil {
			return
		}
	}
}
