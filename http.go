package gobanlist

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const maxQueryNameLen = 2048

type checkResponse struct {
	Domain    string `json:"domain"`
	Forbidden bool   `json:"forbidden"`
}

// runHTTP serves the small query API next to the DNS listeners.
func (s *Server) runHTTP(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/check", s.handleCheck)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{
		Addr:         s.HTTPListen,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("HTTP API graceful shutdown error.")
		}
	}()

	logrus.Info("HTTP API listening on ", s.HTTPListen)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleCheck answers GET /check?domain=. The same boundary normalization as
// the DNS handler applies: lowercase, trailing root dot stripped.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("domain"))
	if name == "" {
		http.Error(w, "domain is required", http.StatusBadRequest)
		return
	}
	if len(name) > maxQueryNameLen {
		http.Error(w, "domain is too long", http.StatusBadRequest)
		return
	}

	host := strings.ToLower(strings.TrimSuffix(name, "."))
	resp := checkResponse{
		Domain:    host,
		Forbidden: s.holder.Get().IsForbidden(NewDomain(host)),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logrus.WithError(err).Error("Fail to encode check response.")
	}
}
