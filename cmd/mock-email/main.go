package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/newsletter/newsletter/internal/logger"
)

type options struct {
	addr       string
	failStatus int
	delay      time.Duration
	logFormat  string
}

// sendRequest is the subset of the Postmark email payload the stub inspects
type sendRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

type sendResponse struct {
	To          string    `json:"To"`
	SubmittedAt time.Time `json:"SubmittedAt"`
	MessageID   string    `json:"MessageID"`
	ErrorCode   int       `json:"ErrorCode"`
	Message     string    `json:"Message"`
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "mock-email",
		Short: "Postmark-compatible email API stub for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("debug", opts.logFormat).WithComponent("mock-email")
			log.Info().Str("addr", opts.addr).Msg("mock email API listening")
			return http.ListenAndServe(opts.addr, newMux(opts, log))
		},
	}
	rootCmd.Flags().StringVar(&opts.addr, "addr", "127.0.0.1:8081", "listen address")
	rootCmd.Flags().IntVar(&opts.failStatus, "fail-status", 0, "respond to every send with this HTTP status instead of 200")
	rootCmd.Flags().DurationVar(&opts.delay, "delay", 0, "wait this long before responding")
	rootCmd.Flags().StringVar(&opts.logFormat, "log-format", "console", "log format: json or console")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newMux(opts options, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /email", func(w http.ResponseWriter, r *http.Request) {
		var req sendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn().Err(err).Msg("undecodable send request")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(sendResponse{ErrorCode: 402, Message: "Invalid JSON"})
			return
		}

		log.Info().
			Str("from", req.From).
			Str("to", req.To).
			Str("subject", req.Subject).
			Bool("has_token", r.Header.Get("X-Postmark-Server-Token") != "").
			Msg("email received")
		log.Debug().Str("text_body", req.TextBody).Msg("email body")

		if opts.delay > 0 {
			select {
			case <-time.After(opts.delay):
			case <-r.Context().Done():
				return
			}
		}

		if opts.failStatus != 0 {
			w.WriteHeader(opts.failStatus)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sendResponse{
			To:          req.To,
			SubmittedAt: time.Now().UTC(),
			MessageID:   uuid.New().String(),
			ErrorCode:   0,
			Message:     "OK",
		})
	})
	return mux
}
