package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentsociety"
	"github.com/hupe1980/agentsociety/agent"
	"github.com/hupe1980/agentsociety/brain"
	"github.com/hupe1980/agentsociety/core"
)

func newListenCmd() *cobra.Command {
	var (
		configPath string
		opsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Start the configured agents",
		Long:  "Spawns every agent in the config file, wires their friendships and prints inbound talk until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if len(cfg.Agents) == 0 {
				return fmt.Errorf("no agents configured")
			}

			logger := newLogger(cfg.Logging, cmd.ErrOrStderr())
			b, err := brain.New(cfg.Brain)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			s, err := agentsociety.FromConfig(cfg, func(o *agentsociety.Options) {
				o.Brain = b
				o.Responder = printResponder(out)
				o.Logger = logger
			})
			if err != nil {
				return err
			}
			defer s.Close()

			for _, a := range s.Agents() {
				role := "listening"
				if a.Terminal() {
					role = "terminal"
				}
				fmt.Fprintf(out, "%s %s on port %d\n", a.Name(), role, a.Port())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if opsAddr != "" {
				srv := &http.Server{Addr: opsAddr, Handler: newOpsRouter(s), ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("ops server failed", "addr", opsAddr, "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()
				logger.Info("ops server listening", "addr", opsAddr)
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "agentsociety.yaml", "path to agentsociety config file")
	cmd.Flags().StringVar(&opsAddr, "ops-addr", "", "serve /metrics, /health and /agents on this address")
	return cmd
}

// printResponder writes every inbound message to out, one at a time.
func printResponder(out io.Writer) agent.Responder {
	var mu sync.Mutex
	return agent.ResponderFunc(func(_ context.Context, self *agent.Agent, _ core.Peer, message string, params core.TalkParams) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "[%s]\n%s\n", self.Name(), message)
		if len(params.Attachments) > 0 {
			fmt.Fprintf(out, "attachments: %s\n", params)
		}
	})
}

type agentInfo struct {
	Name        string   `json:"name"`
	Instruction string   `json:"instruction"`
	Port        int      `json:"port"`
	Terminal    bool     `json:"terminal"`
	Friends     []string `json:"friends"`
	Tools       []string `json:"tools"`
}

func describe(a *agent.Agent) agentInfo {
	return agentInfo{
		Name:        a.Name(),
		Instruction: a.Instruction(),
		Port:        a.Port(),
		Terminal:    a.Terminal(),
		Friends:     a.Peers().Names(),
		Tools:       a.Tools().Names(),
	}
}

func newOpsRouter(s *agentsociety.Society) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/agents", func(w http.ResponseWriter, _ *http.Request) {
		agents := s.Agents()
		infos := make([]agentInfo, 0, len(agents))
		for _, a := range agents {
			infos = append(infos, describe(a))
		}
		writeJSON(w, http.StatusOK, infos)
	})
	r.Get("/agents/{name}", func(w http.ResponseWriter, req *http.Request) {
		a, ok := s.Agent(chi.URLParam(req, "name"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "agent not found"})
			return
		}
		writeJSON(w, http.StatusOK, describe(a))
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
