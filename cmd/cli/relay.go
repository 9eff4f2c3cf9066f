package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"

	"github.com/acpkit/acpcore/internal/tracesink"
	"github.com/acpkit/acpcore/internal/transport/wsbridge"

	"github.com/spf13/cobra"
)

func newRelayCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Expose a demo ACP agent over a websocket for every incoming connection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")

			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Relay.ListenAddr
			}

			self, err := os.Executable()
			if err != nil {
				self = "acpcore"
			}

			var sink *tracesink.Sink
			if cfg.Trace.Enabled {
				sink = tracesink.New(cfg.Trace.Directory, slog.Default())
			}

			mux := http.NewServeMux()
			mux.Handle("/", newRelayHandler(self, configPath, sink))

			slog.Info("acp-relay listening", "addr", addr)
			return http.ListenAndServe(addr, mux)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides the config file)")

	return cmd
}

// newRelayHandler returns an http.Handler that spawns a fresh acp-agent
// subprocess for every websocket upgrade and bridges the socket to the
// child's stdio, per §6's transport-agnostic boundary.
func newRelayHandler(agentBin, configPath string, sink *tracesink.Sink) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		child := exec.Command(agentBin, "agent", "--config", configPath)
		child.Stderr = os.Stderr

		stdin, err := child.StdinPipe()
		if err != nil {
			http.Error(w, fmt.Sprintf("spawning agent: %v", err), http.StatusInternalServerError)
			return
		}
		stdout, err := child.StdoutPipe()
		if err != nil {
			http.Error(w, fmt.Sprintf("spawning agent: %v", err), http.StatusInternalServerError)
			return
		}
		if err := child.Start(); err != nil {
			http.Error(w, fmt.Sprintf("starting agent: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			stdin.Close()
			child.Wait()
		}()

		bridge := wsbridge.New(stdout, stdin)
		if sink != nil {
			bridge.OnLine(sink.RecordLine)
		}
		bridge.ServeHTTP(w, r)
	})
}
