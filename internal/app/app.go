// Package app wires configuration, the licensing gate, the hub and both
// transports together and owns the shutdown ordering.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"stalked/server/internal/config"
	"stalked/server/internal/hub"
	"stalked/server/internal/license"
	"stalked/server/internal/net/tcp"
	"stalked/server/internal/net/ws"
)

type Config struct {
	// ConfigPath locates serverconfig.ini; empty uses the working directory.
	ConfigPath string
	Logger     *logrus.Logger
}

// Run starts the server and blocks until ctx is cancelled or a listener
// fails. Shutdown closes the listeners, stops the loops, then drops every
// session.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	path := cfg.ConfigPath
	if path == "" {
		path = "serverconfig.ini"
	}

	fileCfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if fileCfg.MaxPlayers == 0 {
		if err := license.Authenticate("."); err != nil {
			return fmt.Errorf("MaxPlayers=0 requires partnership authentication: %w", err)
		}
		log.Info("partnership authenticated")
	}

	h := hub.New(hub.Config{
		Description: fileCfg.Description,
		MaxPlayers:  fileCfg.MaxPlayers,
		Difficulty:  fileCfg.Difficulty,
		Logger:      log,
	})

	stop := make(chan struct{})
	go h.RunSimulation(stop)
	go h.RunBroadcast(stop)
	go h.RunAutoStart(stop)

	tcpServer, err := tcp.Listen(fmt.Sprintf(":%d", fileCfg.Port), h, log)
	if err != nil {
		close(stop)
		return fmt.Errorf("listen on port %d: %w", fileCfg.Port, err)
	}

	wsHandler := ws.NewHandler(h, log)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeGame)
	mux.HandleFunc("/info", wsHandler.ServeInfo)
	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", fileCfg.Port+1), Handler: mux}

	occupancy := fmt.Sprintf("%d", fileCfg.MaxPlayers)
	if fileCfg.MaxPlayers == 0 {
		occupancy = "Unlimited (Partnership mode)"
	}
	log.WithFields(logrus.Fields{
		"host":        localIP(),
		"port":        fileCfg.Port,
		"ws_port":     fileCfg.Port + 1,
		"description": fileCfg.Description,
		"max_players": occupancy,
		"difficulty":  fileCfg.Difficulty.String(),
	}).Info("server started")

	errs := make(chan error, 2)
	go func() {
		errs <- tcpServer.Serve()
	}()
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errs:
	}

	log.Info("shutting down")
	tcpServer.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	httpServer.Shutdown(shutdownCtx)

	close(stop)
	h.Stop()
	return runErr
}

// localIP discovers the outward-facing interface address for operator
// logging. The dial never sends a packet.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
