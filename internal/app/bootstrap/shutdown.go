// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/server"
)

// watchSignals closes the server's listener on SIGINT/SIGTERM so
// ListenAndServe returns cleanly. Live connections finish on their own;
// their workers release sessions and locks as clients disconnect. The
// returned stop func detaches the signal handler.
func watchSignals(srv *server.Server, logger *zap.Logger) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig, ok := <-ch
		if !ok {
			return
		}
		logger.Info("shutting down", zap.String("signal", sig.String()))
		_ = srv.Close()
	}()

	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
