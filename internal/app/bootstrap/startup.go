// internal/app/bootstrap/startup.go
package bootstrap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/groupdrop/groupdrop/internal/app/server"
	"github.com/groupdrop/groupdrop/internal/app/status"
	"github.com/groupdrop/groupdrop/internal/app/store/directory"
	"github.com/groupdrop/groupdrop/internal/app/store/persist"
	"github.com/groupdrop/groupdrop/internal/app/system/auditlog"
)

// Run wires the application together and serves until a shutdown
// signal or a fatal listener error.
func Run(args []string) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	if err := ensureDirs(cfg); err != nil {
		return err
	}

	files := persist.New(cfg.DataDir)
	dir := directory.New(files, cfg.StorageRoot, logger)
	if err := dir.Load(); err != nil {
		return fmt.Errorf("load directory tables: %w", err)
	}
	logger.Info("directory loaded",
		zap.Int("accounts", dir.Accounts.Len()),
		zap.Int("groups", dir.Groups.Len()),
	)

	audit := auditlog.New(logger, cfg.Audit)
	srv := server.New(dir, audit, logger, server.Config{IdleTimeout: cfg.IdleTimeout})

	if cfg.WatchData {
		watcher, err := persist.NewWatcher(files, logger, func(table string) {
			if err := dir.Load(); err != nil {
				logger.Warn("reload after data change failed",
					zap.String("file", table), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("start data watcher: %w", err)
		}
		defer watcher.Close()
	}

	if cfg.StatusAddr != "" {
		h := status.NewHandler(srv, dir, logger)
		go func() {
			if err := h.ListenAndServe(cfg.StatusAddr); err != nil {
				logger.Warn("status endpoint stopped", zap.Error(err))
			}
		}()
		logger.Info("status endpoint enabled", zap.String("addr", cfg.StatusAddr))
	}

	stop := watchSignals(srv, logger)
	defer stop()

	return srv.ListenAndServe(cfg.ListenAddr)
}
