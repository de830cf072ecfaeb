package cli

import (
	"fmt"
	"log/slog"

	"github.com/sadopc/focuslock/internal/catalog"
	"github.com/sadopc/focuslock/internal/config"
	"github.com/sadopc/focuslock/internal/focus"
	"github.com/sadopc/focuslock/internal/kv"
	"github.com/sadopc/focuslock/internal/ledger"
	"github.com/sadopc/focuslock/internal/store"
	"github.com/sadopc/focuslock/internal/tui"
)

// services is the process-wide component graph, built once per command.
type services struct {
	store   *store.Store
	blobs   kv.Store
	catalog *catalog.Store
	ledger  *ledger.Ledger
	focus   *focus.Controller
}

// openServices opens the SQLite database and the configured blob backend.
// Settings and tags always live in SQLite; the memory backend keeps that
// database in memory too.
func openServices(cfg *config.Config, log *slog.Logger) (*services, error) {
	var (
		st  *store.Store
		err error
	)
	if cfg.Backend == config.BackendMemory {
		st, err = store.NewMemory()
	} else {
		st, err = store.New(store.DBPath(cfg.DataDir))
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var blobs kv.Store = st
	if cfg.Backend == config.BackendDisk {
		disk, err := kv.NewDisk(cfg.BlobDir())
		if err != nil {
			st.Close()
			return nil, err
		}
		blobs = disk
	}

	cat := catalog.New(blobs, catalog.WithLogger(log))
	led := ledger.New(blobs, cat, ledger.WithLogger(log))
	fc := focus.New(led, blobs,
		focus.WithLogger(log),
		focus.WithTags(st),
		focus.WithGoal(st.FocusGoal()),
	)

	log.Debug("services ready", "backend", cfg.Backend, "data_dir", cfg.DataDir)
	return &services{
		store:   st,
		blobs:   blobs,
		catalog: cat,
		ledger:  led,
		focus:   fc,
	}, nil
}

func (s *services) tui() *tui.Services {
	return &tui.Services{
		Store:   s.store,
		Catalog: s.catalog,
		Ledger:  s.ledger,
		Focus:   s.focus,
	}
}

func (s *services) Close() error {
	return s.store.Close()
}
