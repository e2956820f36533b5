package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"citysim/db"
	httpadapter "citysim/internal/adapter/http"
	metricsinmem "citysim/internal/adapter/metrics/inmemory"
	gormrepo "citysim/internal/adapter/repo/gorm"
	"citysim/internal/adapter/repo/memory"
	"citysim/internal/adapter/wsfeed"
	"citysim/internal/app/command"
	"citysim/internal/app/ports"
	"citysim/internal/app/replay"
	"citysim/internal/app/simulation"
	"citysim/internal/app/status"
	"citysim/internal/config"
	"citysim/internal/domain/city"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const feedPath = "/ws"

func serveCmd(load func() (config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation loop behind the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, overrides server.addr")
	return cmd
}

type stores struct {
	tx        ports.TxManager
	commands  ports.CommandRepository
	events    ports.EventRepository
	snapshots ports.SnapshotRepository
}

// buildStores uses postgres when a DSN is configured and memory otherwise.
func buildStores(ctx context.Context, cfg config.ServerConfig) (stores, error) {
	if cfg.DSN == "" {
		store := memory.NewStore()
		hlog.Warn("CITYSIM_DB_DSN not set, city history is kept in memory only")
		return stores{
			tx:        memory.NewTxManager(store),
			commands:  memory.NewCommandRepo(store),
			events:    memory.NewEventRepo(store),
			snapshots: memory.NewSnapshotRepo(store),
		}, nil
	}
	conn, err := gormrepo.OpenPostgres(cfg.DSN, gormrepo.DefaultPoolConfig())
	if err != nil {
		return stores{}, err
	}
	if cfg.Migrate {
		if _, err := gormrepo.ApplyMigrations(ctx, conn, db.Migrations()); err != nil {
			return stores{}, err
		}
	}
	return stores{
		tx:        gormrepo.NewTxManager(conn),
		commands:  gormrepo.NewCommandRepo(conn),
		events:    gormrepo.NewEventRepo(conn),
		snapshots: gormrepo.NewSnapshotRepo(conn),
	}, nil
}

func runServe(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Bind the feed first so a taken port fails the command instead of
	// surfacing later from a goroutine.
	var feedLn net.Listener
	if cfg.Server.FeedAddr != "" {
		ln, err := net.Listen("tcp", cfg.Server.FeedAddr)
		if err != nil {
			return fmt.Errorf("city feed: %w", err)
		}
		feedLn = ln
	}

	st, err := buildStores(ctx, cfg.Server)
	if err != nil {
		if feedLn != nil {
			_ = feedLn.Close()
		}
		return err
	}

	var (
		hub       *wsfeed.Hub
		publisher ports.SnapshotPublisher
	)
	cityCfg := cfg.City
	if feedLn != nil {
		hub = wsfeed.NewHub(0)
		cityCfg.View = hub
		publisher = hub
	}
	rt := simulation.NewRuntime(city.New(cityCfg))
	recorder := metricsinmem.NewRecorder()

	commandUC := command.UseCase{
		Runtime:       rt,
		TxManager:     st.tx,
		Commands:      st.commands,
		Events:        st.events,
		Snapshots:     st.snapshots,
		Metrics:       recorder,
		Publisher:     publisher,
		SnapshotEvery: cfg.Server.SnapshotEvery,
		Now:           time.Now,
	}
	h := httpadapter.Handler{
		CityID:      rt.CityID(),
		CommandUC:   commandUC,
		StatusUC:    status.UseCase{Runtime: rt},
		ReplayUC:    replay.UseCase{TxManager: st.tx, Events: st.events},
		EventLimit:  cfg.Server.EventLimit,
		AllowOrigin: cfg.Server.AllowOrigin,
		KPI:         recorder,
	}

	g, gctx := errgroup.WithContext(ctx)
	if hub != nil {
		hub.Welcome = rt.Snapshot
		g.Go(func() error {
			hub.Run(gctx)
			return nil
		})
		mux := http.NewServeMux()
		mux.Handle(feedPath, hub)
		feed := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Go(func() error {
			hlog.Infof("city feed listening on %s%s", feedLn.Addr(), feedPath)
			if err := feed.Serve(feedLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("city feed: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return feed.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		return simulation.Loop{Sim: commandUC, Interval: cfg.Server.TickInterval}.Run(gctx)
	})

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)
	s.OnShutdown = append(s.OnShutdown, func(context.Context) { cancel() })
	// A failed feed or loop cancels gctx; take the API down with it.
	go func() {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := s.Shutdown(shutdownCtx); err != nil {
			hlog.Warnf("shutdown http server: %v", err)
		}
	}()

	hlog.Infof("citysim %s listening on %s (size=%d seed=%d)", rt.CityID(), cfg.Server.Addr, cfg.City.Economy.Size, cfg.City.Seed)
	s.Spin()

	cancel()
	return g.Wait()
}

func migrateCmd(load func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded SQL migrations to CITYSIM_DB_DSN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Server.DSN == "" {
				return errors.New("missing server.dsn or CITYSIM_DB_DSN")
			}
			conn, err := gormrepo.OpenPostgres(cfg.Server.DSN, gormrepo.DefaultPoolConfig())
			if err != nil {
				return err
			}
			applied, err := gormrepo.ApplyMigrations(cmd.Context(), conn, db.Migrations())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "applied %d migrations\n", len(applied))
			return err
		},
	}
}
