package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/retint/internal/app/background"
	"github.com/bnema/retint/internal/app/dom"
	"github.com/bnema/retint/internal/app/engine"
	"github.com/bnema/retint/internal/app/messaging"
	"github.com/bnema/retint/internal/config"
	"github.com/bnema/retint/internal/domain/entity"
	"github.com/bnema/retint/internal/infrastructure/jsdom"
	"github.com/bnema/retint/internal/logging"
)

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var (
		tabs           []string
		stylesheetFile string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tweak host",
		Long: `Run the tweak host: a bus with a background coordinator and one
engine per tab, each applying overrides to a scripted document. Page
documents author the properties given in --stylesheet.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withCLI(func(cli *CLI) error {
				return runHost(cli, tabs, stylesheetFile)
			})
		},
	}

	cmd.Flags().StringSliceVar(&tabs, "tab", []string{"tab-1"}, "Tab ids to bring up at start")
	cmd.Flags().StringVar(&stylesheetFile, "stylesheet", "", "JSON file of page-authored property values")

	return cmd
}

func runHost(cli *CLI, tabs []string, stylesheetFile string) error {
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(cli.Config.Logging.Level),
		Format:     cli.Config.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	stylesheet, err := loadStylesheet(stylesheetFile)
	if err != nil {
		return err
	}

	if err := seedThemeDefaults(ctx, cli); err != nil {
		return err
	}

	if err := config.Watch(); err != nil {
		logger.Warn().Err(err).Msg("config watch unavailable")
	}
	config.OnConfigChange(func(_ *config.Config) {
		logger.Info().Msg("configuration reloaded")
	})

	bus := messaging.NewBus()
	host := newTabHost(cli, bus, stylesheet, cli.Config.Engine.DebounceWindow)
	coordinator := background.NewCoordinator(bus, host)
	coordinator.Start()
	defer coordinator.Stop()
	defer host.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	for _, tabID := range tabs {
		if err := host.InjectPageContext(gctx, tabID); err != nil {
			return fmt.Errorf("bring up tab %s: %w", tabID, err)
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})

	logger.Info().Strs("tabs", tabs).Msg("retint host running, interrupt to stop")
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadStylesheet reads the page-authored property values, empty when
// no file is given.
func loadStylesheet(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet %s: %w", path, err)
	}
	var stylesheet map[string]string
	if err := json.Unmarshal(data, &stylesheet); err != nil {
		return nil, fmt.Errorf("parse stylesheet %s: %w", path, err)
	}
	return stylesheet, nil
}

// seedThemeDefaults writes the configured theme defaults into an empty
// working buffer. A profile with stored tweaks is never touched.
func seedThemeDefaults(ctx context.Context, cli *CLI) error {
	if len(cli.Config.Theme.Defaults) == 0 {
		return nil
	}
	if len(cli.Store.GetWorkingTweaks(ctx)) > 0 {
		return nil
	}

	props := make(map[entity.CSSPropertyName]entity.StoredTweakEntry, len(cli.Config.Theme.Defaults))
	for key, value := range cli.Config.Theme.Defaults {
		props[entity.CSSPropertyName(key)] = entity.StoredTweakEntry{Value: value, Enabled: true}
	}
	if err := cli.Store.SetWorkingTweaks(ctx, props); err != nil {
		return fmt.Errorf("seed theme defaults: %w", err)
	}
	logging.FromContext(ctx).Info().Int("properties", len(props)).Msg("seeded theme defaults")
	return nil
}

// tabHost owns one engine plus scripted document per tab and doubles
// as the coordinator's injector.
type tabHost struct {
	cli        *CLI
	bus        *messaging.Bus
	stylesheet map[string]string
	window     time.Duration

	mu   sync.Mutex
	tabs map[string]*tabContext
}

type tabContext struct {
	engine     *engine.Engine
	unregister func()
}

func newTabHost(cli *CLI, bus *messaging.Bus, stylesheet map[string]string, window time.Duration) *tabHost {
	return &tabHost{
		cli:        cli,
		bus:        bus,
		stylesheet: stylesheet,
		window:     window,
		tabs:       make(map[string]*tabContext),
	}
}

// InjectPageContext implements background.Injector. Injecting into a
// tab that already has a live context reloads it instead.
func (h *tabHost) InjectPageContext(ctx context.Context, tabID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.tabs[tabID]; ok {
		return existing.engine.Reload(ctx)
	}

	doc, err := jsdom.New(h.stylesheet)
	if err != nil {
		return fmt.Errorf("create document for tab %s: %w", tabID, err)
	}

	eng := engine.New(engine.Config{
		TabID:          tabID,
		Store:          h.cli.Store,
		Notifier:       h.cli.Store,
		Applier:        dom.NewScriptApplier(doc),
		Bus:            h.bus,
		DebounceWindow: h.window,
	})
	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("start engine for tab %s: %w", tabID, err)
	}

	h.tabs[tabID] = &tabContext{
		engine:     eng,
		unregister: messaging.RegisterPageContext(h.bus, tabID, eng),
	}
	logging.FromContext(ctx).Info().Str("tab_id", tabID).Msg("page context up")
	return nil
}

// StopAll tears down every tab context.
func (h *tabHost) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for tabID, tab := range h.tabs {
		tab.unregister()
		tab.engine.Stop()
		delete(h.tabs, tabID)
	}
}
