// Package main is the zenfocus CLI: a terminal focus timer that syncs
// through a zenfocusd server when signed in and stays fully functional
// on-device when not.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"zenfocus/internal/authsession"
	"zenfocus/internal/config"
	"zenfocus/internal/gateway"
	"zenfocus/internal/ledger"
	"zenfocus/internal/localstore"
	"zenfocus/internal/remote"
)

var (
	Version = "1.0.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zenfocus",
	Short: "Focus timer with optional account sync",
	Long: `zenfocus runs pomodoro-style focus/break cycles from the terminal.

Without an account everything is stored on this device. Sign in with
'zenfocus login' and your settings, tasks and history sync to the server;
if the connection or session drops, zenfocus keeps working locally.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(
		timerCmd,
		loginCmd,
		registerCmd,
		logoutCmd,
		whoamiCmd,
		taskCmd,
		historyCmd,
		statsCmd,
		settingsCmd,
		themeCmd,
	)
}

// app bundles the wired client core for command handlers.
type app struct {
	cfg    *config.Client
	log    *zap.Logger
	store  localstore.Store
	client *remote.Client
	auth   *authsession.Manager
	gw     *gateway.Gateway
	ledger *ledger.Ledger
}

func newApp() (*app, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dir := cfg.DataDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		dir = filepath.Join(configDir, "zenfocus")
	}

	store, err := localstore.NewDir(dir)
	if err != nil {
		return nil, err
	}

	client := remote.NewClient(cfg.ServerURL, cfg.Timeout)
	auth := authsession.NewManager(store, client, log)
	auth.Init()

	gw := gateway.New(store, client, auth, log)

	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		client: client,
		auth:   auth,
		gw:     gw,
		ledger: ledger.New(gw, log),
	}, nil
}

// close flushes in-flight background syncs before the process exits.
func (a *app) close() {
	a.gw.Wait()
	_ = a.log.Sync()
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
