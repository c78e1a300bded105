package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/pathwise/internal/api"
	"github.com/abhisek/pathwise/internal/config"
	"github.com/abhisek/pathwise/internal/eventlog"
	"github.com/abhisek/pathwise/internal/session"
	"github.com/abhisek/pathwise/internal/store"
)

// env is what most commands need: configuration, the local store, the
// loaded session and a client for the guidance service.
type env struct {
	cfg      *config.Config
	store    *store.Store
	sess     *session.Context
	client   *api.Client
	recorder *eventlog.Recorder
}

func (e *env) Close() {
	e.store.Close()
}

// loadConfig reads the environment and applies the --api override.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if u, _ := cmd.Flags().GetString("api"); u != "" {
		cfg.API.BaseURL = u
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--api: %w", err)
		}
	}
	return cfg, nil
}

// openStore opens the database selected by --db or the environment.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(cmd.Context(), s.KVRepo())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &env{
		cfg:      cfg,
		store:    s,
		sess:     sess,
		client:   newAPIClient(cfg),
		recorder: eventlog.New(s.EventRepo()),
	}, nil
}

func newAPIClient(cfg *config.Config) *api.Client {
	opts := []api.Option{
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent("pathwise/" + version),
	}
	if o := cfg.OAuth; o.Enabled() {
		opts = append(opts, api.WithOAuth2(o.TokenURL, o.ClientID, o.ClientSecret, o.Scopes...))
	}
	return api.NewClient(cfg.API.BaseURL, opts...)
}
