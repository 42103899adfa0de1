package main

import (
	"github.com/spf13/cobra"

	"github.com/aeolun/ircweb/pkg/config"
)

// options are the persistent flags. A flag only overrides the config file
// and environment when it was set on the command line.
type options struct {
	configPath  string
	serverURL   string
	transport   string
	insecureWS  bool
	statePath   string
	logPath     string
	notify      bool
	metricsAddr string
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", config.DefaultPath, "path to config file")
	f.StringVarP(&o.serverURL, "server", "s", "", "web interface base URL")
	f.StringVarP(&o.transport, "transport", "t", "", "event feed transport (poll or ws)")
	f.BoolVar(&o.insecureWS, "insecure-ws", false, "skip certificate verification for wss:// feeds")
	f.StringVar(&o.statePath, "state", "", "path to the client state database")
	f.StringVar(&o.logPath, "log", "", "path to the log file")
	f.BoolVar(&o.notify, "notify", true, "desktop notifications for highlights")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
}

// load reads the config file and applies the flags that were set.
func (o *options) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	return o.apply(cmd, cfg)
}

func (o *options) apply(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	changed := cmd.Flags().Changed
	if changed("server") {
		cfg.Server.URL = o.serverURL
	}
	if changed("transport") {
		cfg.Server.Transport = o.transport
	}
	if changed("insecure-ws") {
		cfg.Server.InsecureWS = o.insecureWS
	}
	if changed("state") {
		cfg.Client.StatePath = o.statePath
	}
	if changed("log") {
		cfg.Client.LogPath = o.logPath
	}
	if changed("notify") {
		cfg.Client.Notify = o.notify
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = o.metricsAddr
	}
	return cfg, cfg.Validate()
}
