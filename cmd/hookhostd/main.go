package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hookhost/hookhost/internal/config"
	"github.com/hookhost/hookhost/internal/dispatcher"
	"github.com/hookhost/hookhost/internal/hooks"
	"github.com/hookhost/hookhost/internal/logging"
	"github.com/hookhost/hookhost/internal/respcache"
	"github.com/hookhost/hookhost/internal/tlsmaterial"
)

// cliOptions collects the parsed CLI flags, kept as a struct so tests can
// drive run() directly instead of going through os.Args.
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

const version = "0.1.0"

func main() {
	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run executes the daemon's full startup sequence: config → logging →
// hook registry/watcher → response cache → dispatcher server → Fiber app
// → listener manager, then blocks until an interrupt or terminate signal.
func run(opts cliOptions) int {
	if opts.showVersion {
		fmt.Fprintf(stdOut, "hookhostd %s\n", version)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "loading config: %v\n", err)
		return 1
	}

	logger, err := logging.Init(cfg)
	if err != nil {
		fmt.Fprintf(stdErr, "initializing logger: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["sites"] = len(cfg.Sites)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("configuration valid")
		return 0
	}

	registry := hooks.NewRegistry()

	moduleDir := cfg.BaseDir
	watcher, err := hooks.NewWatcher(moduleDir, registry, cfg.WatchDebounce.Value(), logger.WithField("component", "watcher"))
	if err != nil {
		fmt.Fprintf(stdErr, "initializing hook module watcher: %v\n", err)
		return 1
	}
	if err := watcher.LoadAll(); err != nil {
		fmt.Fprintf(stdErr, "loading hook modules: %v\n", err)
		return 1
	}
	if err := watcher.Start(); err != nil {
		fmt.Fprintf(stdErr, "starting hook module watcher: %v\n", err)
		return 1
	}
	defer watcher.Stop()

	cache := respcache.New(cfg.CacheSize)

	server := dispatcher.NewServer(cfg, registry, cache, logger)

	app, err := dispatcher.NewApp(server)
	if err != nil {
		fmt.Fprintf(stdErr, "building HTTP app: %v\n", err)
		return 1
	}

	var tlsProvider tlsmaterial.Provider
	if cfg.TLSEnabled() {
		tlsProvider = tlsmaterial.NewFileProvider(cfg.Secure)
	}

	listeners := dispatcher.NewListenerManager(cfg, app, tlsProvider, logger)
	if err := listeners.Start(); err != nil {
		fmt.Fprintf(stdErr, "starting listeners: %v\n", err)
		return 1
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["sites"] = len(cfg.Sites)
	fields["addrs"] = cfg.Addrs
	fields["ports"] = cfg.Ports
	fields["secure_ports"] = cfg.SecurePorts
	logger.WithFields(fields).Info("hookhostd started")

	waitForShutdown()
	logger.Info("shutting down")
	return 0
}

func waitForShutdown() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

// parseCLIFlags parses CLI arguments and resolves the config path against
// the HOOKHOST_CONFIG environment variable, with -config taking priority.
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("hookhostd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "config file path (default ./config.toml, overridable via HOOKHOST_CONFIG)")
	fs.BoolVar(&checkOnly, "check-config", false, "validate configuration and exit")
	fs.BoolVar(&showVer, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("parsing flags: %w", err)
	}

	path := os.Getenv("HOOKHOST_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}
