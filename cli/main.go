package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"brbshorts/catalog"
	"brbshorts/config"
	"brbshorts/internal/logging"
	"brbshorts/internal/metrics"
	"brbshorts/playback"
	"brbshorts/server"
	"brbshorts/settings"
)

func main() {
	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 && !isFlag(args[0]) {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		cmdServe(args)
	case "list":
		cmdList(args)
	case "reset":
		cmdReset(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func isFlag(s string) bool {
	return len(s) > 0 && s[0] == '-' && s != "-h" && s != "--help"
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `brbshorts - rotating YouTube Shorts for your OBS "be right back" scene

Usage:
  brbshorts [serve] [flags]      Run the web server (default)
  brbshorts list [flags]         Print the qualifying video ids
  brbshorts reset                Clear the saved API key and channel
  brbshorts help                 Show this help message

Examples:
  brbshorts                                   # Serve on 0.0.0.0:3000
  brbshorts serve --addr 127.0.0.1:8080       # Serve on another address
  brbshorts list --shuffle 10                 # Preview ten picks in play order
  BRB_SETTINGS_BACKEND=file brbshorts         # Keep settings in a JSON file

Configuration is read from brbshorts.json and BRB_* environment variables.
For help on specific command: brbshorts <command> -h
`)
}

// app holds the wired components shared by every command.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store settings.Store
	svc   *catalog.Service
}

func loadApp(m *metrics.Metrics, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.NewWithOutput(cfg.LogLevel, cfg.LogFormat, logOut)

	store := newStore(cfg, log)
	svc := catalog.NewService(store, newClientFactory(cfg), catalog.Options{
		CacheTTL:     cfgDuration(cfg.CacheTTL),
		FetchTimeout: cfgDuration(cfg.FetchTimeout),
		MaxPages:     cfg.MaxPages,
		Logger:       log,
		Metrics:      m,
	})
	return &app{cfg: cfg, log: log, store: store, svc: svc}, nil
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", "", "Listen address (overrides BRB_ADDR)")
	noBrowser := fs.Bool("no-browser", false, "Do not open the setup page on first run")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brbshorts serve [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	a, err := loadApp(m, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		a.cfg.Addr = *addr
		if err := a.cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	log := a.log

	srv, err := server.New(a.svc, server.Options{
		Logger:         log,
		Metrics:        m,
		Gatherer:       reg,
		Port:           a.cfg.Port(),
		RequestTimeout: cfgDuration(a.cfg.RequestTimeout),
		PollInterval:   cfgDuration(a.cfg.PollInterval),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := a.svc.Status(ctx)
	if err != nil {
		log.WithError(err).Warn("could not read settings")
		st = &catalog.Status{}
	}

	ready := func(bound net.Addr) {
		port := a.cfg.Port()
		if tcp, ok := bound.(*net.TCPAddr); ok {
			port = fmt.Sprint(tcp.Port)
		}
		printBanner(os.Stdout, bannerInfo{
			Port:    port,
			LocalIP: server.LocalIP(),
			Storage: storageDescription(a.cfg, a.store),
		})
		if !st.Configured && a.cfg.OpenBrowser && !*noBrowser {
			url := "http://localhost:" + port
			if err := openBrowser(ctx, url); err != nil {
				log.WithError(err).Debug("could not open browser")
			}
		}
	}

	if err := srv.Run(ctx, a.cfg.Addr, ready); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}

func cmdList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	shuffle := fs.Int("shuffle", 0, "Print this many picks in playback order instead of discovery order")
	asJSON := fs.Bool("json", false, "Print the /api/shorts JSON response")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brbshorts list [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	a, err := loadApp(nil, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintf(os.Stderr, "Fetching videos...\n")
	res, err := a.svc.Catalog(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrNotConfigured) {
			fmt.Fprintf(os.Stderr, "Error: not configured. Run brbshorts and visit /setup first.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error fetching videos: %v\n", err)
		}
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(res)
		return
	}

	if err := printList(os.Stdout, res.IDs, *shuffle, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "\nTotal: %d videos\n", res.Count)
}

// printList writes ids as a table. With picks > 0 it writes that many ids in
// playback order, cycling through reshuffles as the player would.
func printList(w io.Writer, ids []string, picks int, seq *playback.Sequencer) error {
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, "No videos found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVIDEO ID\tURL")

	if picks <= 0 {
		for i, id := range ids {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, id, shortURL(id))
		}
		return tw.Flush()
	}

	if seq == nil {
		seq = playback.New(ids, nil)
	}
	for i := range picks {
		id, ok := seq.Next()
		if !ok {
			break
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, id, shortURL(id))
	}
	return tw.Flush()
}

func shortURL(id string) string {
	return "https://youtube.com/shorts/" + id
}

func cmdReset(args []string) {
	fs := flag.NewFlagSet("reset", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: brbshorts reset\n")
	}
	fs.Parse(args)

	a, err := loadApp(nil, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := a.svc.Reset(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Settings cleared (%s).\n", storageDescription(a.cfg, a.store))
}
