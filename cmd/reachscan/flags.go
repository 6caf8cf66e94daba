package main

import (
	"flag"
	"io"
	"time"

	"github.com/mfreeman451/reachscan/pkg/config"
)

type options struct {
	configPath string
	history    bool
	prune      time.Duration

	fs          *flag.FlagSet
	startIP     string
	endIP       string
	port        int
	timeout     float64
	concurrency int
	noResolve   bool
	nameserver  string
	outputDir   string
	dbPath      string
	logLevel    string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{fs: flag.NewFlagSet("reachscan", flag.ContinueOnError)}
	fs := opts.fs
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to JSON config file")
	fs.StringVar(&opts.startIP, "start", "", "First IPv4 address of the range (runs once without prompting)")
	fs.StringVar(&opts.endIP, "end", "", "Last IPv4 address of the range")
	fs.IntVar(&opts.port, "port", config.DefaultPort, "TCP port to probe")
	fs.Float64Var(&opts.timeout, "timeout", time.Duration(config.DefaultTimeout).Seconds(), "Connect timeout in seconds")
	fs.IntVar(&opts.concurrency, "concurrency", config.DefaultConcurrency, "Maximum probes in flight")
	fs.BoolVar(&opts.noResolve, "no-resolve", false, "Skip reverse DNS lookups for open hosts")
	fs.StringVar(&opts.nameserver, "nameserver", "", "DNS server for PTR lookups, e.g. 192.168.1.1:53")
	fs.StringVar(&opts.outputDir, "out", config.DefaultOutputDir, "Directory for CSV exports")
	fs.StringVar(&opts.dbPath, "db", "", "SQLite file for scan history")
	fs.StringVar(&opts.logLevel, "log-level", config.DefaultLogLevel, "Log level (trace, debug, info, warn, error)")
	fs.BoolVar(&opts.history, "history", false, "Print the last stored scan and exit (requires -db)")
	fs.DurationVar(&opts.prune, "prune", 0, "Remove stored results older than this before scanning")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return opts, nil
}

// apply overrides cfg with every flag given on the command line.
func (o *options) apply(cfg *config.ScanConfig) {
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			cfg.StartIP = o.startIP
		case "end":
			cfg.EndIP = o.endIP
		case "port":
			cfg.Port = o.port
		case "timeout":
			cfg.Timeout = config.Seconds(o.timeout)
		case "concurrency":
			cfg.Concurrency = o.concurrency
		case "no-resolve":
			resolve := !o.noResolve
			cfg.ResolveHostnames = &resolve
		case "nameserver":
			cfg.Nameserver = o.nameserver
		case "out":
			cfg.OutputDir = o.outputDir
		case "db":
			cfg.DBPath = o.dbPath
		case "log-level":
			cfg.LogLevel = o.logLevel
		}
	})
}
