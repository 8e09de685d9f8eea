package main

import "flag"

// Options holds the command-line parameters.
type Options struct {
	ConfigPath string
	Ticks      uint64
	Seed       int64
	Serve      bool
	Verbose    bool
}

// NewOptions returns Options populated with defaults.
func NewOptions() *Options {
	return &Options{Serve: true}
}

// Bind attaches the options to the provided FlagSet.
func (o *Options) Bind(fs *flag.FlagSet) {
	fs.StringVar(&o.ConfigPath, "config", o.ConfigPath, "YAML config file layered over the built-in defaults")
	fs.Uint64Var(&o.Ticks, "ticks", o.Ticks, "run this many ticks headless and exit (0 = run paced until stopped)")
	fs.Int64Var(&o.Seed, "seed", o.Seed, "run seed (overrides simulation.seed; 0 = use config)")
	fs.BoolVar(&o.Serve, "serve", o.Serve, "serve the HTTP API while running paced")
	fs.BoolVar(&o.Verbose, "v", o.Verbose, "debug logging")
}
