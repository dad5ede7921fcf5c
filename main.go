// alpaca-hub serves astronomy devices over the ASCOM Alpaca protocol. The
// devices come from the TOML configuration: simulated cameras and telescopes
// plus networked relay switches, all exposed through one HTTP API with UDP
// discovery.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"alpaca-hub/alpaca"
	"alpaca-hub/backend/ipswitch"
	"alpaca-hub/backend/simcamera"
	"alpaca-hub/backend/simscope"
	"alpaca-hub/discovery"
	"alpaca-hub/server"
)

const version = "1.0.0"

// Config is the TOML configuration file format.
type Config struct {
	ListenHost    string `toml:"listen_host"`
	ListenPort    uint16 `toml:"listen_port"`
	DiscoveryPort uint16 `toml:"discovery_port"`
	LogLevel      string `toml:"log_level"`

	ServerName string `toml:"server_name"`
	Location   string `toml:"location"`

	Cameras    []simcamera.Config `toml:"camera"`
	Telescopes []simscope.Config  `toml:"telescope"`
	Switches   []ipswitch.Config  `toml:"switch"`
}

func loadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.ListenPort == 0 {
		cfg.ListenPort = 11111
	}
	if cfg.DiscoveryPort == 0 {
		cfg.DiscoveryPort = discovery.DefaultPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ServerName == "" {
		cfg.ServerName = "alpaca-hub"
	}
	return &cfg, nil
}

func main() {
	configPath := flag.String("config", "config/settings.toml", "path to the TOML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alpaca-hub: %v\n", err)
		os.Exit(1)
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "alpaca-hub: log_level: %v\n", err)
		os.Exit(1)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).With().Timestamp().Logger()
	log.Info().Str("version", version).Msg("alpaca-hub starting")

	reg := alpaca.NewRegistry()
	register := func(dev alpaca.Device) {
		h, err := reg.Register(dev)
		if err != nil {
			log.Fatal().Err(err).Msg("device registration failed")
		}
		log.Info().Stringer("type", h.Type).Int("number", h.Number).
			Str("name", dev.StaticName()).Msg("device registered")
	}
	for _, c := range cfg.Cameras {
		register(simcamera.New(c))
	}
	for _, c := range cfg.Telescopes {
		register(simscope.New(c))
	}
	for _, c := range cfg.Switches {
		register(ipswitch.New(c, log.With().Str("component", "ipswitch").Logger()))
	}
	if reg.Len() == 0 {
		log.Warn().Msg("no devices configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	responder := &discovery.Responder{
		AlpacaPort: cfg.ListenPort,
		ListenAddr: fmt.Sprintf(":%d", cfg.DiscoveryPort),
		Log:        log.With().Str("component", "discovery").Logger(),
	}
	go func() {
		if err := responder.ListenAndServe(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("discovery responder failed")
		}
	}()

	desc := alpaca.ServerDescription{
		ServerName:          cfg.ServerName,
		Manufacturer:        "alpaca-hub",
		ManufacturerVersion: version,
		Location:            cfg.Location,
	}
	srv := server.New(reg, desc, log.With().Str("component", "server").Logger())
	addr := net.JoinHostPort(cfg.ListenHost, strconv.Itoa(int(cfg.ListenPort)))
	if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("shut down")
}
