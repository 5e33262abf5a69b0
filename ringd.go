package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func PanicOnError(err error) {
	if err != nil {
		panic(err)
	}
}

// Populated by ldflags
var (
	version            string
	buildUnixTimestamp string
	commitHash         string
)

func main() {
	InitializeLogger()

	ts, _ := strconv.ParseInt(buildUnixTimestamp, 10, 64)
	buildInfo := BuildInfo{
		Version:    version,
		BuildTime:  time.Unix(ts, 0),
		CommitHash: commitHash,
	}

	versionFlag := flag.Bool("version", false, "Print version")
	systemdFlag := flag.Bool("systemd", false, "Print systemd service file")

	var flags Flags
	flag.StringVar(&flags.ConfigPath, "config", "", "Path to config file (default "+DefaultConfigPath+")")
	flag.StringVar(&flags.Host, "host", "", "Listen host")
	flag.StringVar(&flags.Port, "port", "", "Listen port")
	flag.Parse()

	if *versionFlag {
		fmt.Println("ringd version:", buildInfo.Version)
		fmt.Println("Built on:", buildInfo.BuildTime)
		fmt.Println("Commit hash:", buildInfo.CommitHash)
		return
	}

	if *systemdFlag {
		PanicOnError(SystemdServiceFile(os.Stdout, flags.ConfigPath))
		return
	}

	log.Info().
		Str("version", buildInfo.Version).
		Str("build_timestamp", buildInfo.BuildTime.Format(time.RFC3339)).
		Str("commit_hash", buildInfo.CommitHash).
		Msg("Initializing ringd")

	fs := NewRingdOSFS()
	config, err := NewConfig(fs, flags, os.Getenv)
	if err != nil {
		log.Fatal().Err(err).Msg("Config initialization failed")
	}
	zerolog.SetGlobalLevel(config.LogLevel())

	if flags.ConfigPath != "" {
		abs, _ := fs.Abs(flags.ConfigPath)
		log.Info().Str("path", abs).Msg("Loaded config")
	}

	rings, err := NewRingSetFromConfig(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Ring initialization failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go RunRotator(ctx, rings, config.RotateEvery())

	if err := StartServer(ctx, config, buildInfo, rings); err != nil {
		log.Err(err).Msg("Server closed with error")
	}
}
