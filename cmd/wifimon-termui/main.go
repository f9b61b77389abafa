package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"wifimon-termui/internal/app"
	"wifimon-termui/internal/config"
)

var version = "n/a"

func main() {
	var (
		versionFlag = flag.Bool("version", false, "application version")
		uiFlag      = flag.String("ui", "dash", `ui controller {"dash", "networks", "packets"}`)
	)

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *versionFlag {
		fmt.Println(version)
		os.Exit(0)
	}

	if !terminal.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "wifimon-termui must be run in a terminal")
		os.Exit(1)
	}

	logger := log.New()
	logger.Out = io.Discard

	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)

		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			panic(errors.New("failed to log to file"))
		}
		logger.Out = file
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(application.Run(*uiFlag))
}
