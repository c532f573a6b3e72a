package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abrezinsky/snailderby/internal/app"
	"github.com/abrezinsky/snailderby/internal/auth"
	"github.com/abrezinsky/snailderby/internal/config"
	"github.com/abrezinsky/snailderby/internal/console"
	"github.com/abrezinsky/snailderby/internal/logger"
)

var (
	version = "dev"
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "snailderby: %v\n", err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Printf("snailderby %s\n", version)
		os.Exit(0)
	}

	if !cfg.NoBanner {
		console.PrintBanner(os.Stdout, version, true, 60*time.Millisecond)
	}

	logOut := console.NewCRLFWriter(os.Stdout)
	appLog := logger.NewWithOptions(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Writer: logOut,
	})
	if cfg.HTTPLogging {
		appLog.EnableHTTPLogging()
	}

	password := cfg.AdminPassword
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, appLog, cfg, adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application: ", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)
	appLog.Info("Lobby", "url", a.BaseURL()+"/")

	kb := console.New(appLog, a.Rooms(), console.SystemOpener{}, a.BaseURL()+"/", os.Stdout, stop)
	kb.Attach(logOut)
	kb.PrintHelp()
	kbDone := make(chan struct{})
	go func() {
		defer close(kbDone)
		kb.Run(ctx, os.Stdin)
	}()

	runErr := a.Run(ctx)
	stop()
	// the console restores the terminal on its way out
	<-kbDone
	if runErr != nil {
		log.Fatal(runErr)
	}
}
