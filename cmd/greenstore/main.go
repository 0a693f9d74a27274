package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/greenvida/greenstore/config"
	"github.com/greenvida/greenstore/internal/adminapi"
	"github.com/greenvida/greenstore/internal/app"
	"github.com/greenvida/greenstore/internal/notify"
	"github.com/greenvida/greenstore/internal/storeapi"
	"github.com/greenvida/greenstore/internal/webserver"
)

var (
	configFile = flag.String("c", "greenstore.yml", "config file path")
	initDb     = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*configFile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		fmt.Println("database initialized")
		return
	}

	webserver.Init(application)
	storeapi.InitRouter()
	adminapi.InitRouter()

	mailer, err := notify.New(application)
	if err != nil {
		zap.S().Fatalf("mailer init failed: %v", err)
	}
	defer mailer.Release()
	if err := mailer.Subscribe(application.Bus()); err != nil {
		zap.S().Fatalf("mailer subscribe failed: %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- webserver.Listen()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		zap.S().Errorf("web server stopped: %v", err)
	case sig := <-sigChan:
		zap.S().Infof("received signal %s, shutting down", sig)
	}
}
