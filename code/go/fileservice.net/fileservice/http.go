package main

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/logging"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/gateway"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/handler"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/transfer"
)

func initHandlers(r *mux.Router) {
	dialer := transfer.NewFTPDialer(config.Configuration.FTP)
	gw := gateway.NewStorageGateway(dialer, &config.Configuration)

	handler.SetupHandlers(r, gw)
	common.SetAdminCredentials()
}

func startHTTPServer() error {
	mode := "production"
	if config.Development() {
		mode = "development"
	}

	r := mux.NewRouter()
	initHandlers(r)

	logging.Logger.Info("Starting file service",
		zap.Int("available_cpus", runtime.NumCPU()),
		zap.Int("port", config.Configuration.ServerPort),
		zap.String("mode", mode))

	address := fmt.Sprintf(":%v", config.Configuration.ServerPort)
	var server *http.Server

	if config.Development() {
		// No WriteTimeout setup to enable pprof
		server = &http.Server{
			Addr:              address,
			ReadHeaderTimeout: 30 * time.Second,
			MaxHeaderBytes:    1 << 20,
			Handler:           r,
		}
	} else {
		server = &http.Server{
			Addr:              address,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       30 * time.Second,
			MaxHeaderBytes:    1 << 20,
			Handler:           r,
		}
	}

	common.HandleShutdown(server)
	handler.HandleShutdown(common.GetRootContext())

	logging.Logger.Info("Ready to listen to the requests")
	fmt.Print("> start http server	[OK]\n")

	var eg errgroup.Group
	eg.Go(func() error {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		<-common.GetRootContext().Done()
		logging.Logger.Info("Shutdown signal received")
		return nil
	})
	return eg.Wait()
}
