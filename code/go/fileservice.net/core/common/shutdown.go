package common

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var rootContext context.Context
var rootCancel context.CancelFunc

func init() {
	rootContext, rootCancel = context.WithCancel(context.Background())
}

/*GetRootContext - the root context of the process, cancelled on shutdown */
func GetRootContext() context.Context {
	return rootContext
}

/*Done - cancel the root context */
func Done() {
	rootCancel()
}

/*HandleShutdown - wait for a termination signal and shut the server down */
func HandleShutdown(server *http.Server) {
	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		rootCancel()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx) //nolint:errcheck
	}()
}
