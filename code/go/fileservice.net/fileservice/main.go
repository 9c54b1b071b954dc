package main

import (
	"log"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"
)

func main() {
	parseFlags()
	setupConfig()
	setupLogging()

	if err := config.LoadSecrets(common.GetRootContext()); err != nil {
		log.Fatal("loading secrets: ", err)
	}

	if err := setupDatabase(); err != nil {
		log.Fatal(err)
	}

	if runSweep {
		defer datastore.GetStore().Close()
		if err := runSweepOnce(); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := startHTTPServer(); err != nil {
		log.Fatal(err)
	}
}
