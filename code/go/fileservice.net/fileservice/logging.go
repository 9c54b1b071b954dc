package main

import (
	"fmt"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/logging"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
)

func setupLogging() {
	fmt.Print("> init logging")

	if config.Development() {
		logging.InitLogging("development", logDir, "fileservice.log")
	} else {
		logging.InitLogging("production", logDir, "fileservice.log")
	}

	fmt.Print("		[OK]\n")
}
