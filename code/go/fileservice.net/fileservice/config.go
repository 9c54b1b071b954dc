package main

import (
	"fmt"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
)

func setupConfig() {
	fmt.Print("> load config")

	config.SetupDefaultConfig()
	config.SetupConfig(configDir)
	config.ReadConfig(deploymentMode)

	// command line flags win over the config file
	if hostname != "" {
		config.Configuration.ServerHost = hostname
	}
	if httpPort > 0 {
		config.Configuration.ServerPort = httpPort
	}

	fmt.Print("		[OK]\n")
}
