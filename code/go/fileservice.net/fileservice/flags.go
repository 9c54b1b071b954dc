package main

import (
	"flag"
	"fmt"
)

var (
	deploymentMode int
	logDir         string
	httpPort       int
	hostname       string
	configDir      string
	runSweep       bool
)

func init() {
	flag.IntVar(&deploymentMode, "deployment_mode", 2, "deployment mode: 0=dev, 1=test, 2=production")
	flag.StringVar(&logDir, "log_dir", "", "log_dir")
	flag.IntVar(&httpPort, "port", 0, "port")
	flag.StringVar(&hostname, "hostname", "", "hostname")
	flag.StringVar(&configDir, "config_dir", "./config", "config_dir")
	flag.BoolVar(&runSweep, "sweep", false, "run one orphan sweep and exit instead of serving")
}

func parseFlags() {
	fmt.Print("> load flags")
	flag.Parse()

	if logDir == "" {
		panic("Please specify --log_dir absolute folder name option where logs can be stored")
	}
	fmt.Print("		[OK]\n")
}
