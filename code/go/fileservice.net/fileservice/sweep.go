package main

import (
	"fmt"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/common"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/config"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/sweeper"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/transfer"
)

// runSweepOnce reconciles the backend against the record store and exits.
// Meant to be run from cron, not alongside a serving instance on the same
// host.
func runSweepOnce() error {
	fmt.Print("> sweep orphans")

	dialer := transfer.NewFTPDialer(config.Configuration.FTP)
	report, err := sweeper.Sweep(common.GetRootContext(), dialer, &config.Configuration)
	if err != nil {
		return err
	}

	fmt.Printf("	[OK] scanned=%v deleted=%v failures=%v\n",
		report.DirectoriesScanned, report.OrphansDeleted, report.Failures)
	return nil
}
