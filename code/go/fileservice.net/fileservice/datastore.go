package main

import (
	"fmt"
	"time"

	"github.com/DTSwithAI/file-service/code/go/fileservice.net/core/logging"
	"github.com/DTSwithAI/file-service/code/go/fileservice.net/gatewaycore/datastore"
)

func setupDatabase() error {
	fmt.Print("> connect data store")

	// the database may still be coming up; keep trying for a while
	var err error
	for i := 0; i < 600; i++ {
		if i > 0 {
			fmt.Printf("\r> connect(%v) data store", i)
		}

		if err = datastore.GetStore().Open(); err == nil {
			break
		}

		time.Sleep(1 * time.Second)
	}
	if err != nil {
		logging.Logger.Error("Failed to connect to the database. Shutting the server down")
		return err
	}

	if err := datastore.GetStore().AutoMigrate(); err != nil {
		return fmt.Errorf("error while migrating schema: %v", err)
	}

	fmt.Print("	[OK]\n")
	return nil
}
