package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/trezcool/somo/core"
	logsvc "github.com/trezcool/somo/services/logger"
	mongodb "github.com/trezcool/somo/storage/mongo"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewStdLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags))

	db, closeDB, err := mongodb.Open(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to document store: %v", err), err)
	}
	defer func() {
		if err = closeDB(); err != nil {
			logger.Error("failed to close document store", err)
		}
	}()

	cli := &commandLine{
		adminRepo:    mongodb.NewAdminRepository(db),
		studentRepo:  mongodb.NewStudentRepository(db),
		materialRepo: mongodb.NewMaterialRepository(db),
	}

	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Fatal(err.Error(), err)
		}
		os.Exit(1)
	}
}
