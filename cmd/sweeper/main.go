package main

import (
	"GoOss/config"
	"GoOss/internal/repo"
	"GoOss/internal/service"
	"GoOss/utils"
	"log"
)

// main runs one explicit orphan sweep: every obj without references loses its
// row and file. Meant for cron or manual reconciliation.
func main() {
	config.InitConfig()
	repo.InitMysql()
	utils.InitIdWorker()

	svc := service.New(repo.Db, utils.NextID, &config.AppConfig)
	removed, err := svc.DeleteOrphanObjs(0)
	if err != nil {
		log.Fatal("orphan sweep fail", err)
	}
	log.Printf("orphan sweep done, removed %d objs", removed)
}
