package main

import (
	"GoOss/config"
	"GoOss/internal/handler"
	"GoOss/internal/repo"
	"GoOss/internal/service"
	"GoOss/router"
	"GoOss/utils"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	utils.InitIdWorker()

	svc := service.New(repo.Db, utils.NextID, &config.AppConfig)
	h := handler.New(svc, &config.AppConfig)

	r := router.InitRouter(h)
	r.Run(":" + config.AppConfig.Port)
}
