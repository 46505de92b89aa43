package main

import (
	"log"
	"os"

	"github.com/mihir-M-marathe/CalTrail/config"
	"github.com/mihir-M-marathe/CalTrail/routes"
	"github.com/mihir-M-marathe/CalTrail/services"
	"github.com/mihir-M-marathe/CalTrail/utils"
)

func main() {
	db := config.InitDB()

	rdb := config.InitRedis()
	utils.InitS3()
	utils.InitMailer()

	hub := services.NewRealtimeHub()
	services.InitNotifier(db, hub)

	r := routes.SetupRouter(db, rdb, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
