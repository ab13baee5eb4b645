package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/config"
	"hotelpms/internal/database"
	"hotelpms/internal/middleware"
	"hotelpms/internal/modules/availability"
	"hotelpms/internal/modules/catalog"
	"hotelpms/internal/modules/reservation"
	"hotelpms/internal/repository"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	roomRepo := repository.NewRoomRepository(db)
	virtualRoomRepo := repository.NewVirtualRoomRepository(db)
	clientRepo := repository.NewClientRepository(db)
	store := repository.NewReservationStore(db)

	catalogService := catalog.NewService(roomRepo, virtualRoomRepo, clientRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	availabilityService := availability.NewService(store)
	availabilityHandler := availability.NewHandler(availabilityService)

	reservationService := reservation.NewService(store)
	reservationHandler := reservation.NewHandler(reservationService)

	rdb := config.NewRedisClient(cfg.RedisAddr)
	if rdb == nil && cfg.RedisAddr != "" {
		log.Println("Redis unreachable, catalog response cache disabled")
	}

	r := gin.Default()
	r.Use(middleware.ErrorLogger())
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		cached := v1.Group("/")
		cached.Use(middleware.ResponseCache(rdb, time.Duration(cfg.CacheTTLSec)*time.Second))
		catalogHandler.RegisterRoutes(cached)

		availabilityHandler.RegisterRoutes(v1)
		reservationHandler.RegisterRoutes(v1)
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
