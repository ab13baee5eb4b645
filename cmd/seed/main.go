package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"hotelpms/internal/database"
	"hotelpms/internal/domain"
	"hotelpms/internal/modules/catalog"
	"hotelpms/internal/modules/reservation"
	"hotelpms/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "hotel.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reservation_segments")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM virtual_room_components")
	db.Exec("DELETE FROM virtual_rooms")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM clients")

	ctx := context.Background()

	roomRepo := repository.NewRoomRepository(db)
	virtualRoomRepo := repository.NewVirtualRoomRepository(db)
	clientRepo := repository.NewClientRepository(db)
	store := repository.NewReservationStore(db)

	catalogService := catalog.NewService(roomRepo, virtualRoomRepo, clientRepo)
	reservationService := reservation.NewService(store)

	// ================== ROOMS ==================
	log.Println("Creating rooms...")
	roomSpecs := []catalog.CreateRoomRequest{
		{Number: "101", Name: "Garden Single", RoomType: string(domain.RoomSingle), MaxPeople: 1, Floor: 1},
		{Number: "102", Name: "Garden Double", RoomType: string(domain.RoomDouble), MaxPeople: 2, Floor: 1},
		{Number: "103", Name: "Garden Twin", RoomType: string(domain.RoomTwin), MaxPeople: 2, Floor: 1},
		{Number: "201", Name: "Sea View Double", RoomType: string(domain.RoomDouble), MaxPeople: 2, Floor: 2},
		{Number: "202", Name: "Sea View Suite", RoomType: string(domain.RoomSuite), MaxPeople: 3, Floor: 2},
		{Number: "203", Name: "Family Room", RoomType: string(domain.RoomFamily), MaxPeople: 4, Floor: 2},
	}
	rooms := make([]*domain.Room, 0, len(roomSpecs))
	for _, spec := range roomSpecs {
		room, err := catalogService.CreateRoom(ctx, spec)
		if err != nil {
			log.Fatal("room seed failed:", err)
		}
		rooms = append(rooms, room)
	}

	// ================== VIRTUAL ROOMS ==================
	log.Println("Creating virtual rooms...")
	apartment, err := catalogService.CreateVirtualRoom(ctx, catalog.VirtualRoomRequest{
		Name:        "Garden Apartment",
		Description: "Rooms 102 and 103 joined through the shared hallway",
		RoomIDs:     []int64{rooms[1].ID, rooms[2].ID},
	})
	if err != nil {
		log.Fatal("virtual room seed failed:", err)
	}
	log.Printf("Virtual room %q capacity: %d", apartment.Name, apartment.Capacity)

	// ================== CLIENTS ==================
	log.Println("Creating clients...")
	clientSpecs := []catalog.CreateClientRequest{
		{FirstName: "Aizhan", LastName: "Bekova", Email: "aizhan.bekova@example.com", Phone: "+7 701 111 2233"},
		{FirstName: "Marco", LastName: "Rossi", Email: "marco.rossi@example.com", Phone: "+39 333 444 5566"},
		{FirstName: "Elena", LastName: "Petrova", Email: "elena.petrova@example.com"},
	}
	clients := make([]*domain.Client, 0, len(clientSpecs))
	for _, spec := range clientSpecs {
		client, err := catalogService.CreateClient(ctx, spec)
		if err != nil {
			log.Fatal("client seed failed:", err)
		}
		clients = append(clients, client)
	}

	// ================== RESERVATIONS ==================
	log.Println("Creating reservations...")
	day := func(offset int) string {
		return domain.Day(time.Now()).AddDate(0, 0, offset).Format(time.DateOnly)
	}

	// A simple stay on room 201.
	r1, err := reservationService.CreateReservation(ctx, reservation.CreateReservationRequest{
		MainClientID: clients[0].ID,
		Segments: []reservation.SegmentInput{{
			RoomID:     rooms[3].ID,
			StartDate:  day(7),
			EndDate:    day(12),
			GuestCount: 2,
			BaseRate:   180,
			Services:   []string{string(domain.ServiceBreakfast)},
		}},
		Notes: "Returning guest, prefers a high floor",
	})
	if err != nil {
		log.Fatal("reservation seed failed:", err)
	}

	// A two-segment stay: suite first, then the family room, with a
	// half-board upgrade in the second period.
	_, err = reservationService.CreateReservation(ctx, reservation.CreateReservationRequest{
		MainClientID: clients[1].ID,
		Segments: []reservation.SegmentInput{
			{
				RoomID:     rooms[4].ID,
				StartDate:  day(10),
				EndDate:    day(13),
				GuestCount: 2,
				BaseRate:   260,
				Services:   []string{string(domain.ServiceBreakfast)},
			},
			{
				RoomID:     rooms[5].ID,
				StartDate:  day(13),
				EndDate:    day(17),
				GuestCount: 2,
				BaseRate:   210,
				Services:   []string{string(domain.ServiceHalfBoard)},
			},
		},
	})
	if err != nil {
		log.Fatal("reservation seed failed:", err)
	}

	// A virtual room booking on the composed apartment.
	_, err = reservationService.CreateReservation(ctx, reservation.CreateReservationRequest{
		MainClientID: clients[2].ID,
		Segments: []reservation.SegmentInput{{
			RoomID:     apartment.ID,
			RoomType:   string(domain.RoomKindVirtual),
			StartDate:  day(20),
			EndDate:    day(25),
			GuestCount: 4,
			BaseRate:   320,
			Services:   []string{string(domain.ServiceBreakfast), string(domain.ServiceParking)},
		}},
	})
	if err != nil {
		log.Fatal("reservation seed failed:", err)
	}

	fmt.Printf("Seed complete: %d rooms, 1 virtual room, %d clients, 3 reservations (first id %d)\n",
		len(rooms), len(clients), r1.ID)
}
