package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"hotelpms/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates the schema. On PostgreSQL it additionally installs an
// exclusion constraint so the database itself rejects two active
// segments on the same room with intersecting date ranges, closing the
// check-then-act race for writers that bypass serializable isolation.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Client{},
		&domain.Room{},
		&domain.VirtualRoom{},
		&domain.VirtualRoomComponent{},
		&domain.Reservation{},
		&domain.ReservationSegment{},
	); err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return err
	}
	return db.Exec(`
DO $$ BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM pg_constraint WHERE conname = 'reservation_segments_no_overlap'
  ) THEN
    ALTER TABLE reservation_segments
      ADD CONSTRAINT reservation_segments_no_overlap
      EXCLUDE USING gist (
        room_kind WITH =,
        room_id WITH =,
        daterange(start_date, end_date, '[)') WITH &&
      ) WHERE (is_active);
  END IF;
END $$;
`).Error
}
