package main

import (
	"context"
	"database/sql"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"staybook/internal/adapters/observability"
	"staybook/internal/domain"
	"staybook/internal/shared"
	mysqlrepo "staybook/internal/storage/mysql"
)

// nights per bulk insert
const batchSize = 500

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	start, err := time.Parse("2006-01-02", cfg.SeedStart)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.SeedStart).Msg("bad SEED_START")
	}
	end, err := time.Parse("2006-01-02", cfg.SeedEnd)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.SeedEnd).Msg("bad SEED_END")
	}
	if end.Before(start) {
		log.Fatal().Msg("SEED_END is before SEED_START")
	}

	log.Info().
		Str("start", cfg.SeedStart).
		Str("end", cfg.SeedEnd).
		Int("workers", cfg.Workers).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	// catalog first so ledger rows satisfy the FK
	for _, room := range shared.SeedRooms {
		desc := room.Description
		rt := domain.RoomType{ID: room.ID, Name: room.Name, Description: &desc, Capacity: room.Capacity}
		if err := repo.UpsertRoomType(ctx, rt); err != nil {
			log.Fatal().Err(err).Str("type", room.ID).Msg("upsert room type failed")
		}
	}

	// end date inclusive, matching the historical seed range convention
	nights := nightsInRange(start, end)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, room := range shared.SeedRooms {
		room := room

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(room shared.SeedRoom) {
			defer wg.Done()
			defer sem.Release(int64(1))

			for i := 0; i < len(nights); i += batchSize {
				j := i + batchSize
				if j > len(nights) {
					j = len(nights)
				}
				if err := repo.SeedNights(ctx, room.ID, nights[i:j], room.TotalRooms); err != nil {
					log.Error().Err(err).Str("type", room.ID).Msg("seed nights failed")
					return
				}
			}
			log.Info().Str("type", room.ID).Int("nights", len(nights)).Int("total", room.TotalRooms).Msg("seed ok")
		}(room)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func nightsInRange(start, end time.Time) []time.Time {
	var out []time.Time
	for d := domain.Night(start); !d.After(domain.Night(end)); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
