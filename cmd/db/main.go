package main

import (
	"context"
	"fmt"
	"log"

	"github.com/kalpovskii/taskmanager/internal/app/handlers"
	"github.com/kalpovskii/taskmanager/internal/app/repositories"
	"github.com/kalpovskii/taskmanager/internal/app/services"
	"github.com/kalpovskii/taskmanager/internal/config"
	"github.com/kalpovskii/taskmanager/internal/kafka"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateDB(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	store, closeStore, err := newTaskStore(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	var events services.EventSender
	if cfg.KafkaBroker != "" {
		producer := kafka.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic)
		defer producer.Close()
		events = producer
		log.Printf("Publishing task events to %s/%s", cfg.KafkaBroker, cfg.KafkaTopic)
	}

	service := services.NewTaskService(store, events)
	r := handlers.NewRouter(service)

	log.Printf("Task service started on :%s (backend: %s)", cfg.DBPort, cfg.DBBackend)
	if err := r.Run(":" + cfg.DBPort); err != nil {
		log.Fatal(err)
	}
}

// newTaskStore builds the configured backend and, when a Redis address is
// set, puts the Redis cache in front of it.
func newTaskStore(ctx context.Context, cfg *config.Config) (repositories.TaskStore, func(), error) {
	var (
		store   repositories.TaskStore
		closers []func() error
	)

	switch cfg.DBBackend {
	case config.BackendMemory:
		store = repositories.NewMemoryTaskStore()
	case config.BackendPostgres:
		pg, err := repositories.NewPostgresTaskStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store = pg
		closers = append(closers, pg.Close)
	default:
		return nil, nil, fmt.Errorf("unknown db backend %q", cfg.DBBackend)
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis %s unreachable, cache reads will fall through: %v", cfg.RedisAddr, err)
		}
		store = repositories.NewCachedTaskStore(store, repositories.NewRedisTaskCache(rdb))
		closers = append(closers, rdb.Close)
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Printf("close: %v", err)
			}
		}
	}
	return store, closeAll, nil
}
