package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/velasquezhn3/vj-sub000/config"
	"github.com/velasquezhn3/vj-sub000/services/conversation"
	"github.com/velasquezhn3/vj-sub000/services/reservation"

	"github.com/hibiken/asynq"
)

const (
	TypeReservationSweep = "reservation:sweep"
	TypeStateSweep       = "conversation:sweep"
)

// InitSweepWorker runs the periodic cleanup machinery in the background: the
// reservation retention sweep and the expired conversation-state sweep.
func InitSweepWorker(reservationSvc reservation.ReservationService, states conversation.StateStore) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReservationSweep, handleReservationSweep(reservationSvc))
	mux.HandleFunc(TypeStateSweep, handleStateSweep(states))

	scheduler := asynq.NewScheduler(redisOpts, nil)
	sweepEvery := fmt.Sprintf("@every %dm", config.AppConfig.SweepIntervalMinutes)
	if _, err := scheduler.Register(sweepEvery, asynq.NewTask(TypeReservationSweep, nil)); err != nil {
		log.Fatalf("[SweepWorker] failed to register reservation sweep: %v", err)
	}
	stateSweepEvery := fmt.Sprintf("@every %dm", config.AppConfig.StateSweepIntervalMinutes)
	if _, err := scheduler.Register(stateSweepEvery, asynq.NewTask(TypeStateSweep, nil)); err != nil {
		log.Fatalf("[SweepWorker] failed to register state sweep: %v", err)
	}

	// Start async worker with retry logic
	go func() {
		log.Println("[SweepWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SweepWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SweepWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[SweepWorker] scheduler failed: %v", err)
		}
	}()
}

func handleReservationSweep(svc reservation.ReservationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		deleted, err := svc.SweepExpired(config.AppConfig.RetentionHours)
		if err != nil {
			log.Printf("[SweepWorker] reservation sweep failed: %v", err)
			return err
		}
		if deleted > 0 {
			log.Printf("[SweepWorker] removed %d abandoned pending reservations", deleted)
		}
		return nil
	}
}

func handleStateSweep(states conversation.StateStore) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		deleted, err := states.SweepExpired(ctx)
		if err != nil {
			log.Printf("[SweepWorker] conversation state sweep failed: %v", err)
			return err
		}
		if deleted > 0 {
			log.Printf("[SweepWorker] removed %d expired conversation states", deleted)
		}
		return nil
	}
}
