package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"aerogrow/config"
	"aerogrow/logger"
	"aerogrow/models"
	"aerogrow/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ReadingPublisher receives every reading the simulator stores.
type ReadingPublisher interface {
	PublishReading(models.SensorData) error
}

// Simulator drives the synthetic telemetry: sensor drift, random system
// notifications and periodic status broadcasts.
type Simulator struct {
	hub       *Hub
	settings  config.SimulationSettings
	publisher ReadingPublisher
	log       *slog.Logger

	// One source per loop; *rand.Rand is not safe for concurrent use.
	sensorRand       *rand.Rand
	notificationRand *rand.Rand
}

// NewSimulator creates a simulator broadcasting through hub. publisher may be nil.
func NewSimulator(hub *Hub, settings config.SimulationSettings, publisher ReadingPublisher) *Simulator {
	seed := settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		hub:              hub,
		settings:         settings,
		publisher:        publisher,
		log:              logger.Get().With("component", "simulator"),
		sensorRand:       rand.New(rand.NewSource(seed)),
		notificationRand: rand.New(rand.NewSource(seed + 1)),
	}
}

// Run starts the loops and blocks until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.every(ctx, s.settings.SensorInterval, "sensor", func(now time.Time) error {
			_, err := s.SensorTick(now)
			if errors.Is(err, ErrNoSensorData) {
				return nil
			}
			return err
		})
	})
	g.Go(func() error {
		return s.every(ctx, s.settings.NotificationInterval, "notification", func(now time.Time) error {
			_, err := s.NotificationTick(now)
			return err
		})
	})
	g.Go(func() error {
		return s.every(ctx, s.settings.StatusInterval, "status", s.StatusTick)
	})

	return g.Wait()
}

// every calls tick on each interval until ctx ends. Tick errors are logged
// and the loop continues.
func (s *Simulator) every(ctx context.Context, interval time.Duration, name string, tick func(time.Time) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("Loop started", "loop", name, "interval", interval)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("Loop stopped", "loop", name)
			return nil
		case now := <-ticker.C:
			if err := tick(now.UTC()); err != nil {
				s.log.Error("Loop tick failed", "loop", name, "error", err)
			}
		}
	}
}

// SensorTick derives the next reading from the latest one, stores and
// broadcasts it, and raises a notification for every threshold newly
// breached.
func (s *Simulator) SensorTick(now time.Time) (models.SensorData, error) {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()

	current, err := latestReading(config.DB)
	if err != nil {
		return current, err
	}

	state := config.GetAutomationState()
	next := utils.NextReading(current, state.PlantType, state.TemperatureControl, now, s.sensorRand)
	if err := storeReading(config.DB, s.hub, s.publisher, current, &next); err != nil {
		return current, err
	}
	return next, nil
}

// NotificationTick stores and broadcasts one canned notification with the
// configured probability. It reports whether a notification was sent.
func (s *Simulator) NotificationTick(now time.Time) (bool, error) {
	if s.notificationRand.Float64() >= s.settings.NotificationChance {
		return false, nil
	}

	n := utils.RandomNotification(s.notificationRand)
	n.Timestamp = now
	if err := config.DB.Create(&n).Error; err != nil {
		return false, fmt.Errorf("failed to create notification: %w", err)
	}
	s.hub.Broadcast(models.Message{Type: models.MessageNotification, Data: n})
	return true, nil
}

// StatusTick broadcasts the system status and prunes readings older than
// the retention window. The newest reading is always kept.
func (s *Simulator) StatusTick(now time.Time) error {
	s.hub.Broadcast(models.Message{
		Type: models.MessageSystemStatus,
		Data: models.SystemStatus{
			ServerTime:        now.UTC().Format(time.RFC3339Nano),
			ActiveConnections: s.hub.ClientCount(),
			SystemStatus:      "operational",
		},
	})

	if s.settings.Retention <= 0 {
		return nil
	}
	return pruneReadings(config.DB, now.Add(-s.settings.Retention))
}

func pruneReadings(db *gorm.DB, before time.Time) error {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()

	latest, err := latestReading(db)
	if errors.Is(err, ErrNoSensorData) {
		return nil
	}
	if err != nil {
		return err
	}

	result := db.Where("timestamp < ? AND id <> ?", before, latest.ID).Delete(&models.SensorData{})
	if result.Error != nil {
		return fmt.Errorf("failed to prune readings: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Get().Info("Pruned old readings", "count", result.RowsAffected)
	}
	return nil
}
