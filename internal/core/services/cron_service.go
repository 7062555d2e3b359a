package services

import (
	"context"
	"log"
	"time"

	"apexdrive/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled back-office jobs. Currently a single daily
// digest of pending loan applications mailed to the admin at 08:30.
type CronService struct {
	cron    *cron.Cron
	appRepo repositories.ApplicationRepository
	mailer  Mailer
}

// NewCronService creates a new cron service
func NewCronService(appRepo repositories.ApplicationRepository, mailer Mailer) *CronService {
	return &CronService{
		cron:    cron.New(),
		appRepo: appRepo,
		mailer:  mailer,
	}
}

// Start registers and launches the scheduled jobs
func (s *CronService) Start() {
	_, err := s.cron.AddFunc("30 8 * * *", s.sendPendingDigest)
	if err != nil {
		log.Printf("❌ Failed to register digest job: %v", err)
		return
	}

	s.cron.Start()
	log.Println("🚀 CronService started (pending digest at 08:30 daily)")
}

// Stop gracefully stops the scheduler
func (s *CronService) Stop() {
	s.cron.Stop()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) sendPendingDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	apps, err := s.appRepo.ListPending(ctx)
	if err != nil {
		log.Printf("❌ Pending digest query error: %v", err)
		return
	}
	if len(apps) == 0 {
		return
	}

	if err := s.mailer.SendPendingDigest(apps); err != nil {
		log.Printf("⚠️ Pending digest email failed: %v", err)
		return
	}
	log.Printf("✅ Pending digest sent (%d applications)", len(apps))
}
