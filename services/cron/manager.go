package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/studiopixelbloomcreations/Tutor---AI-Made-for-Studying/services"
)

// PrefetchTarget is one subject/term pair whose paper links are kept warm.
type PrefetchTarget struct {
	Subject string
	Term    string
}

// CronManager owns the scheduled background jobs.
type CronManager struct {
	cron    *cron.Cron
	exam    *services.ExamService
	targets []PrefetchTarget
}

// NewCronManager creates a cron manager prefetching the given targets.
func NewCronManager(exam *services.ExamService, targets []PrefetchTarget) *CronManager {
	return &CronManager{
		cron:    cron.New(cron.WithSeconds()),
		exam:    exam,
		targets: targets,
	}
}

// Start registers and starts all jobs.
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()

	// Warm the cache right away; the schedule only keeps it warm.
	go func() {
		m.logJobStart("prefetch_papers_initial")
		m.PrefetchPapers()
	}()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	// Every 6 hours, matching the paper cache TTL: re-crawl the configured
	// subject/term pairs so student requests hit a warm cache.
	_, err := m.cron.AddFunc("0 0 */6 * * *", func() {
		m.logJobStart("prefetch_papers")
		m.PrefetchPapers()
	})
	if err != nil {
		return err
	}

	// Hourly top-up re-primes anything evicted between the 6-hour ticks.
	_, err = m.cron.AddFunc("30 0 * * * *", func() {
		m.logJobStart("prefetch_papers_hourly_topup")
		m.PrefetchPapers()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))
}
