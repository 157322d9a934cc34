package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler runs the nightly database backup at a configured local time.
type Scheduler struct {
	backupSvc  *BackupService
	backupTime string // "HH:MM"
	log        zerolog.Logger
	stopChan   chan struct{}
}

// NewScheduler creates a new Scheduler.
func NewScheduler(backupSvc *BackupService, backupTime string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		backupSvc:  backupSvc,
		backupTime: backupTime,
		log:        log,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the backup loop.
func (s *Scheduler) Start() {
	go s.runBackupLoop()
	s.log.Info().Str("backup_time", s.backupTime).Msg("scheduler started")
}

// Stop halts the backup loop.
func (s *Scheduler) Stop() {
	close(s.stopChan)
}

func (s *Scheduler) runBackupLoop() {
	for {
		nextRun := s.nextBackupTime()

		select {
		case <-time.After(time.Until(nextRun)):
			backupPath, err := s.backupSvc.Backup()
			if err != nil {
				s.log.Error().Err(err).Msg("nightly backup failed")
				continue
			}
			s.log.Info().Str("path", backupPath).Msg("nightly backup created")
		case <-s.stopChan:
			return
		}
	}
}

// nextBackupTime returns the next occurrence of the configured HH:MM.
// A value that does not parse as a valid clock time falls back to 03:00.
func (s *Scheduler) nextBackupTime() time.Time {
	now := time.Now()

	hour, minute := 3, 0
	if s.backupTime != "" {
		var h, m int
		n, err := fmt.Sscanf(s.backupTime, "%d:%d", &h, &m)
		if err == nil && n == 2 && h >= 0 && h <= 23 && m >= 0 && m <= 59 {
			hour, minute = h, m
		} else {
			s.log.Warn().Str("backup_time", s.backupTime).Msg("invalid backup time, using 03:00")
		}
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
