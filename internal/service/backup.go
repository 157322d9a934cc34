package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const backupPrefix = "cinegram_backup_"

// BackupService copies the SQLite file aside on a schedule or on demand
// from the admin surface.
type BackupService struct {
	dbPath     string
	backupDir  string
	maxBackups int
	log        zerolog.Logger
}

// NewBackupService creates a new BackupService.
func NewBackupService(dbPath, backupDir string, log zerolog.Logger) *BackupService {
	return &BackupService{
		dbPath:     dbPath,
		backupDir:  backupDir,
		maxBackups: 7, // one week of nightly backups
		log:        log,
	}
}

// Backup creates a timestamped copy of the database file and prunes old
// copies beyond the retention count.
func (b *BackupService) Backup() (string, error) {
	if err := os.MkdirAll(b.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_150405")
	backupPath := filepath.Join(b.backupDir, fmt.Sprintf("%s%s.db", backupPrefix, timestamp))

	if err := copyFile(b.dbPath, backupPath); err != nil {
		return "", fmt.Errorf("copy database: %w", err)
	}

	if err := b.cleanOldBackups(); err != nil {
		// The backup itself succeeded; pruning failure is not fatal.
		b.log.Warn().Err(err).Msg("backup retention pruning failed")
	}

	return backupPath, nil
}

// LastBackupTime returns the modification time of the most recent backup,
// or the zero time when none exists.
func (b *BackupService) LastBackupTime() (time.Time, error) {
	backups, err := b.listBackups()
	if err != nil {
		return time.Time{}, err
	}
	if len(backups) == 0 {
		return time.Time{}, nil
	}

	info, err := os.Stat(backups[len(backups)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("stat backup file: %w", err)
	}
	return info.ModTime(), nil
}

func (b *BackupService) cleanOldBackups() error {
	backups, err := b.listBackups()
	if err != nil {
		return err
	}

	if len(backups) > b.maxBackups {
		for _, backup := range backups[:len(backups)-b.maxBackups] {
			if err := os.Remove(backup); err != nil {
				return fmt.Errorf("delete old backup %s: %w", backup, err)
			}
		}
	}
	return nil
}

// listBackups returns backup files sorted oldest first.
func (b *BackupService) listBackups() ([]string, error) {
	if _, err := os.Stat(b.backupDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(b.backupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	var backups []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), backupPrefix) && strings.HasSuffix(entry.Name(), ".db") {
			backups = append(backups, filepath.Join(b.backupDir, entry.Name()))
		}
	}

	// Filenames embed the timestamp, so lexical order is chronological.
	sort.Strings(backups)

	return backups, nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}
