package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"techcalendar/internal/domain"
)

// BackupConfig holds settings for the database backup-and-PR job.
type BackupConfig struct {
	DatabaseURL  string
	DumpPath     string // local dump output, e.g. /tmp/backup.sql
	RepoDumpPath string // path of the dump inside the backup repository
	BaseBranch   string
	PRTitleTag   string // e.g. "[backup-sync]"
}

type backupService struct {
	cfg    BackupConfig
	repo   domain.BackupRepoClient
	logger *slog.Logger
	dumpFn func(ctx context.Context) error
}

// NewBackupService creates a BackupJob that dumps the database with pg_dump
// and opens a pull request on the backup repository when the dump changed.
func NewBackupService(cfg BackupConfig, repo domain.BackupRepoClient, logger *slog.Logger) domain.BackupJob {
	s := &backupService{cfg: cfg, repo: repo, logger: logger}
	s.dumpFn = s.runPgDump
	return s
}

func (s *backupService) Name() string { return "db-backup" }

// Run executes one backup cycle. Failures are returned for logging only; the
// job never affects request serving.
func (s *backupService) Run(ctx context.Context) error {
	if err := s.dumpFn(ctx); err != nil {
		return fmt.Errorf("pg_dump: %w", err)
	}

	content, err := os.ReadFile(s.cfg.DumpPath)
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}
	sum := sha256.Sum256(content)
	localHash := hex.EncodeToString(sum[:])

	remoteSHA := ""
	remote, err := s.repo.GetFile(ctx, s.cfg.RepoDumpPath, s.cfg.BaseBranch)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Info("no previous dump in backup repo, opening initial PR")
	case err != nil:
		return fmt.Errorf("fetch remote dump: %w", err)
	default:
		remoteSum := sha256.Sum256(remote.Content)
		if hex.EncodeToString(remoteSum[:]) == localHash {
			s.logger.Info("dump unchanged, skipping backup PR")
			return nil
		}
		remoteSHA = remote.SHA
	}

	idPrefix := localHash[:8]
	titlePrefix := fmt.Sprintf("%s-%s", s.cfg.PRTitleTag, idPrefix)
	open, err := s.repo.HasOpenPullWithPrefix(ctx, titlePrefix, s.cfg.BaseBranch)
	if err != nil {
		return fmt.Errorf("check open PRs: %w", err)
	}
	if open {
		s.logger.Info("backup PR already open, skipping", "prefix", idPrefix)
		return nil
	}

	branch := "backup-" + idPrefix
	if err := s.repo.CreateBranch(ctx, branch, s.cfg.BaseBranch); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}

	title := fmt.Sprintf("%s Update %s @ %s", titlePrefix, s.cfg.RepoDumpPath, time.Now().Format("2006-01-02 15:04"))
	if err := s.repo.PutFile(ctx, s.cfg.RepoDumpPath, branch, title, content, remoteSHA); err != nil {
		return fmt.Errorf("push dump: %w", err)
	}

	body := fmt.Sprintf("Automated database dump update.\n\nContent ID: **%s**\n\nOpened by the continuous backup job.", idPrefix)
	url, err := s.repo.CreatePull(ctx, title, body, branch, s.cfg.BaseBranch)
	if err != nil {
		return fmt.Errorf("open PR: %w", err)
	}
	s.logger.Info("backup PR created", "url", url)
	return nil
}

func (s *backupService) runPgDump(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"--dbname", s.cfg.DatabaseURL,
		"-f", s.cfg.DumpPath,
		"-F", "plain",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(out))
	}
	return nil
}
