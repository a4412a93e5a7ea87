package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hrapp/internal/platform/db"
)

const JobSessionPurge = "session_purge"

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Service struct {
	DB            db.Querier
	Sessions      SessionPurger
	PurgeInterval time.Duration
	queue         chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(q db.Querier, sessions SessionPurger, purgeInterval time.Duration) *Service {
	return &Service{
		DB:            q,
		Sessions:      sessions,
		PurgeInterval: purgeInterval,
		queue:         make(chan job, 32),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.PurgeInterval > 0 && s.Sessions != nil {
		go s.schedulePurge(ctx, s.PurgeInterval)
	}
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

// PurgeOnStartup clears sessions left over from before a restart. Failures are
// logged and left to the next scheduled purge.
func (s *Service) PurgeOnStartup(ctx context.Context) {
	if s.Sessions == nil {
		return
	}
	details, err := s.RunNow(ctx, JobSessionPurge, s.PurgeSessions)
	if err != nil {
		slog.Warn("startup session purge failed", "err", err)
		return
	}
	slog.Info("startup session purge completed", "details", details)
}

// PurgeSessions deletes sessions that expired or were revoked before now.
func (s *Service) PurgeSessions(ctx context.Context) (any, error) {
	deleted, err := s.Sessions.PurgeExpiredSessions(ctx, time.Now())
	return map[string]any{"deleted": deleted}, err
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1,$2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "err", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "err", updErr)
		}
	}
	return details, err
}

func (s *Service) schedulePurge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(JobSessionPurge, s.PurgeSessions)
		}
	}
}
