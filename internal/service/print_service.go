package service

import (
	"context"
	"errors"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/realtime"
)

var (
	ErrJobNotFound      = errors.New("print job not found")
	ErrRetriesExhausted = errors.New("print job retries exhausted")
)

const defaultMaxRetries = 3

// PrintService persists print jobs and dispatches them over the realtime
// printer channel, recording the outcome the channel reports.
type PrintService struct {
	jobs    PrintJobRepository
	channel PrinterChannel
}

func NewPrintService(jobs PrintJobRepository, channel PrinterChannel) *PrintService {
	return &PrintService{jobs: jobs, channel: channel}
}

// Dispatch stores the job and sends it immediately. The channel being down is
// a user-visible failure; the job stays pending and is not queued for later.
func (s *PrintService) Dispatch(ctx context.Context, job *domain.PrintJob) (*domain.PrintJob, error) {
	if job.RestaurantID <= 0 || job.Content == "" {
		return nil, ErrInvalidInput
	}
	if job.Copies <= 0 {
		job.Copies = 1
	}
	if job.MaxRetries <= 0 {
		job.MaxRetries = defaultMaxRetries
	}
	job.Status = domain.JobPending
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	return s.send(ctx, job)
}

// Retry resends a failed job. The retry counter never exceeds max_retries;
// beyond that the job stays failed permanently.
func (s *PrintService) Retry(ctx context.Context, jobID int64) (*domain.PrintJob, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobFailed {
		return nil, ErrInvalidInput
	}
	if job.RetryCount >= job.MaxRetries {
		return nil, ErrRetriesExhausted
	}
	job.RetryCount++
	return s.send(ctx, job)
}

// TestPrint dispatches a short diagnostic job so the restaurant can verify
// its printer end to end.
func (s *PrintService) TestPrint(ctx context.Context, restaurantID int64, printerID *int64) (*domain.PrintJob, error) {
	job := &domain.PrintJob{
		RestaurantID: restaurantID,
		PrinterID:    printerID,
		JobType:      domain.JobTypeTest,
		Content:      "*** TESTE DE IMPRESSAO ***",
		Copies:       1,
	}
	return s.Dispatch(ctx, job)
}

func (s *PrintService) ConnectionStatus(ctx context.Context, restaurantID int64) (*domain.PrinterConnection, error) {
	return s.jobs.GetConnection(ctx, restaurantID)
}

func (s *PrintService) Printers(ctx context.Context, restaurantID int64) ([]domain.Printer, error) {
	return s.jobs.ListPrinters(ctx, restaurantID)
}

func (s *PrintService) send(ctx context.Context, job *domain.PrintJob) (*domain.PrintJob, error) {
	if s.channel.State() != realtime.StateConnected {
		_ = s.jobs.UpdateJob(ctx, job.ID, domain.JobFailed, job.RetryCount, realtime.ErrChannelUnavailable.Error())
		job.Status = domain.JobFailed
		job.ErrorMessage = realtime.ErrChannelUnavailable.Error()
		return job, realtime.ErrChannelUnavailable
	}

	if err := s.jobs.UpdateJob(ctx, job.ID, domain.JobProcessing, job.RetryCount, ""); err != nil {
		return nil, err
	}
	job.Status = domain.JobProcessing

	res, err := s.channel.SendPrintJob(ctx, job)
	if err != nil {
		_ = s.jobs.UpdateJob(ctx, job.ID, domain.JobFailed, job.RetryCount, err.Error())
		job.Status = domain.JobFailed
		job.ErrorMessage = err.Error()
		return job, err
	}
	if !res.Success {
		if err := s.jobs.UpdateJob(ctx, job.ID, domain.JobFailed, job.RetryCount, res.Message); err != nil {
			return nil, err
		}
		job.Status = domain.JobFailed
		job.ErrorMessage = res.Message
		return job, nil
	}
	if err := s.jobs.UpdateJob(ctx, job.ID, domain.JobCompleted, job.RetryCount, ""); err != nil {
		return nil, err
	}
	job.Status = domain.JobCompleted
	job.ErrorMessage = ""
	return job, nil
}
