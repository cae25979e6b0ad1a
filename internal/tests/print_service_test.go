package tests

import (
	"context"
	"testing"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/mocks"
	"github.com/romeuwb/pedelogo-78-sub001/internal/realtime"
	"github.com/romeuwb/pedelogo-78-sub001/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPrintService(t *testing.T) (*service.PrintService, *mocks.PrintJobRepository, *mocks.PrinterChannel) {
	jobs := mocks.NewPrintJobRepository(t)
	channel := mocks.NewPrinterChannel(t)
	return service.NewPrintService(jobs, channel), jobs, channel
}

func orderJob() *domain.PrintJob {
	return &domain.PrintJob{
		RestaurantID: 3,
		JobType:      domain.JobTypeOrder,
		Content:      "pedido #1\n2x Pizza Margherita",
		Copies:       1,
	}
}

func TestPrintService_Dispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("completed_on_success_response", func(t *testing.T) {
		svc, jobs, channel := newPrintService(t)
		jobs.On("CreateJob", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.PrintJob).ID = 9
		}).Return(nil).Once()
		channel.On("State").Return(realtime.StateConnected).Once()
		jobs.On("UpdateJob", ctx, int64(9), domain.JobProcessing, 0, "").Return(nil).Once()
		channel.On("SendPrintJob", ctx, mock.Anything).
			Return(realtime.PrintResult{JobID: 9, Success: true}, nil).Once()
		jobs.On("UpdateJob", ctx, int64(9), domain.JobCompleted, 0, "").Return(nil).Once()

		job, err := svc.Dispatch(ctx, orderJob())
		assert.NoError(t, err)
		assert.Equal(t, domain.JobCompleted, job.Status)
	})

	t.Run("channel_down_fails_without_queueing", func(t *testing.T) {
		svc, jobs, channel := newPrintService(t)
		jobs.On("CreateJob", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.PrintJob).ID = 9
		}).Return(nil).Once()
		channel.On("State").Return(realtime.StateDisconnected).Once()
		jobs.On("UpdateJob", ctx, int64(9), domain.JobFailed, 0, realtime.ErrChannelUnavailable.Error()).
			Return(nil).Once()

		job, err := svc.Dispatch(ctx, orderJob())
		assert.ErrorIs(t, err, realtime.ErrChannelUnavailable)
		assert.Equal(t, domain.JobFailed, job.Status)
	})

	t.Run("printer_reported_failure", func(t *testing.T) {
		svc, jobs, channel := newPrintService(t)
		jobs.On("CreateJob", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.PrintJob).ID = 9
		}).Return(nil).Once()
		channel.On("State").Return(realtime.StateConnected).Once()
		jobs.On("UpdateJob", ctx, int64(9), domain.JobProcessing, 0, "").Return(nil).Once()
		channel.On("SendPrintJob", ctx, mock.Anything).
			Return(realtime.PrintResult{Success: false, Message: "sem papel"}, nil).Once()
		jobs.On("UpdateJob", ctx, int64(9), domain.JobFailed, 0, "sem papel").Return(nil).Once()

		job, err := svc.Dispatch(ctx, orderJob())
		assert.NoError(t, err)
		assert.Equal(t, domain.JobFailed, job.Status)
		assert.Equal(t, "sem papel", job.ErrorMessage)
	})

	t.Run("rejects_empty_content", func(t *testing.T) {
		svc, _, _ := newPrintService(t)
		_, err := svc.Dispatch(ctx, &domain.PrintJob{RestaurantID: 3})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestPrintService_Retry(t *testing.T) {
	ctx := context.Background()

	failedJob := func(retries, max int) *domain.PrintJob {
		return &domain.PrintJob{
			ID:           9,
			RestaurantID: 3,
			JobType:      domain.JobTypeOrder,
			Content:      "pedido #1",
			Copies:       1,
			Status:       domain.JobFailed,
			RetryCount:   retries,
			MaxRetries:   max,
		}
	}

	t.Run("increments_retry_and_resends", func(t *testing.T) {
		svc, jobs, channel := newPrintService(t)
		jobs.On("GetJob", ctx, int64(9)).Return(failedJob(1, 3), nil).Once()
		channel.On("State").Return(realtime.StateConnected).Once()
		jobs.On("UpdateJob", ctx, int64(9), domain.JobProcessing, 2, "").Return(nil).Once()
		channel.On("SendPrintJob", ctx, mock.Anything).
			Return(realtime.PrintResult{Success: true}, nil).Once()
		jobs.On("UpdateJob", ctx, int64(9), domain.JobCompleted, 2, "").Return(nil).Once()

		job, err := svc.Retry(ctx, 9)
		assert.NoError(t, err)
		assert.Equal(t, 2, job.RetryCount)
		assert.Equal(t, domain.JobCompleted, job.Status)
	})

	t.Run("exhausted_jobs_stay_failed", func(t *testing.T) {
		svc, jobs, _ := newPrintService(t)
		jobs.On("GetJob", ctx, int64(9)).Return(failedJob(3, 3), nil).Once()

		_, err := svc.Retry(ctx, 9)
		assert.ErrorIs(t, err, service.ErrRetriesExhausted)
	})

	t.Run("only_failed_jobs_can_be_retried", func(t *testing.T) {
		svc, jobs, _ := newPrintService(t)
		done := failedJob(0, 3)
		done.Status = domain.JobCompleted
		jobs.On("GetJob", ctx, int64(9)).Return(done, nil).Once()

		_, err := svc.Retry(ctx, 9)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestPrintService_TestPrint(t *testing.T) {
	ctx := context.Background()
	svc, jobs, channel := newPrintService(t)

	jobs.On("CreateJob", ctx, mock.MatchedBy(func(job *domain.PrintJob) bool {
		return job.JobType == domain.JobTypeTest && job.RestaurantID == 3
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.PrintJob).ID = 10
	}).Return(nil).Once()
	channel.On("State").Return(realtime.StateConnected).Once()
	jobs.On("UpdateJob", ctx, int64(10), domain.JobProcessing, 0, "").Return(nil).Once()
	channel.On("SendPrintJob", ctx, mock.Anything).
		Return(realtime.PrintResult{Success: true}, nil).Once()
	jobs.On("UpdateJob", ctx, int64(10), domain.JobCompleted, 0, "").Return(nil).Once()

	job, err := svc.TestPrint(ctx, 3, nil)
	assert.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, job.Status)
}
