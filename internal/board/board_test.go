package board

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/slok/staffboard/internal/log"
	"github.com/slok/staffboard/internal/model"
	"github.com/slok/staffboard/internal/storage"
	"github.com/slok/staffboard/internal/storage/memory"
	"github.com/slok/staffboard/internal/storage/storagemock"
)

var t0 = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestService(t *testing.T, repo storage.Repository) (*Service, *testingclock.FakeClock) {
	t.Helper()

	if repo == nil {
		r, err := memory.NewRepository(memory.RepositoryConfig{})
		require.NoError(t, err)
		repo = r
	}

	clk := testingclock.NewFakeClock(t0)
	svc, err := NewService(ServiceConfig{
		Repository:  repo,
		Clock:       clk,
		Logger:      log.Noop,
		IDGenerator: sequentialIDs(),
	})
	require.NoError(t, err)

	return svc, clk
}

func createTask(t *testing.T, svc *Service, codename string) *model.Task {
	t.Helper()

	task, err := svc.CreateTask(context.Background(), CreateTaskRequest{Codename: codename, StaffingTimeEstimate: "01:00"})
	require.NoError(t, err)
	return task
}

// assertSingleActive checks the board has at most one running timer and that the
// active reference points to it.
func assertSingleActive(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	active := activeTasks(tasks)
	require.LessOrEqual(t, len(active), 1)

	ref, err := svc.repo.GetActiveTaskID(ctx)
	require.NoError(t, err)
	if len(active) == 0 {
		assert.Empty(t, ref)
		return
	}
	assert.Equal(t, active[0].ID, ref)
}

func TestNewService(t *testing.T) {
	tests := map[string]struct {
		cfg    ServiceConfig
		expErr bool
	}{
		"Valid configuration should create service successfully": {
			cfg: ServiceConfig{
				Repository: &storagemock.MockRepository{},
				Logger:     log.Noop,
			},
		},

		"Missing repository should fail": {
			cfg:    ServiceConfig{},
			expErr: true,
		},

		"Negative conflict retries should fail": {
			cfg: ServiceConfig{
				Repository:         &storagemock.MockRepository{},
				MaxConflictRetries: -1,
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			svc, err := NewService(test.cfg)
			if test.expErr {
				assert.Error(err)
				assert.Nil(svc)
			} else {
				assert.NoError(err)
				assert.NotNil(svc)
			}
		})
	}
}

func TestServiceRepositoryInteraction(t *testing.T) {
	started := t0.Add(-time.Minute)
	running := model.Task{
		ID:                   "t1",
		Codename:             "falcon",
		StaffingTimeEstimate: "01:00",
		Column:               model.ColumnInProgress,
		CreatedAt:            t0.Add(-time.Hour),
		Active:               true,
		ActiveTimer:          model.PhaseDoing,
		TimerStartedAt:       &started,
	}
	freshRunning := func(ctx context.Context, id string) (*model.Task, error) {
		t := running.Copy()
		return &t, nil
	}

	tests := map[string]struct {
		mock     func(m *storagemock.MockRepository)
		run      func(ctx context.Context, svc *Service) error
		expErr   bool
		expErrIs error
	}{
		"A pause losing a concurrent write should be retried from a fresh read.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetTask", mock.Anything, "t1").Times(2).Return(freshRunning)
				m.On("UpdateTask", mock.Anything, mock.Anything).Once().Return(model.ErrConflict)
				m.On("UpdateTask", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
					return !t.Active && t.Times.Doing == 60
				})).Once().Return(nil)
				m.On("GetActiveTaskID", mock.Anything).Once().Return("t1", nil)
				m.On("SetActiveTaskID", mock.Anything, "").Once().Return(nil)
			},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.PauseTimer(ctx, "t1")
				return err
			},
		},

		"A pause that keeps losing concurrent writes should fail with a conflict.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetTask", mock.Anything, "t1").Times(4).Return(freshRunning)
				m.On("UpdateTask", mock.Anything, mock.Anything).Times(4).Return(model.ErrConflict)
			},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.PauseTimer(ctx, "t1")
				return err
			},
			expErr:   true,
			expErrIs: model.ErrConflict,
		},

		"A start failing to save the new holder should leave the board without a running timer nor reference.": {
			mock: func(m *storagemock.MockRepository) {
				next := model.Task{
					ID:                   "t2",
					Codename:             "heron",
					StaffingTimeEstimate: "01:00",
					Column:               model.ColumnInProgress,
					CreatedAt:            t0.Add(-time.Hour),
				}
				m.On("GetTask", mock.Anything, "t2").Once().Return(&next, nil)
				m.On("ListTasks", mock.Anything).Once().Return([]model.Task{running.Copy(), next}, nil)
				m.On("UpdateTask", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
					return t.ID == "t1" && !t.Active && t.Times.Doing == 60
				})).Once().Return(nil)
				m.On("SetActiveTaskID", mock.Anything, "").Once().Return(nil)
				m.On("UpdateTask", mock.Anything, mock.MatchedBy(func(t model.Task) bool {
					return t.ID == "t2"
				})).Once().Return(fmt.Errorf("disk full"))
			},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.StartTimer(ctx, "t2")
				return err
			},
			expErr: true,
		},

		"A missing task should fail with not found.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("GetTask", mock.Anything, "t2").Once().Return(nil, fmt.Errorf("task t2: %w", model.ErrNotFound))
			},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.StartTimer(ctx, "t2")
				return err
			},
			expErr:   true,
			expErrIs: model.ErrNotFound,
		},

		"A store failure listing tasks should fail the snapshot.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("ListTasks", mock.Anything).Once().Return(nil, fmt.Errorf("disk full"))
			},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.Snapshot(ctx)
				return err
			},
			expErr: true,
		},

		"A store failure creating the task should not be retried.": {
			mock: func(m *storagemock.MockRepository) {
				m.On("CreateTask", mock.Anything, mock.Anything).Once().Return(fmt.Errorf("disk full"))
			},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.CreateTask(ctx, CreateTaskRequest{Codename: "falcon", StaffingTimeEstimate: "01:00"})
				return err
			},
			expErr: true,
		},

		"An invalid create request should not reach the store.": {
			mock: func(m *storagemock.MockRepository) {},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.CreateTask(ctx, CreateTaskRequest{Codename: "  ", StaffingTimeEstimate: "01:00"})
				return err
			},
			expErr:   true,
			expErrIs: model.ErrNotValid,
		},

		"Archiving should hand the entry and the read version to the store.": {
			mock: func(m *storagemock.MockRepository) {
				done := model.Task{
					ID:                   "t3",
					Codename:             "falcon",
					StaffingTimeEstimate: "01:00",
					Column:               model.ColumnCompleted,
					CreatedAt:            t0.Add(-time.Hour),
					Times:                model.PhaseTimes{Doing: 100, Waiting: 30, Fixing: 50},
					Version:              7,
				}
				m.On("GetTask", mock.Anything, "t3").Once().Return(&done, nil)
				m.On("ArchiveTask", mock.Anything, mock.MatchedBy(func(e model.AnalyticsEntry) bool {
					return e.ID == "t3" && e.TotalTime == 150 && e.SLA == 3600
				}), uint64(7)).Once().Return(nil)
			},
			run: func(ctx context.Context, svc *Service) error {
				_, err := svc.ArchiveTask(ctx, "t3")
				return err
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			mRepo := &storagemock.MockRepository{}
			test.mock(mRepo)

			svc, _ := newTestService(t, mRepo)
			err := test.run(context.Background(), svc)

			if test.expErr {
				assert.Error(err)
				if test.expErrIs != nil {
					assert.ErrorIs(err, test.expErrIs)
				}
			} else {
				assert.NoError(err)
			}
			mRepo.AssertExpectations(t)
		})
	}
}
