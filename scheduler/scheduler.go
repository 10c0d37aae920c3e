// MIT License
//
// Copyright (c) 2026 Silo Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package scheduler drives reminder and timer deliveries into the actor
// runtime. It wraps a quartz scheduler: each registered reminder or timer
// becomes a keyed job whose trigger encodes the due-time/period pair, and
// each firing calls back into the runtime's delivery entry points.
package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"

	gerrors "github.com/silo-run/silo/errors"
	"github.com/silo-run/silo/host"
	"github.com/silo-run/silo/log"
)

// Deliverer is the slice of the actor runtime the scheduler needs: the two
// delivery entry points jobs fire into.
type Deliverer interface {
	FireReminder(ctx context.Context, id host.ActorID, name string, payload []byte) error
	FireTimer(ctx context.Context, id host.ActorID, payload []byte) error
}

// Scheduler schedules reminder and timer deliveries against a Deliverer.
//
// Reminders and timers are addressed by (identity, name); registering a name
// that is already scheduled replaces the previous schedule. The scheduler is
// safe for concurrent use.
type Scheduler struct {
	// helps lock concurrent access
	mu sync.Mutex
	// underlying quartz scheduler
	quartzScheduler quartz.Scheduler
	// states whether the quartz scheduler has started or not
	started *atomic.Bool
	// define the logger
	logger log.Logger
	// define the shutdown timeout
	stopTimeout time.Duration
	deliverer   Deliverer
}

// New creates a Scheduler delivering into the given Deliverer.
func New(logger log.Logger, deliverer Deliverer, stopTimeout time.Duration) (*Scheduler, error) {
	quartzScheduler, err := quartz.NewStdScheduler()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		quartzScheduler: quartzScheduler,
		started:         atomic.NewBool(false),
		logger:          logger,
		stopTimeout:     stopTimeout,
		deliverer:       deliverer,
	}, nil
}

// Start starts the scheduler.
func (x *Scheduler) Start(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("starting reminders scheduler...")
	x.quartzScheduler.Start(ctx)
	x.started.Store(x.quartzScheduler.IsStarted())
	x.logger.Info("reminders scheduler started")
}

// Stop clears all scheduled jobs and stops the scheduler, waiting up to the
// configured stop timeout for running jobs to finish.
func (x *Scheduler) Stop(ctx context.Context) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.logger.Info("stopping reminders scheduler...")
	if err := x.quartzScheduler.Clear(); err != nil {
		x.logger.Warnf("failed to clear scheduled jobs: %v", err)
	}
	x.quartzScheduler.Stop()
	x.started.Store(x.quartzScheduler.IsStarted())

	ctx, cancel := context.WithTimeout(ctx, x.stopTimeout)
	defer cancel()
	x.quartzScheduler.Wait(ctx)
	x.logger.Info("reminders scheduler stopped")
}

// ScheduleReminder registers a durable reminder for the identity. The first
// delivery happens after dueTime; a non-zero period repeats the delivery
// until the reminder is canceled.
func (x *Scheduler) ScheduleReminder(ctx context.Context, id host.ActorID, name string, data []byte, dueTime, period time.Duration) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	payload, err := json.Marshal(host.ReminderPayload{Data: data, DueTime: dueTime, Period: period})
	if err != nil {
		return err
	}

	reminderJob := job.NewFunctionJob(func(ctx context.Context) (bool, error) {
		if err := x.deliverer.FireReminder(ctx, id, name, payload); err != nil {
			x.logger.Errorf("failed to deliver reminder=(%s) to actor (%s): %v", name, id.String(), err)
			return false, err
		}
		return true, nil
	})

	detail := quartz.NewJobDetail(reminderJob, reminderKey(id, name))
	return x.quartzScheduler.ScheduleJob(detail, newDeliveryTrigger(dueTime, period))
}

// CancelReminder removes the reminder's schedule. Canceling an unknown
// reminder is a no-op.
func (x *Scheduler) CancelReminder(id host.ActorID, name string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	return ignoreNotFound(x.quartzScheduler.DeleteJob(reminderKey(id, name)))
}

// ScheduleTimer registers a non-durable timer for the identity. Each firing
// invokes the named callback with the given data through the plain dispatch
// path.
func (x *Scheduler) ScheduleTimer(ctx context.Context, id host.ActorID, name, callback string, data []byte, dueTime, period time.Duration) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}

	payload, err := json.Marshal(host.TimerPayload{Callback: callback, Data: data})
	if err != nil {
		return err
	}

	timerJob := job.NewFunctionJob(func(ctx context.Context) (bool, error) {
		if err := x.deliverer.FireTimer(ctx, id, payload); err != nil {
			x.logger.Errorf("failed to deliver timer=(%s) to actor (%s): %v", name, id.String(), err)
			return false, err
		}
		return true, nil
	})

	detail := quartz.NewJobDetail(timerJob, timerKey(id, name))
	return x.quartzScheduler.ScheduleJob(detail, newDeliveryTrigger(dueTime, period))
}

// CancelTimer removes the timer's schedule. Canceling an unknown timer is a
// no-op.
func (x *Scheduler) CancelTimer(id host.ActorID, name string) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if !x.started.Load() {
		return gerrors.ErrSchedulerNotStarted
	}
	return ignoreNotFound(x.quartzScheduler.DeleteJob(timerKey(id, name)))
}

func ignoreNotFound(err error) error {
	if err != nil && errors.Is(err, quartz.ErrJobNotFound) {
		return nil
	}
	return err
}

func reminderKey(id host.ActorID, name string) *quartz.JobKey {
	return quartz.NewJobKeyWithGroup(id.String()+"/"+name, "reminders")
}

func timerKey(id host.ActorID, name string) *quartz.JobKey {
	return quartz.NewJobKeyWithGroup(id.String()+"/"+name, "timers")
}
