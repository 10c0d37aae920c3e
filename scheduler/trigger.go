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

package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/atomic"
)

var errTriggerExpired = errors.New("delivery trigger is expired")

// deliveryTrigger fires once after the due time, then every period. A zero
// period makes it a one-shot trigger.
type deliveryTrigger struct {
	dueTime time.Duration
	period  time.Duration
	fired   *atomic.Bool
}

var _ quartz.Trigger = (*deliveryTrigger)(nil)

func newDeliveryTrigger(dueTime, period time.Duration) *deliveryTrigger {
	return &deliveryTrigger{
		dueTime: dueTime,
		period:  period,
		fired:   atomic.NewBool(false),
	}
}

// NextFireTime implements quartz.Trigger. Returning an error after the last
// firing tells the scheduler to drop the job.
func (t *deliveryTrigger) NextFireTime(prev int64) (int64, error) {
	if t.fired.CompareAndSwap(false, true) {
		return prev + t.dueTime.Nanoseconds(), nil
	}
	if t.period <= 0 {
		return 0, errTriggerExpired
	}
	return prev + t.period.Nanoseconds(), nil
}

// Description implements quartz.Trigger.
func (t *deliveryTrigger) Description() string {
	return fmt.Sprintf("DeliveryTrigger (due=%s, period=%s)", t.dueTime, t.period)
}
