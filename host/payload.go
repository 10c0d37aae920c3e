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

package host

import (
	"encoding/json"
	"io"
	"time"
)

// ReminderPayload is the deserialized description of a scheduled reminder
// delivery: the opaque data blob plus the due-time/period scheduling
// metadata. Durations travel as nanoseconds. Consumed once, then discarded.
type ReminderPayload struct {
	Data    []byte        `json:"data,omitempty"`
	DueTime time.Duration `json:"dueTime"`
	Period  time.Duration `json:"period"`
}

// TimerPayload is the deserialized description of a scheduled timer delivery:
// the callback method to invoke and the opaque data blob passed to it.
type TimerPayload struct {
	Callback string `json:"callback"`
	Data     []byte `json:"data,omitempty"`
}

// decodeReminderPayload reads a ReminderPayload from the request body.
func decodeReminderPayload(r io.Reader) (*ReminderPayload, error) {
	payload := new(ReminderPayload)
	if err := json.NewDecoder(r).Decode(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// decodeTimerPayload reads a TimerPayload from the request body.
func decodeTimerPayload(r io.Reader) (*TimerPayload, error) {
	payload := new(TimerPayload)
	if err := json.NewDecoder(r).Decode(payload); err != nil {
		return nil, err
	}
	return payload, nil
}
