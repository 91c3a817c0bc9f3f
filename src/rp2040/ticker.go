/*
 * Copyright 2025 Ted Dunning
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rp2040

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
)

// periodUs and callback are the state of the single installed tick
// source; the control kernel only ever installs one.
var (
	periodUs uint32
	callback func()
	ticking  volatile.Register32
	irq      interrupt.Interrupt
)

// alarmHandler rearms ALARM0 for the next period and invokes the
// installed callback. The alarm is rearmed from inside the handler, one
// period after the current timer value (same technique the teacher uses
// to rearm its DMA gather chain from its own interrupt, see the original
// src/pico/setup.go's DMA IRQ handler), so each tick period is the
// nominal period plus that tick's interrupt latency.
func alarmHandler(i interrupt.Interrupt) {
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_0)
	if ticking.Get() == 0 {
		return
	}
	rp.TIMER.ALARM0.Set(rp.TIMER.TIMERAWL.Get() + periodUs)
	if callback != nil {
		callback()
	}
}

// Ticker installs a 1kHz (or whatever rate the kernel asks for) control
// loop callback on the RP2040's hardware ALARM0, implementing hal.Ticker
// without relying on any PIO/DMA hardware (spec §5 Open Question (i):
// the core doesn't care which concrete tick source drives it).
type Ticker struct{}

func (Ticker) Start(hz uint32, cb func()) error {
	periodUs = 1_000_000 / hz
	callback = cb
	ticking.Set(1)

	rp.TIMER.INTE.Set(rp.TIMER_INTE_ALARM_0)
	irq = interrupt.New(rp.IRQ_TIMER_IRQ_0, alarmHandler)
	irq.Enable()
	rp.TIMER.ALARM0.Set(rp.TIMER.TIMERAWL.Get() + periodUs)
	return nil
}

func (Ticker) Stop() {
	ticking.Set(0)
	irq.Disable()
}
