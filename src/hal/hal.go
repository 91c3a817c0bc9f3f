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

// Package hal declares the peripheral abstraction the feeder control
// kernel is built against. A board package binds these to real hardware;
// tests bind them to in-memory fakes. No method here may block.
package hal

// UnusedPin marks a logical role that has no GPIO or ADC channel wired
// on a given board. Recognizers that consume an unused pin treat the
// source as permanently inactive.
const UnusedPin = -1

// Level is a digital logic level.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Pull selects a GPIO input's internal pull resistor.
type Pull int

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIO is the digital pin abstraction consumed by the core. Configure
// calls happen once at startup; Read/Write happen every tick and must
// return immediately.
type GPIO interface {
	ConfigureInput(pin int, pull Pull) error
	ConfigureOutput(pin int, initial Level) error
	Read(pin int) Level
	Write(pin int, level Level)
}

// PWM is the duty-cycle abstraction for the four LED channels and the
// two motor H-bridge channels.
type PWM interface {
	Init(channel int, pin int, freqHz uint32, dutyBits uint8) error
	SetDuty(channel int, duty uint32)
}

// ADC is a one-shot, non-blocking analog sampler. A negative return
// value is the read-failure sentinel described in spec §7.
type ADC interface {
	Sample(channel int) int32
}

// Ticker installs or removes the periodic callback that drives the
// control kernel. Start must be idempotent-safe to call once at boot.
type Ticker interface {
	Start(hz uint32, callback func()) error
	Stop()
}

// Platform bundles every peripheral the kernel can drive.
type Platform interface {
	GPIO
	PWM
	ADC
	Ticker
}
