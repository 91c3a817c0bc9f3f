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

package feeder

import "github.com/Bazmundi/pickplaz-feeder/src/hal"

// Tuning constants, named after their spec §6 configuration-surface
// entries.
const (
	TickHz            = 1000
	ButtonCntMax      = 20
	ButtonLongpress   = 400
	FeedPulseTicks    = 500
	PwmCanonicalMax   = 2048
	DefaultSineSpeed  = 55
	MotorBrakeTicks   = 8
	FeedLongThreshold = 10

	motorForward  int32 = PwmCanonicalMax
	motorBackward int32 = -PwmCanonicalMax
)

// OptoSource selects how the opto-index sensor is wired on a given
// board.
type OptoSource int

const (
	OptoSourceNone OptoSource = iota
	OptoSourceADC
	OptoSourceDigital
)

// OptoConfig configures the opto-index debouncer (spec §4.3).
type OptoConfig struct {
	Source        OptoSource
	ADCChannel    int
	ADCLowThresh  int32
	ADCHighThresh int32
	DigitalPin    int
	ActiveHigh    bool
}

// PinMap names the GPIO/ADC role for every logical feature. A role set
// to hal.UnusedPin is treated as not populated on this board (spec §7,
// peripheral-unavailable).
type PinMap struct {
	LED0, LED1, LED2, LED3 int
	MotorIn1, MotorIn2     int
	ButtonFwd, ButtonRev   int
	ButtonActiveLow        bool
	Feed                   int
	FeedActiveLow          bool
	// FeedLED is a dedicated output pin for the feed-blink indicator
	// (spec §4.6). When unused, the blink is OR-ed onto LED3 instead.
	FeedLED int
	Opto    OptoConfig
}

// DefaultPinMap mirrors the pin roles of the original board_pins.h: two
// active-low buttons, a digital opto pin, two motor channels and four
// LEDs. The feed input and the dedicated feed LED are left unused.
func DefaultPinMap() PinMap {
	return PinMap{
		LED0: 0, LED1: 1, LED2: 3, LED3: 5,
		MotorIn1: 6, MotorIn2: 7,
		ButtonFwd: 20, ButtonRev: 21,
		ButtonActiveLow: true,
		Feed:            hal.UnusedPin,
		FeedActiveLow:   true,
		FeedLED:         hal.UnusedPin,
		Opto: OptoConfig{
			Source:     OptoSourceDigital,
			DigitalPin: 4,
			ActiveHigh: true,
		},
	}
}

// PWM channel assignments, one channel per driven role.
const (
	pwmLED0 = 0
	pwmLED1 = 1
	pwmLED2 = 2
	pwmLED3 = 3
	pwmMotorIn1 = 4
	pwmMotorIn2 = 5
)
