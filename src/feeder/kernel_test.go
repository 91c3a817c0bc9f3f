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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Bazmundi/pickplaz-feeder/src/hal"
)

// fakePlatform is an in-memory hal.Platform used to drive a Kernel in
// tests without any real hardware.
type fakePlatform struct {
	levels map[int]hal.Level
	duty   map[int]uint32
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{levels: map[int]hal.Level{}, duty: map[int]uint32{}}
}

func (p *fakePlatform) ConfigureInput(pin int, pull hal.Pull) error { return nil }

func (p *fakePlatform) ConfigureOutput(pin int, initial hal.Level) error {
	p.levels[pin] = initial
	return nil
}

func (p *fakePlatform) Read(pin int) hal.Level         { return p.levels[pin] }
func (p *fakePlatform) Write(pin int, level hal.Level) { p.levels[pin] = level }

func (p *fakePlatform) Init(channel int, pin int, freqHz uint32, dutyBits uint8) error {
	return nil
}

func (p *fakePlatform) SetDuty(channel int, duty uint32) { p.duty[channel] = duty }
func (p *fakePlatform) Sample(channel int) int32         { return -1 }
func (p *fakePlatform) Start(hz uint32, cb func()) error { return nil }
func (p *fakePlatform) Stop()                            {}

func Test_Kernel_tickRunsWithoutPanicking(t *testing.T) {
	platform := newFakePlatform()
	pins := DefaultPinMap()
	k := NewKernel(platform, pins)
	assert.NoError(t, k.Init())

	for i := 0; i < 3*int(TickHz); i++ {
		k.Tick()
	}
}

func Test_Kernel_shortFeedPulseDrivesMotorForward(t *testing.T) {
	platform := newFakePlatform()
	pins := DefaultPinMap()
	pins.Feed = 9 // give this board a feed pin so the scenario is exercisable
	pins.FeedActiveLow = false
	k := NewKernel(platform, pins)
	assert.NoError(t, k.Init())

	platform.levels[pins.Feed] = hal.High
	for i := 0; i < 5; i++ {
		k.Tick()
	}
	platform.levels[pins.Feed] = hal.Low
	// the falling edge only flips AppFSM's state; MotorFSM needs a
	// further couple of ticks to leave Idle and start actually driving.
	for i := 0; i < 4; i++ {
		k.Tick()
	}

	assert.True(t, k.app.State.IsForward(), "feed pulse should have kicked off a forward move, got %s", k.app.State)
	assert.Greater(t, platform.duty[pwmMotorIn2], uint32(0))
	assert.Equal(t, uint32(0), platform.duty[pwmMotorIn1])
}

func Test_Kernel_dedicatedFeedLEDPinIsDrivenSeparatelyFromFeedInput(t *testing.T) {
	platform := newFakePlatform()
	pins := DefaultPinMap()
	pins.Feed = 9
	pins.FeedActiveLow = false
	pins.FeedLED = 12
	k := NewKernel(platform, pins)
	assert.NoError(t, k.Init())

	platform.levels[pins.Feed] = hal.High
	for i := 0; i < 5; i++ {
		k.Tick()
	}
	platform.levels[pins.Feed] = hal.Low
	k.Tick()

	assert.Equal(t, hal.High, platform.levels[pins.FeedLED], "feed blink must drive its own pin, not fold onto LED3")
}

func Test_Kernel_unusedMotorPinsAreSkippedSafely(t *testing.T) {
	platform := newFakePlatform()
	pins := DefaultPinMap()
	pins.MotorIn1 = hal.UnusedPin
	pins.MotorIn2 = hal.UnusedPin
	k := NewKernel(platform, pins)
	assert.NoError(t, k.Init())

	assert.NotPanics(t, func() {
		for i := 0; i < 10; i++ {
			k.Tick()
		}
	})
}
