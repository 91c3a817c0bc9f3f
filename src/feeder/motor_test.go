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
)

func Test_MotorFSM_initThenIdle(t *testing.T) {
	m := NewMotorFSM()
	d := m.Step(0)
	assert.Equal(t, MotorIdle, m.State)
	assert.Equal(t, uint32(0), d.PWM)
}

func Test_MotorFSM_runsForwardAndBackward(t *testing.T) {
	m := NewMotorFSM()
	m.Step(0)    // init -> idle
	m.Step(1500) // idle -> running forward; this transition tick drives zero

	d := m.Step(1500)
	assert.Equal(t, MotorRunningForward, m.State)
	assert.Equal(t, uint32(1500), d.PWM)
	assert.True(t, d.Forward)

	m = NewMotorFSM()
	m.Step(0)     // init -> idle
	m.Step(-1200) // idle -> running backward; this transition tick drives zero

	d = m.Step(-1200)
	assert.Equal(t, MotorRunningBackward, m.State)
	assert.Equal(t, uint32(1200), d.PWM)
	assert.False(t, d.Forward)
}

func Test_MotorFSM_brakeOpposesLastDirection(t *testing.T) {
	m := NewMotorFSM()
	m.Step(0)
	m.Step(2048) // idle -> running forward
	m.Step(2048) // running forward at full duty

	d := m.Step(0) // target drops to zero: enter brake
	assert.Equal(t, MotorBrake, m.State)
	assert.False(t, d.Forward, "brake must drive the opposite direction of the last run")
	assert.Equal(t, uint32(2048), d.PWM, "brake duty must match the last commanded magnitude")
}

func Test_MotorFSM_brakeTimesOutToIdle(t *testing.T) {
	m := NewMotorFSM()
	m.Step(0)
	m.Step(2048)
	m.Step(0) // enters brake, consumes tick 1 of the brake window

	var last MotorDrive
	for i := 0; i < MotorBrakeTicks+2; i++ {
		last = m.Step(0)
	}
	assert.Equal(t, MotorIdle, m.State)
	assert.Equal(t, uint32(0), last.PWM)
}

func Test_MotorFSM_newTargetDuringBrakeReturnsToIdle(t *testing.T) {
	m := NewMotorFSM()
	m.Step(0)
	m.Step(2048)
	m.Step(0) // enters brake

	m.Step(-500) // a fresh nonzero target should cut the brake short
	assert.Equal(t, MotorIdle, m.State)
}
