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

// MotorState is the running state of the H-bridge driver FSM.
type MotorState int

const (
	MotorInit MotorState = iota
	MotorIdle
	MotorRunningForward
	MotorRunningBackward
	MotorBrake
)

// MotorDrive is the commanded H-bridge output for one tick: exactly one
// of the two channels carries nonzero duty, or both are zero when idle
// (spec I4).
type MotorDrive struct {
	PWM     uint32
	Forward bool
}

// MotorFSM implements the braking motor driver of spec §4.5.
type MotorFSM struct {
	State        MotorState
	timer        uint32
	brakePWM     uint32
	brakeForward bool
	lastPWM      uint32
	lastForward  bool
}

// NewMotorFSM returns a MotorFSM in its init state.
func NewMotorFSM() *MotorFSM {
	return &MotorFSM{lastForward: true}
}

// Step advances the FSM given the signed target from AppFSM (spec I3:
// target must lie in [-2048, 2048]) and returns the drive to apply.
func (m *MotorFSM) Step(target int32) MotorDrive {
	switch m.State {
	case MotorInit:
		m.State = MotorIdle
		return MotorDrive{PWM: 0, Forward: true}

	case MotorIdle:
		if target > 0 {
			m.State = MotorRunningForward
		} else if target < 0 {
			m.State = MotorRunningBackward
		}
		return MotorDrive{PWM: 0, Forward: true}

	case MotorRunningForward:
		if target == 0 {
			return m.enterBrake()
		}
		m.lastPWM = uint32(target)
		m.lastForward = true
		return MotorDrive{PWM: m.lastPWM, Forward: true}

	case MotorRunningBackward:
		if target == 0 {
			return m.enterBrake()
		}
		m.lastPWM = uint32(-target)
		m.lastForward = false
		return MotorDrive{PWM: m.lastPWM, Forward: false}

	case MotorBrake:
		if m.timer > 0 {
			m.timer--
		}
		if m.timer == 0 || target != 0 {
			m.State = MotorIdle
		}
		return MotorDrive{PWM: m.brakePWM, Forward: m.brakeForward}

	default:
		m.State = MotorInit
		return MotorDrive{PWM: 0, Forward: true}
	}
}

// enterBrake transitions into the active-brake state, driving the
// opposite direction at the previously commanded magnitude for
// MotorBrakeTicks ticks (spec I5). The entering tick is the first of
// those ticks, so the timer covers the remaining MotorBrakeTicks-1.
func (m *MotorFSM) enterBrake() MotorDrive {
	m.State = MotorBrake
	m.timer = MotorBrakeTicks - 1
	m.brakePWM = m.lastPWM
	m.brakeForward = !m.lastForward
	return MotorDrive{PWM: m.brakePWM, Forward: m.brakeForward}
}
