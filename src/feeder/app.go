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

// AppState is the application-level motion coordinator state (spec
// §4.4).
type AppState int

const (
	AppInit AppState = iota
	AppIdle
	AppIncrementForward1
	AppIncrementBackward1
	AppIncrementForward2
	AppIncrementBackward2
	AppFreeForward
	AppFreeBackward
)

func (s AppState) String() string {
	switch s {
	case AppInit:
		return "init"
	case AppIdle:
		return "idle"
	case AppIncrementForward1:
		return "inc-fwd-1"
	case AppIncrementBackward1:
		return "inc-bwd-1"
	case AppIncrementForward2:
		return "inc-fwd-2"
	case AppIncrementBackward2:
		return "inc-bwd-2"
	case AppFreeForward:
		return "free-fwd"
	case AppFreeBackward:
		return "free-bwd"
	default:
		return "invalid"
	}
}

// IsForward reports whether the state belongs to the forward motion
// family, for the LED evaluator's per-state table (spec §4.6).
func (s AppState) IsForward() bool {
	return s == AppIncrementForward1 || s == AppIncrementForward2 || s == AppFreeForward
}

// IsBackward reports whether the state belongs to the backward motion
// family.
func (s AppState) IsBackward() bool {
	return s == AppIncrementBackward1 || s == AppIncrementBackward2 || s == AppFreeBackward
}

// AppFSM coordinates button/feed/opto input into a signed motor target
// (spec §4.4).
type AppFSM struct {
	State AppState
	timer uint32

	forwardOneShot     bool
	backwardOneShot    bool
	forwardContinuous  bool
	backwardContinuous bool
}

// NewAppFSM returns an AppFSM in its init state.
func NewAppFSM() *AppFSM {
	return &AppFSM{}
}

// FoldForward folds a forward-button event into the pending-request
// flags (spec §4.4 input-folding table).
func (a *AppFSM) FoldForward(ev ButtonEvent) {
	switch ev {
	case ButtonShort:
		a.forwardOneShot = true
	case ButtonHold:
		a.forwardContinuous = true
	default: // none, long
		a.forwardContinuous = false
	}
}

// FoldBackward folds a backward-button event into the pending-request
// flags.
func (a *AppFSM) FoldBackward(ev ButtonEvent) {
	switch ev {
	case ButtonShort:
		a.backwardOneShot = true
	case ButtonHold:
		a.backwardContinuous = true
	default: // none, long
		a.backwardContinuous = false
	}
}

// Step advances the FSM given the feed recognizer and the opto-index
// latch, and returns the signed motor target for this tick.
func (a *AppFSM) Step(feed *FeedRecognizer, isIndexed bool) int32 {
	switch a.State {
	case AppInit:
		a.State = AppIdle
		a.timer = 200
		return 0

	case AppIdle:
		target := int32(0)
		if a.forwardOneShot || feed.Signal == FeedShort {
			a.State = AppIncrementForward1
			a.forwardOneShot = false
			a.timer = 500
			if feed.Signal == FeedShort {
				feed.Clear()
			}
		}
		if a.backwardOneShot || feed.Signal == FeedLong {
			a.State = AppIncrementBackward1
			a.backwardOneShot = false
			a.timer = 500
			if feed.Signal == FeedLong {
				feed.Clear()
			}
		}
		if a.forwardContinuous {
			a.State = AppFreeForward
		}
		if a.backwardContinuous {
			a.State = AppFreeBackward
		}
		return target

	case AppIncrementForward1:
		if !isIndexed {
			a.State = AppIncrementForward2
			a.timer = 1500
		}
		a.tickTimerToIdle()
		return motorForward

	case AppIncrementForward2:
		if isIndexed {
			a.State = AppIdle
		}
		a.tickTimerToIdle()
		return motorForward

	case AppIncrementBackward1:
		if !isIndexed {
			a.State = AppIncrementBackward2
			a.timer = 1500
		}
		a.tickTimerToIdle()
		return motorBackward

	case AppIncrementBackward2:
		if isIndexed {
			a.State = AppIdle
		}
		a.tickTimerToIdle()
		return motorBackward

	case AppFreeForward:
		if !a.forwardContinuous {
			a.State = AppIncrementForward2
			a.timer = 1500
		}
		return motorForward

	case AppFreeBackward:
		if !a.backwardContinuous {
			a.State = AppIncrementBackward2
			a.timer = 1500
		}
		return motorBackward

	default:
		a.State = AppInit
		return 0
	}
}

// tickTimerToIdle decrements the phase timer, falling back to idle on
// expiry. It must run after any same-tick state transition so that a
// transition into a *2 phase starts counting down from its own fresh
// deadline rather than the phase-1 timer it inherited.
func (a *AppFSM) tickTimerToIdle() {
	if a.timer > 0 {
		a.timer--
	} else {
		a.State = AppIdle
	}
}
