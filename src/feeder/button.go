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

// ButtonEvent is the per-tick output of a Button recognizer.
type ButtonEvent int

const (
	ButtonNone ButtonEvent = iota
	ButtonShort
	ButtonLong
	ButtonHold
)

func (e ButtonEvent) String() string {
	switch e {
	case ButtonNone:
		return "none"
	case ButtonShort:
		return "short"
	case ButtonLong:
		return "long"
	case ButtonHold:
		return "hold"
	default:
		return "invalid"
	}
}

// Button debounces one physical push-button with a saturating up/down
// counter (spec §4.1). Pin/ActiveLow/Unused live on the owning board's
// PinMap; Button itself only ever sees a resolved "is this pin
// currently active" boolean from the caller.
type Button struct {
	cnt   uint32
	press uint32
}

// Update advances the debounce state machine by one tick given whether
// the raw input currently reads active, and returns the event (if any)
// produced on this tick.
func (b *Button) Update(rawActive bool) ButtonEvent {
	if rawActive {
		if b.cnt < ButtonCntMax {
			b.cnt++
		}
	} else if b.cnt > 0 {
		b.cnt--
	}

	debounced := b.cnt > ButtonCntMax/2
	if debounced {
		b.press++
		if b.press > ButtonLongpress {
			return ButtonHold
		}
		return ButtonNone
	}

	if b.press > 0 {
		ev := ButtonShort
		if b.press > ButtonLongpress {
			ev = ButtonLong
		}
		b.press = 0
		return ev
	}
	return ButtonNone
}
