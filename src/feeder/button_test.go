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

import "testing"

// drive feeds a sequence of raw-active levels through b and returns the
// events produced, one per tick.
func drive(b *Button, levels []bool) []ButtonEvent {
	out := make([]ButtonEvent, len(levels))
	for i, lvl := range levels {
		out[i] = b.Update(lvl)
	}
	return out
}

func repeat(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func Test_Button_shortPress(t *testing.T) {
	var b Button
	levels := append(repeat(true, 15), repeat(false, 15)...)
	events := drive(&b, levels)

	seen := ButtonNone
	for _, e := range events {
		if e != ButtonNone {
			seen = e
		}
	}
	if seen != ButtonShort {
		t.Errorf("short press sequence produced %s, want short", seen)
	}
}

func Test_Button_longPress(t *testing.T) {
	var b Button
	levels := append(repeat(true, ButtonLongpress+50), repeat(false, 15)...)
	events := drive(&b, levels)

	seen := ButtonNone
	for _, e := range events {
		if e != ButtonNone {
			seen = e
		}
	}
	if seen != ButtonLong {
		t.Errorf("long press sequence produced %s, want long", seen)
	}
}

func Test_Button_hold(t *testing.T) {
	var b Button
	levels := repeat(true, ButtonLongpress+50)
	events := drive(&b, levels)

	holds := 0
	for _, e := range events {
		if e == ButtonHold {
			holds++
		}
	}
	if holds == 0 {
		t.Errorf("expected at least one hold event during a sustained press")
	}
}

func Test_Button_bounceIgnored(t *testing.T) {
	var b Button
	// a press too brief to cross the debounce threshold should never
	// register as a short press.
	levels := append(repeat(true, 3), repeat(false, 20)...)
	events := drive(&b, levels)

	for _, e := range events {
		if e != ButtonNone {
			t.Errorf("bounce shorter than debounce threshold produced %s, want none", e)
		}
	}
}

func Test_Button_initialStateIsReleased(t *testing.T) {
	var b Button
	if e := b.Update(false); e != ButtonNone {
		t.Errorf("Update(false) on fresh Button = %s, want none", e)
	}
}
