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

func Test_FeedRecognizer_short(t *testing.T) {
	var f FeedRecognizer
	for i := 0; i < 5; i++ {
		f.Update(true)
	}
	f.Update(false)

	if f.Signal != FeedShort {
		t.Errorf("dwell of 5 ticks classified as %v, want FeedShort", f.Signal)
	}
}

func Test_FeedRecognizer_long(t *testing.T) {
	var f FeedRecognizer
	for i := 0; i < FeedLongThreshold+5; i++ {
		f.Update(true)
	}
	f.Update(false)

	if f.Signal != FeedLong {
		t.Errorf("dwell past threshold classified as %v, want FeedLong", f.Signal)
	}
}

func Test_FeedRecognizer_boundary(t *testing.T) {
	// dwell exactly at the threshold must still classify as short; only
	// a dwell count strictly greater than the threshold is long. The first
	// active tick only arms the recognizer, so FeedLongThreshold+1 active
	// ticks leave the dwell count equal to the threshold.
	var f FeedRecognizer
	for i := 0; i <= FeedLongThreshold; i++ {
		f.Update(true)
	}
	f.Update(false)

	if f.Signal != FeedShort {
		t.Errorf("dwell == threshold classified as %v, want FeedShort", f.Signal)
	}
}

func Test_FeedRecognizer_consumeClears(t *testing.T) {
	var f FeedRecognizer
	f.Update(true)
	f.Update(false)

	if f.Signal == FeedNone {
		t.Fatalf("expected a pending signal before Consume")
	}
	got := f.Consume()
	if got == FeedNone {
		t.Errorf("Consume() returned FeedNone, want the latched signal")
	}
	if f.Signal != FeedNone {
		t.Errorf("Signal after Consume() = %v, want FeedNone", f.Signal)
	}
}

func Test_FeedRecognizer_clearDoesNotReport(t *testing.T) {
	var f FeedRecognizer
	f.Update(true)
	f.Update(false)
	f.Clear()
	if f.Signal != FeedNone {
		t.Errorf("Signal after Clear() = %v, want FeedNone", f.Signal)
	}
}

func Test_FeedRecognizer_noSpuriousSignalWhileHeld(t *testing.T) {
	var f FeedRecognizer
	for i := 0; i < 50; i++ {
		f.Update(true)
		if f.Signal != FeedNone {
			t.Errorf("tick %d: signal latched while input still held", i)
		}
	}
}
