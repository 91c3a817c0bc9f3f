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

func Test_LEDEvaluator_idleIndexedIsFullOnLED3(t *testing.T) {
	e := NewLEDEvaluator()
	f := e.Eval(0, AppIdle, true, FeedNone, false)
	assert.Equal(t, uint32(PwmCanonicalMax), f.LED3)
	assert.Equal(t, uint32(0), f.LED0)
}

func Test_LEDEvaluator_idleUnindexedSweepsLED1LED2(t *testing.T) {
	e := NewLEDEvaluator()
	f := e.Eval(64, AppIdle, false, FeedNone, false)
	assert.Equal(t, uint32(0), f.LED0)
	assert.Equal(t, uint32(0), f.LED3)
}

func Test_LEDEvaluator_forwardAndBackwardAreMirrored(t *testing.T) {
	e := NewLEDEvaluator()
	fwd := e.Eval(10, AppFreeForward, false, FeedNone, false)
	bwd := e.Eval(10, AppFreeBackward, false, FeedNone, false)

	assert.Equal(t, fwd.LED0, bwd.LED3, "backward must mirror forward's channel order")
	assert.Equal(t, fwd.LED1, bwd.LED2)
	assert.Equal(t, fwd.LED2, bwd.LED1)
	assert.Equal(t, fwd.LED3, bwd.LED0)
}

func Test_LEDEvaluator_feedBlinkOverridesLED3WithoutFeedPin(t *testing.T) {
	e := NewLEDEvaluator()
	f := e.Eval(0, AppFreeForward, false, FeedShort, false)
	assert.Equal(t, uint32(PwmCanonicalMax), f.LED3)
	assert.False(t, f.FeedPinHigh)
}

func Test_LEDEvaluator_feedBlinkDrivesDedicatedPin(t *testing.T) {
	e := NewLEDEvaluator()
	f := e.Eval(0, AppFreeForward, false, FeedLong, true)
	assert.True(t, f.FeedPinHigh)
}

func Test_LEDEvaluator_feedBlinkDecaysAfterPulseTicks(t *testing.T) {
	e := NewLEDEvaluator()
	e.Eval(0, AppIdle, true, FeedShort, true)
	var last LEDFrame
	for i := uint32(0); i < FeedPulseTicks+2; i++ {
		last = e.Eval(i, AppIdle, true, FeedNone, true)
	}
	assert.False(t, last.FeedPinHigh, "feed blink must decay once the pulse window has elapsed")
}
