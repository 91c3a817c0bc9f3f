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

// sineScale turns an 8-bit sine sample into the canonical 0..2040 duty
// range (spec §4.6: "multiplied by 8").
const sineScale = 8

// LEDFrame is the four LED duty values computed for one tick, each in
// the canonical [0, PwmCanonicalMax] range, plus whether the feed pin
// (if present) should be driven high this tick.
type LEDFrame struct {
	LED0, LED1, LED2, LED3 uint32
	FeedPinHigh            bool
}

// LEDEvaluator computes the four LED duty values and runs the feed-blink
// sub-evaluator (spec §4.6).
type LEDEvaluator struct {
	SineSpeed        uint32
	feedBlinkCounter uint32
}

// NewLEDEvaluator returns an evaluator using the default chase cadence.
func NewLEDEvaluator() *LEDEvaluator {
	return &LEDEvaluator{SineSpeed: DefaultSineSpeed}
}

// Eval computes the LED frame for tick m (the tick counter, used modulo
// 256), the current AppState, the opto-index latch, and the feed signal
// as latched by the feed recognizer this tick, before AppFSM consumes
// it, so a feed pulse that idle acts on at once still reloads the blink.
func (e *LEDEvaluator) Eval(m uint32, state AppState, isIndexed bool, feedSignal FeedSignal, hasFeedPin bool) LEDFrame {
	var f LEDFrame

	switch {
	case state == AppIdle && isIndexed:
		f.LED3 = PwmCanonicalMax

	case state == AppIdle && !isIndexed:
		f.LED1 = uint32(sineAt(m)) * sineScale
		f.LED2 = uint32(sineAt(m+128)) * sineScale

	case state.IsForward():
		s := e.SineSpeed
		f.LED0 = uint32(sineAt(m)) * sineScale
		f.LED1 = uint32(sineAt(m+s)) * sineScale
		f.LED2 = uint32(sineAt(m+2*s)) * sineScale
		f.LED3 = uint32(sineAt(m+3*s)) * sineScale

	case state.IsBackward():
		s := e.SineSpeed
		f.LED3 = uint32(sineAt(m)) * sineScale
		f.LED2 = uint32(sineAt(m+s)) * sineScale
		f.LED1 = uint32(sineAt(m+2*s)) * sineScale
		f.LED0 = uint32(sineAt(m+3*s)) * sineScale

	default:
		f.LED0 = uint32(sineAt(m)) * sineScale
		f.LED1 = uint32(sineAt(m+128)) * sineScale
		f.LED2 = uint32(sineAt(m+256)) * sineScale
		f.LED3 = uint32(sineAt(m+384)) * sineScale
	}

	e.evalFeedBlink(feedSignal, hasFeedPin, &f)
	return f
}

// evalFeedBlink reloads the feed-blink countdown whenever a feed signal
// arrives, decrements it every tick, and either drives a dedicated feed
// LED pin or ORs a full-duty override onto LED3 (spec §4.6).
func (e *LEDEvaluator) evalFeedBlink(feedSignal FeedSignal, hasFeedPin bool, f *LEDFrame) {
	if feedSignal != FeedNone {
		e.feedBlinkCounter = FeedPulseTicks
	}
	if e.feedBlinkCounter > 0 {
		e.feedBlinkCounter--
	}

	if hasFeedPin {
		f.FeedPinHigh = e.feedBlinkCounter > 0
		return
	}
	if e.feedBlinkCounter > 0 {
		f.LED3 = PwmCanonicalMax
	}
}
