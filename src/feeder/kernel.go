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
	"fmt"

	"github.com/Bazmundi/pickplaz-feeder/src/hal"
)

// Kernel owns one instance of every recognizer/FSM in the control
// pipeline plus the platform it drives, and runs them in the fixed
// order of spec §2 once per tick.
type Kernel struct {
	Platform hal.Platform
	Pins     PinMap

	buttonFwd Button
	buttonRev Button
	feed      FeedRecognizer
	opto      *OptoIndex
	app       *AppFSM
	motor     *MotorFSM
	leds      *LEDEvaluator

	tick        uint32
	heartbeat   uint32
	motorTarget int32
}

// NewKernel builds a Kernel bound to the given platform and pin map. It
// does not touch the platform; call Init once the platform is ready to
// be configured.
func NewKernel(p hal.Platform, pins PinMap) *Kernel {
	return &Kernel{
		Platform: p,
		Pins:     pins,
		opto:     NewOptoIndex(pins.Opto),
		app:      NewAppFSM(),
		motor:    NewMotorFSM(),
		leds:     NewLEDEvaluator(),
	}
}

// Init configures every GPIO and PWM role named in the pin map. A role
// set to hal.UnusedPin is skipped entirely (spec §7). The ADC channel of
// an ADC opto source is not configured here.
func (k *Kernel) Init() error {
	for _, pin := range []int{k.Pins.ButtonFwd, k.Pins.ButtonRev, k.Pins.Feed} {
		if pin == hal.UnusedPin {
			continue
		}
		if err := k.Platform.ConfigureInput(pin, hal.PullUp); err != nil {
			return err
		}
	}
	if k.Pins.Opto.Source == OptoSourceDigital && k.Pins.Opto.DigitalPin != hal.UnusedPin {
		if err := k.Platform.ConfigureInput(k.Pins.Opto.DigitalPin, hal.PullUp); err != nil {
			return err
		}
	}
	if k.Pins.FeedLED != hal.UnusedPin {
		if err := k.Platform.ConfigureOutput(k.Pins.FeedLED, hal.Low); err != nil {
			return err
		}
	}

	type pwmRole struct {
		channel int
		pin     int
	}
	roles := []pwmRole{
		{pwmLED0, k.Pins.LED0},
		{pwmLED1, k.Pins.LED1},
		{pwmLED2, k.Pins.LED2},
		{pwmLED3, k.Pins.LED3},
		{pwmMotorIn1, k.Pins.MotorIn1},
		{pwmMotorIn2, k.Pins.MotorIn2},
	}
	for _, r := range roles {
		if r.pin == hal.UnusedPin {
			continue
		}
		if err := k.Platform.Init(r.channel, r.pin, 20000, 11); err != nil {
			return err
		}
	}
	return nil
}

// Tick runs one pass of the control pipeline: button recognizers, feed
// recognizer, opto-index debouncer, application FSM, motor FSM, LED
// evaluator (spec §2). It is the callback installed with hal.Ticker.
func (k *Kernel) Tick() {
	k.tick++

	fwdEvent := k.buttonFwd.Update(k.readActive(k.Pins.ButtonFwd, k.Pins.ButtonActiveLow))
	revEvent := k.buttonRev.Update(k.readActive(k.Pins.ButtonRev, k.Pins.ButtonActiveLow))
	k.app.FoldForward(fwdEvent)
	k.app.FoldBackward(revEvent)

	k.feed.Update(k.readActive(k.Pins.Feed, k.Pins.FeedActiveLow))

	k.updateOpto()

	feedSignal := k.feed.Signal
	target := k.app.Step(&k.feed, k.opto.IsIndexed)
	k.motorTarget = target
	drive := k.motor.Step(target)
	k.driveMotor(drive)

	frame := k.leds.Eval(k.tick, k.app.State, k.opto.IsIndexed, feedSignal, k.Pins.FeedLED != hal.UnusedPin)
	k.driveLEDs(frame)

	k.logHeartbeat()
}

// readActive resolves a logical pin role to a debounced-free boolean,
// treating an unused role as permanently inactive (spec §7).
func (k *Kernel) readActive(pin int, activeLow bool) bool {
	if pin == hal.UnusedPin {
		return false
	}
	level := k.Platform.Read(pin) == hal.High
	if activeLow {
		return !level
	}
	return level
}

// updateOpto drives the opto-index debouncer from whichever source the
// pin map configures; an unconfigured source leaves the prior latch
// value untouched.
func (k *Kernel) updateOpto() {
	switch k.Pins.Opto.Source {
	case OptoSourceADC:
		k.opto.UpdateADC(k.Platform.Sample(k.Pins.Opto.ADCChannel))
	case OptoSourceDigital:
		if k.Pins.Opto.DigitalPin == hal.UnusedPin {
			return
		}
		active := k.Platform.Read(k.Pins.Opto.DigitalPin) == hal.High
		if !k.Pins.Opto.ActiveHigh {
			active = !active
		}
		k.opto.UpdateDigital(active)
	}
}

// driveMotor maps the signed MotorDrive onto the two H-bridge PWM
// channels: the driven direction carries the scaled duty, the other is
// held at zero (spec I4). Forward holds IN1 at zero and drives IN2;
// backward is the mirror image (spec §4.5, app_set_motor).
func (k *Kernel) driveMotor(d MotorDrive) {
	duty := scaleDuty(d.PWM)
	if k.Pins.MotorIn1 == hal.UnusedPin || k.Pins.MotorIn2 == hal.UnusedPin {
		return
	}
	if d.Forward {
		k.Platform.SetDuty(pwmMotorIn1, 0)
		k.Platform.SetDuty(pwmMotorIn2, duty)
	} else {
		k.Platform.SetDuty(pwmMotorIn1, duty)
		k.Platform.SetDuty(pwmMotorIn2, 0)
	}
}

// driveLEDs applies the evaluated frame to the four LED channels, or to
// a dedicated feed pin when the board has one wired instead of folding
// the blink onto LED3.
func (k *Kernel) driveLEDs(f LEDFrame) {
	if k.Pins.LED0 != hal.UnusedPin {
		k.Platform.SetDuty(pwmLED0, scaleDuty(f.LED0))
	}
	if k.Pins.LED1 != hal.UnusedPin {
		k.Platform.SetDuty(pwmLED1, scaleDuty(f.LED1))
	}
	if k.Pins.LED2 != hal.UnusedPin {
		k.Platform.SetDuty(pwmLED2, scaleDuty(f.LED2))
	}
	if k.Pins.LED3 != hal.UnusedPin {
		k.Platform.SetDuty(pwmLED3, scaleDuty(f.LED3))
	}
	if k.Pins.FeedLED != hal.UnusedPin {
		k.Platform.Write(k.Pins.FeedLED, hal.Level(f.FeedPinHigh))
	}
}

// scaleDuty converts a canonical [0, PwmCanonicalMax] value to the
// native 11-bit duty range configured in Init (spec §6: "value *
// max_duty / 2048").
func scaleDuty(canonical uint32) uint32 {
	const maxDuty = 2047
	return canonical * maxDuty / PwmCanonicalMax
}

// logHeartbeat prints a once-per-second status line carrying tick
// count, app state, motor target, and index latch (spec §4.7). It is
// the only ambient I/O in the tick path and is cheap enough at 1 Hz not
// to threaten the deadline.
func (k *Kernel) logHeartbeat() {
	k.heartbeat++
	if k.heartbeat < TickHz {
		return
	}
	k.heartbeat = 0
	fmt.Printf("feeder: tick=%d state=%s target=%d indexed=%v\n", k.tick, k.app.State, k.motorTarget, k.opto.IsIndexed)
}
