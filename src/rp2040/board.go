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

// Package rp2040 binds the feeder control kernel's hal.Platform to real
// RP2040 peripherals: GPIO and PWM through the machine package and the
// adapted PWM slice driver in machine_x, ADC through machine.ADC, and
// the periodic tick through a hardware alarm (see ticker.go).
package rp2040

import (
	"machine"

	"github.com/Bazmundi/pickplaz-feeder/src/hal"
	"github.com/Bazmundi/pickplaz-feeder/src/machine_x"
)

// pwmSlice is the subset of the machine_x PWM slice API the board needs.
// machine_x.PWM0..PWM11 are *pwmGroup values of an unexported type; this
// interface lets Board hold them without naming that type.
type pwmSlice interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

var pwmSlices = [12]pwmSlice{
	machine_x.PWM0, machine_x.PWM1, machine_x.PWM2, machine_x.PWM3,
	machine_x.PWM4, machine_x.PWM5, machine_x.PWM6, machine_x.PWM7,
	machine_x.PWM8, machine_x.PWM9, machine_x.PWM10, machine_x.PWM11,
}

type pwmBinding struct {
	slice pwmSlice
	sub   uint8
	top   uint32
}

// Board implements hal.Platform against a physical RP2040. It is built
// once at startup and handed to feeder.NewKernel. The tick source is
// embedded rather than reimplemented here; see ticker.go.
type Board struct {
	Ticker
	pwm [6]pwmBinding
}

// NewBoard returns a Board with no peripherals yet configured.
func NewBoard() *Board {
	return &Board{}
}

func (b *Board) ConfigureInput(pin int, pull hal.Pull) error {
	mode := machine.PinInputPullup
	switch pull {
	case hal.PullDown:
		mode = machine.PinInputPulldown
	case hal.PullNone:
		mode = machine.PinInput
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (b *Board) ConfigureOutput(pin int, initial hal.Level) error {
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Set(bool(initial))
	return nil
}

func (b *Board) Read(pin int) hal.Level {
	return hal.Level(machine.Pin(pin).Get())
}

func (b *Board) Write(pin int, level hal.Level) {
	machine.Pin(pin).Set(bool(level))
}

// Init configures PWM channel logicalChannel to drive pin at freqHz
// (spec §6: PWM). dutyBits is not used: SetDuty always takes duty on a
// fixed 11-bit scale, whatever value is passed here.
func (b *Board) Init(logicalChannel int, pin int, freqHz uint32, dutyBits uint8) error {
	p := machine.Pin(pin)
	sliceNum, err := machine_x.PWMPeripheral(p)
	if err != nil {
		return err
	}
	slice := pwmSlices[sliceNum]
	sub, err := slice.Channel(p)
	if err != nil {
		return err
	}
	if err := slice.Configure(machine.PWMConfig{Period: uint64(1e9 / freqHz)}); err != nil {
		return err
	}
	b.pwm[logicalChannel] = pwmBinding{slice: slice, sub: sub, top: slice.Top()}
	return nil
}

// SetDuty drives logicalChannel with a duty value on the fixed 0..2047
// scale, rescaled to whatever TOP the slice's period actually produced.
// Values above 2047 are not clamped.
func (b *Board) SetDuty(logicalChannel int, duty uint32) {
	pc := b.pwm[logicalChannel]
	if pc.slice == nil {
		return
	}
	const nativeMax = 2047
	pc.slice.Set(pc.sub, duty*pc.top/nativeMax)
}

// adcPin maps a logical ADC channel (0..3) to the RP2040's four ADC
// input GPIOs (GP26..GP29), the same mapping TinyGo's machine package
// uses for machine.ADC0..ADC3.
func adcPin(channel int) machine.Pin {
	return machine.Pin(26 + channel)
}

// Sample reads one ADC channel. machine.InitADC must have been called
// once at startup. The result of configuring the pin is not checked, and
// Sample never returns the negative read-failure sentinel (spec §7): it
// always returns the 12-bit reading.
func (b *Board) Sample(channel int) int32 {
	adc := machine.ADC{Pin: adcPin(channel)}
	adc.Configure(machine.ADCConfig{})
	return int32(adc.Get() >> 4) // 16-bit reading scaled to 12-bit range
}
