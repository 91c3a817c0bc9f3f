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

package rp2040

import (
	"fmt"

	"github.com/chiefMarlin/tinygo-drivers/si5351"
	"machine"

	"github.com/Bazmundi/pickplaz-feeder/src/support"
)

// SyncClockConfig names the reference frequency a gang of feeder boards
// on one assembly line should lock to (spec §4.8, an enrichment beyond
// the distilled spec: multiple boards geared to a shared index cadence
// can each emit the same Si5351 reference for the others to follow).
type SyncClockConfig struct {
	// CrystalHz is the Si5351's own reference crystal frequency,
	// typically 25MHz or 27MHz.
	CrystalHz float64
	// OutputHz is the shared gang-sync reference frequency to emit.
	OutputHz float64
}

// StartSyncClock brings up the board's Si5351 over I2C0 and drives its
// CLK0 output at the configured gang-sync frequency. It is optional,
// board-specific, called once at bring-up, and never touches the
// per-tick control loop (spec §5, §9: no floating point or blocking I/O
// in the tick path; this runs entirely before the ticker starts).
func StartSyncClock(cfg SyncClockConfig) error {
	if err := machine.I2C0.Configure(machine.I2CConfig{}); err != nil {
		return fmt.Errorf("syncclock: configure i2c: %w", err)
	}

	clockgen := si5351.New(machine.I2C0)
	connected, err := clockgen.Connected()
	if err != nil {
		return fmt.Errorf("syncclock: probe: %w", err)
	}
	if !connected {
		return fmt.Errorf("syncclock: si5351 not responding on I2C0")
	}
	if err := clockgen.Configure(); err != nil {
		return fmt.Errorf("syncclock: configure: %w", err)
	}

	plan, err := support.New(cfg.CrystalHz, 0, cfg.OutputHz)
	if err != nil {
		return fmt.Errorf("syncclock: plan divider: %w", err)
	}

	mult, num, denom := plan.PLLParams()
	if err := clockgen.ConfigurePLL(si5351.PLL_A, uint8(mult), num, denom); err != nil {
		return fmt.Errorf("syncclock: configure pll: %w", err)
	}

	div, msNum, msDenom, _ := plan.MultisynthParams()
	if err := clockgen.ConfigureMultisynth(0, si5351.PLL_A, div, msNum, msDenom); err != nil {
		return fmt.Errorf("syncclock: configure multisynth: %w", err)
	}

	if err := clockgen.EnableOutputs(); err != nil {
		return fmt.Errorf("syncclock: enable outputs: %w", err)
	}

	fmt.Printf("syncclock: CLK0 at %.3f kHz (target %.3f kHz, error %.2g Hz)\n",
		plan.OutputFrequency()/1e3, cfg.OutputHz/1e3, plan.Error())
	return nil
}
