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

package main

import (
	"fmt"
	"time"

	"github.com/Bazmundi/pickplaz-feeder/src/feeder"
	"github.com/Bazmundi/pickplaz-feeder/src/rp2040"
)

func main() {
	time.Sleep(1000 * time.Millisecond)

	board := rp2040.NewBoard()
	pins := feeder.DefaultPinMap()
	kernel := feeder.NewKernel(board, pins)
	if err := kernel.Init(); err != nil {
		panic("failed setup: " + err.Error())
	}

	if enableSyncClock {
		if err := rp2040.StartSyncClock(rp2040.SyncClockConfig{
			CrystalHz: 25e6,
			OutputHz:  28_800_000,
		}); err != nil {
			fmt.Printf("syncclock disabled: %s\n", err)
		}
	}

	if err := board.Start(feeder.TickHz, kernel.Tick); err != nil {
		panic("failed to start tick source: " + err.Error())
	}

	fmt.Printf("pickplaz-feeder running at %d Hz\n", feeder.TickHz)
	select {}
}

// enableSyncClock gates the optional multi-board gang-sync reference
// clock (spec §4.8). Most single-feeder installs leave it off.
const enableSyncClock = false
