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

// OptoIndex tracks the boolean "is-indexed" latch produced by the
// optical index sensor, with ADC hysteresis or a plain digital read
// depending on how the board is wired (spec §4.3).
type OptoIndex struct {
	cfg       OptoConfig
	IsIndexed bool
}

// NewOptoIndex builds an OptoIndex bound to the given configuration.
func NewOptoIndex(cfg OptoConfig) *OptoIndex {
	return &OptoIndex{cfg: cfg}
}

// UpdateADC applies hysteresis to a raw ADC sample. A negative sample is
// a read failure (spec §7) and leaves the latch unchanged.
func (o *OptoIndex) UpdateADC(sample int32) {
	if sample < 0 {
		return
	}
	if o.IsIndexed {
		o.IsIndexed = sample > o.cfg.ADCLowThresh
	} else {
		o.IsIndexed = sample > o.cfg.ADCHighThresh
	}
}

// UpdateDigital latches the instantaneous debounced-free digital read.
func (o *OptoIndex) UpdateDigital(active bool) {
	o.IsIndexed = active
}
