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

func Test_OptoIndex_adcHysteresis(t *testing.T) {
	cfg := OptoConfig{Source: OptoSourceADC, ADCLowThresh: 1000, ADCHighThresh: 3000}
	o := NewOptoIndex(cfg)

	o.UpdateADC(500)
	if o.IsIndexed {
		t.Fatalf("below high threshold should not set the latch from false")
	}
	o.UpdateADC(3500)
	if !o.IsIndexed {
		t.Fatalf("sample above high threshold should set the latch")
	}
	o.UpdateADC(1500)
	if !o.IsIndexed {
		t.Errorf("sample between thresholds should hold the latch once set")
	}
	o.UpdateADC(500)
	if o.IsIndexed {
		t.Errorf("sample below low threshold should clear the latch")
	}
}

func Test_OptoIndex_negativeSampleIgnored(t *testing.T) {
	cfg := OptoConfig{Source: OptoSourceADC, ADCLowThresh: 1000, ADCHighThresh: 3000}
	o := NewOptoIndex(cfg)
	o.UpdateADC(3500)
	o.UpdateADC(-1)
	if !o.IsIndexed {
		t.Errorf("read-failure sample must leave the latch unchanged")
	}
}

func Test_OptoIndex_digitalLatch(t *testing.T) {
	o := NewOptoIndex(OptoConfig{Source: OptoSourceDigital})
	o.UpdateDigital(true)
	if !o.IsIndexed {
		t.Errorf("digital latch did not follow active=true")
	}
	o.UpdateDigital(false)
	if o.IsIndexed {
		t.Errorf("digital latch did not follow active=false")
	}
}
