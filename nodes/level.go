// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package nodes implements the framework's leaf nodes (spec §4.6):
// concrete sequential transforms and sinks built on the node.Sequential
// contract, ready to be chained into a strip.Strip.
package nodes

import "math"

// floorDB is the dB value reported for a zero (or negative, which cannot
// occur) linear amplitude, matching the analyzer's magnitude_floor_db
// default (spec §4.7) so level readouts share one silence convention
// across the module.
const floorDB = -120.0

// linearToDB converts a normalized linear amplitude in [0,1] to decibels,
// clamping at floorDB instead of producing -Inf for silence.
func linearToDB(linear float64) float64 {
	if linear <= 0 {
		return floorDB
	}
	db := 20 * math.Log10(linear)
	if db < floorDB {
		return floorDB
	}
	return db
}

// abs16 returns the absolute value of an int16 sample widened to int32,
// since -math.MinInt16 overflows int16.
func abs16(v int16) int32 {
	if v < 0 {
		return -int32(v)
	}
	return int32(v)
}
