// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "math"

// calcNextDifficulty implements the dual multiplicative-ratio and additive
// bit-cap retarget rule: the ratio of actual to expected timespan is
// clamped to [1/4, 4], converted to a bit-level difficulty delta via
// log2(1/ratio), and that delta is additionally capped at +/-4 bits per
// retarget before being applied and clamped to [minDifficulty,
// maxDifficulty].
//
// This dual rule is a deliberate hobby-scale guardrail, not a simplification
// down to a single "true" retarget formula: the ratio keeps long-run
// difficulty tracking actual hash rate, while the additive cap bounds how
// violently a single retarget window can move it.
func calcNextDifficulty(oldDifficulty uint32, actualTimespan, targetTimespan int64, minDifficulty, maxDifficulty uint32) uint32 {
	if actualTimespan <= 0 {
		actualTimespan = 1
	}

	ratio := float64(actualTimespan) / float64(targetTimespan)
	if ratio < 0.25 {
		ratio = 0.25
	}
	if ratio > 4 {
		ratio = 4
	}

	const maxBitChange = 4
	delta := math.Round(math.Log2(1 / ratio))
	if delta > maxBitChange {
		delta = maxBitChange
	}
	if delta < -maxBitChange {
		delta = -maxBitChange
	}

	next := int64(oldDifficulty) + int64(delta)
	if next < int64(minDifficulty) {
		next = int64(minDifficulty)
	}
	if next > int64(maxDifficulty) {
		next = int64(maxDifficulty)
	}

	log.Debugf("difficulty retarget: old %d actual %ds target %ds ratio %.4f next %d",
		oldDifficulty, actualTimespan, targetTimespan, ratio, next)

	return uint32(next)
}
