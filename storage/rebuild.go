// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/flokiorg/flokicoin-core/blockchain"
	"github.com/flokiorg/flokicoin-core/chaincfg"
)

// DumpSnapshot writes every block of engine's active chain, plus its
// current difficulty, to store. It overwrites whatever store already holds
// at those heights.
func DumpSnapshot(store Store, engine *blockchain.Engine) error {
	for _, block := range engine.ExportBlocks() {
		if err := store.AppendBlock(block); err != nil {
			return err
		}
	}
	return store.SetDifficulty(engine.CurrentDifficulty())
}

// Rebuild reconstructs an Engine from whatever store holds. An empty store
// yields a freshly seeded genesis-only engine; the stored difficulty, if
// any, is informational only since the engine always recomputes its
// mining difficulty from the replayed blocks' retarget history.
func Rebuild(params *chaincfg.Params, store Store) (*blockchain.Engine, error) {
	blocks, err := store.Blocks()
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return blockchain.NewEngine(params), nil
	}
	return blockchain.Rebuild(params, blocks)
}
