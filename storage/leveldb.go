// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/flokiorg/flokicoin-core/chain"
)

var (
	blockKeyPrefix = []byte("b")
	difficultyKey  = []byte("d")
)

func blockKey(height uint64) []byte {
	key := make([]byte, len(blockKeyPrefix)+8)
	copy(key, blockKeyPrefix)
	binary.BigEndian.PutUint64(key[len(blockKeyPrefix):], height)
	return key
}

// LevelDBStore persists the snapshot contract to a leveldb table on disk:
// one record per connected block, keyed by big-endian height so iteration
// order is ascending height, plus a single record for the current
// difficulty.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if necessary) a leveldb database at path,
// recovering from a detected corruption the same way the rest of the
// ecosystem does.
func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if _, corrupted := err.(*errors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("open leveldb store at %s: %w", path, err)
	}
	return &LevelDBStore{db: db}, nil
}

// AppendBlock implements Store.
func (s *LevelDBStore) AppendBlock(block *chain.Block) error {
	data, err := block.Serialize()
	if err != nil {
		return err
	}
	return s.db.Put(blockKey(block.Index), data, nil)
}

// Blocks implements Store.
func (s *LevelDBStore) Blocks() ([]*chain.Block, error) {
	iter := s.db.NewIterator(util.BytesPrefix(blockKeyPrefix), nil)
	defer iter.Release()

	var blocks []*chain.Block
	for iter.Next() {
		block, err := chain.DeserializeBlock(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("decode stored block: %w", err)
		}
		blocks = append(blocks, block)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return blocks, nil
}

// SetDifficulty implements Store.
func (s *LevelDBStore) SetDifficulty(difficulty uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], difficulty)
	return s.db.Put(difficultyKey, buf[:], nil)
}

// Difficulty implements Store.
func (s *LevelDBStore) Difficulty() (uint32, bool, error) {
	data, err := s.db.Get(difficultyKey, nil)
	if err == leveldb.ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return binary.BigEndian.Uint32(data), true, nil
}

// Close implements Store.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
