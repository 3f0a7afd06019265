// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blinklabs-io/resi/database/plugin/blob/badger"
	"github.com/blinklabs-io/resi/database/types"
	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ethereum/go-ethereum/common"
)

// EventRecord is a committed component event as stored in the journal
type EventRecord struct {
	TxID      string          `json:"txId"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Seq       uint64          `json:"seq"`
	Timestamp int64           `json:"timestamp"`
	Contract  common.Address  `json:"contract"`
}

// LastEventSeq returns the sequence number of the last journaled event, or 0
// when the journal is empty
func (d *Database) LastEventSeq(txn *Txn) (uint64, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	val, err := badger.Get(txn.Blob(), []byte(types.EventSeqBlobKey))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(val) != 8 {
		return 0, fmt.Errorf("invalid event sequence length: %d", len(val))
	}
	return binary.BigEndian.Uint64(val), nil
}

// AppendEvents assigns sequence numbers to the records and writes them to the
// journal as part of the transaction
func (d *Database) AppendEvents(records []EventRecord, txn *Txn) error {
	if txn == nil || txn.Blob() == nil {
		return types.ErrNilTxn
	}
	if len(records) == 0 {
		return nil
	}
	seq, err := d.LastEventSeq(txn)
	if err != nil {
		return err
	}
	for i := range records {
		seq++
		records[i].Seq = seq
		data, err := json.Marshal(records[i])
		if err != nil {
			return fmt.Errorf("encode event %d: %w", seq, err)
		}
		if err := txn.Blob().Set(types.EventBlobKey(seq), data); err != nil {
			return err
		}
	}
	return txn.Blob().Set(
		[]byte(types.EventSeqBlobKey),
		types.Uint64ToBytes(seq),
	)
}

// GetEvents returns up to limit journaled events starting at sequence from.
// A limit of 0 returns every remaining event
func (d *Database) GetEvents(
	from uint64,
	limit int,
	txn *Txn,
) ([]EventRecord, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Release()
	}
	if txn.Blob() == nil {
		return nil, types.ErrNilTxn
	}
	prefix := []byte(types.EventBlobKeyPrefix)
	it := txn.Blob().NewIterator(badgerdb.IteratorOptions{
		Prefix:         prefix,
		PrefetchValues: true,
		PrefetchSize:   100,
	})
	defer it.Close()
	var ret []EventRecord
	for it.Seek(types.EventBlobKey(from)); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		// The sequence counter shares the key prefix
		if _, ok := types.EventSeqFromKey(item.Key()); !ok {
			continue
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var record EventRecord
		if err := json.Unmarshal(val, &record); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		ret = append(ret, record)
		if limit > 0 && len(ret) >= limit {
			break
		}
	}
	return ret, nil
}
