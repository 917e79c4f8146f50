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
	"errors"
	"fmt"
	"time"

	"github.com/blinklabs-io/certstore/database/models"
	"github.com/blinklabs-io/certstore/database/types"
	"github.com/blinklabs-io/certstore/record"
)

// SetFarmer stores the encoded farmer in the blob store and upserts the
// matching index row in the metadata store
func (d *Database) SetFarmer(
	farmer *record.Farmer,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.SetFarmer(farmer, txn)
		})
	}
	if farmer == nil {
		return errors.New("nil farmer")
	}
	blob, err := record.EncodeFarmer(farmer)
	if err != nil {
		return fmt.Errorf("encode farmer: %w", err)
	}
	key := types.FarmerBlobKey(farmer.ID)
	if err := d.Blob().Set(txn.Blob(), key, blob); err != nil {
		return err
	}
	tmpFarmer := &models.Farmer{
		RecordID:  farmer.ID,
		FirstName: farmer.FirstName,
		LastName:  farmer.LastName,
	}
	if err := d.Metadata().SetFarmer(tmpFarmer, txn.Metadata()); err != nil {
		return err
	}
	return d.updateCommitTimestamp(txn, time.Now().UnixMilli())
}

// GetFarmer returns the farmer with the given record id, or nil when no
// such record exists
func (d *Database) GetFarmer(
	recordID string,
	txn *Txn,
) (*record.Farmer, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	blob, err := d.Blob().Get(txn.Blob(), types.FarmerBlobKey(recordID))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	farmer, err := record.DecodeFarmer(blob)
	if err != nil {
		return nil, fmt.Errorf("decode farmer %s: %w", recordID, err)
	}
	return farmer, nil
}

// FarmerExists returns whether a farmer with the given record id is
// present in the blob store
func (d *Database) FarmerExists(
	recordID string,
	txn *Txn,
) (bool, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	_, err := d.Blob().Get(txn.Blob(), types.FarmerBlobKey(recordID))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteFarmer removes the farmer blob and its index row
func (d *Database) DeleteFarmer(
	recordID string,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.DeleteFarmer(recordID, txn)
		})
	}
	if err := d.Blob().Delete(txn.Blob(), types.FarmerBlobKey(recordID)); err != nil {
		return err
	}
	if err := d.Metadata().DeleteFarmer(recordID, txn.Metadata()); err != nil {
		return err
	}
	return d.updateCommitTimestamp(txn, time.Now().UnixMilli())
}

// GetFarmers returns the farmers matching the metadata filter as
// key/record pairs ordered by record id. Entries whose value does not
// decode as a farmer are returned with the raw value instead of aborting
// the query
func (d *Database) GetFarmers(
	filter models.FarmerFilter,
	txn *Txn,
) ([]record.Entry, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	rows, err := d.Metadata().GetFarmers(filter, txn.Metadata())
	if err != nil {
		return nil, err
	}
	ret := make([]record.Entry, 0, len(rows))
	for _, row := range rows {
		key := types.FarmerBlobKey(row.RecordID)
		blob, err := d.Blob().Get(txn.Blob(), key)
		if err != nil {
			return nil, fmt.Errorf(
				"fetch farmer %s: %w",
				row.RecordID,
				err,
			)
		}
		ret = append(ret, record.DecodeFarmerEntry(string(key), blob))
	}
	return ret, nil
}

// AllFarmerEntries returns every entry in the farmer keyspace in key
// order. Entries whose value does not decode as a farmer are returned
// with the raw value instead of being dropped
func (d *Database) AllFarmerEntries(
	txn *Txn,
) ([]record.Entry, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	iter := d.Blob().NewIterator(
		txn.Blob(),
		types.BlobIteratorOptions{
			Prefix: []byte(types.FarmerBlobKeyPrefix),
		},
	)
	defer iter.Close()
	if err := iter.Err(); err != nil {
		return nil, err
	}
	ret := []record.Entry{}
	for iter.Rewind(); iter.Valid(); iter.Next() {
		item := iter.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		ret = append(
			ret,
			record.DecodeFarmerEntry(string(item.Key()), val),
		)
	}
	return ret, nil
}
