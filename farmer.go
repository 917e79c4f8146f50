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

package certstore

import (
	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/database"
	"github.com/blinklabs-io/certstore/identity"
	"github.com/blinklabs-io/certstore/record"
)

// CreateFarmer writes a farmer record. An existing record with the same
// id is overwritten.
func (s *Store) CreateFarmer(
	caller identity.Identity,
	farmer record.Farmer,
) (err error) {
	defer func() { s.metrics.observe(access.OperationCreateFarmer, err) }()
	if err = s.authorize(access.OperationCreateFarmer, caller, ""); err != nil {
		return err
	}
	return s.db.SetFarmer(&farmer, nil)
}

// UpdateFarmer overwrites an existing farmer record in full
func (s *Store) UpdateFarmer(
	caller identity.Identity,
	farmer record.Farmer,
) (err error) {
	defer func() { s.metrics.observe(access.OperationUpdateFarmer, err) }()
	if err = s.authorize(access.OperationUpdateFarmer, caller, ""); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		exists, err := s.db.FarmerExists(farmer.ID, txn)
		if err != nil {
			return err
		}
		if !exists {
			return newFarmerNotFoundError(farmer.ID)
		}
		return s.db.SetFarmer(&farmer, txn)
	})
}

// DeleteFarmer removes an existing farmer record
func (s *Store) DeleteFarmer(
	caller identity.Identity,
	id string,
) (err error) {
	defer func() { s.metrics.observe(access.OperationDeleteFarmer, err) }()
	if err = s.authorize(access.OperationDeleteFarmer, caller, ""); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		exists, err := s.db.FarmerExists(id, txn)
		if err != nil {
			return err
		}
		if !exists {
			return newFarmerNotFoundError(id)
		}
		return s.db.DeleteFarmer(id, txn)
	})
}

// FarmerExists returns whether a farmer with the given id exists. This
// performs no access control check.
func (s *Store) FarmerExists(id string) (bool, error) {
	return s.db.FarmerExists(id, nil)
}

// GetFarmerByID returns the farmer with the given id. Non-privileged
// callers may only fetch their own record.
func (s *Store) GetFarmerByID(
	caller identity.Identity,
	id string,
) (ret *record.Farmer, err error) {
	defer func() { s.metrics.observe(access.OperationGetFarmerByID, err) }()
	if err = s.authorize(access.OperationGetFarmerByID, caller, id); err != nil {
		return nil, err
	}
	farmer, err := s.db.GetFarmer(id, nil)
	if err != nil {
		return nil, err
	}
	if farmer == nil {
		return nil, newFarmerNotFoundError(id)
	}
	return farmer, nil
}

// ListFarmers returns every entry in the farmer keyspace as {key, record}
// pairs in key order. Corrupt entries are surfaced with their raw stored
// value rather than dropped.
func (s *Store) ListFarmers(
	caller identity.Identity,
) (ret []record.Entry, err error) {
	defer func() { s.metrics.observe(access.OperationListFarmers, err) }()
	if err = s.authorize(access.OperationListFarmers, caller, ""); err != nil {
		return nil, err
	}
	return s.db.AllFarmerEntries(nil)
}
