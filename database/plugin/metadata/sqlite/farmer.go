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

package sqlite

import (
	"errors"

	"github.com/blinklabs-io/certstore/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetFarmer upserts a farmer index row keyed by record id
func (d *MetadataStoreSqlite) SetFarmer(
	farmer *models.Farmer,
	txn *gorm.DB,
) error {
	result := d.resolveDB(txn).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"first_name", "last_name"},
		),
	}).Create(farmer)
	return result.Error
}

// GetFarmer returns the farmer index row for the given record id, or nil
// when no row exists
func (d *MetadataStoreSqlite) GetFarmer(
	recordID string,
	txn *gorm.DB,
) (*models.Farmer, error) {
	var farmer models.Farmer
	result := d.resolveDB(txn).
		Where("record_id = ?", recordID).
		First(&farmer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &farmer, nil
}

// DeleteFarmer removes the farmer index row for the given record id
func (d *MetadataStoreSqlite) DeleteFarmer(
	recordID string,
	txn *gorm.DB,
) error {
	result := d.resolveDB(txn).
		Where("record_id = ?", recordID).
		Delete(&models.Farmer{})
	return result.Error
}

// GetFarmers returns the farmer index rows matching the filter, ordered
// by record id for deterministic results
func (d *MetadataStoreSqlite) GetFarmers(
	filter models.FarmerFilter,
	txn *gorm.DB,
) ([]models.Farmer, error) {
	farmers := []models.Farmer{}
	query := d.resolveDB(txn)
	if filter.RecordID != "" {
		query = query.Where("record_id = ?", filter.RecordID)
	}
	result := query.Order("record_id").Find(&farmers)
	if result.Error != nil {
		return nil, result.Error
	}
	return farmers, nil
}
