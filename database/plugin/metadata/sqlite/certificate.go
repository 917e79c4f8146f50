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

// SetCertificate upserts a certificate index row keyed by record id
func (d *MetadataStoreSqlite) SetCertificate(
	cert *models.Certificate,
	txn *gorm.DB,
) error {
	result := d.resolveDB(txn).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "record_id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"acquirer_id", "state", "registration_nr", "end_date"},
		),
	}).Create(cert)
	return result.Error
}

// GetCertificate returns the certificate index row for the given record
// id, or nil when no row exists
func (d *MetadataStoreSqlite) GetCertificate(
	recordID string,
	txn *gorm.DB,
) (*models.Certificate, error) {
	var cert models.Certificate
	result := d.resolveDB(txn).
		Where("record_id = ?", recordID).
		First(&cert)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &cert, nil
}

// DeleteCertificate removes the certificate index row for the given record id
func (d *MetadataStoreSqlite) DeleteCertificate(
	recordID string,
	txn *gorm.DB,
) error {
	result := d.resolveDB(txn).
		Where("record_id = ?", recordID).
		Delete(&models.Certificate{})
	return result.Error
}

// GetCertificates returns the certificate index rows matching the filter,
// ordered by record id for deterministic results
func (d *MetadataStoreSqlite) GetCertificates(
	filter models.CertificateFilter,
	txn *gorm.DB,
) ([]models.Certificate, error) {
	certs := []models.Certificate{}
	query := d.resolveDB(txn)
	if filter.AcquirerID != "" {
		query = query.Where("acquirer_id = ?", filter.AcquirerID)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.RegistrationNr != "" {
		query = query.Where("registration_nr = ?", filter.RegistrationNr)
	}
	result := query.Order("record_id").Find(&certs)
	if result.Error != nil {
		return nil, result.Error
	}
	return certs, nil
}
