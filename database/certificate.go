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

// SetCertificate stores the encoded certificate in the blob store and
// upserts the matching index row in the metadata store
func (d *Database) SetCertificate(
	cert *record.Certificate,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.SetCertificate(cert, txn)
		})
	}
	if cert == nil {
		return errors.New("nil certificate")
	}
	blob, err := record.EncodeCertificate(cert)
	if err != nil {
		return fmt.Errorf("encode certificate: %w", err)
	}
	key := types.CertificateBlobKey(cert.ID)
	if err := d.Blob().Set(txn.Blob(), key, blob); err != nil {
		return err
	}
	tmpCert := &models.Certificate{
		RecordID:       cert.ID,
		AcquirerID:     cert.AcquirerID,
		State:          string(cert.State),
		RegistrationNr: cert.RegistrationNr,
		EndDate:        cert.EndDate,
	}
	if err := d.Metadata().SetCertificate(tmpCert, txn.Metadata()); err != nil {
		return err
	}
	return d.updateCommitTimestamp(txn, time.Now().UnixMilli())
}

// GetCertificate returns the certificate with the given record id, or nil
// when no such record exists
func (d *Database) GetCertificate(
	recordID string,
	txn *Txn,
) (*record.Certificate, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	blob, err := d.Blob().Get(txn.Blob(), types.CertificateBlobKey(recordID))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	cert, err := record.DecodeCertificate(blob)
	if err != nil {
		return nil, fmt.Errorf(
			"decode certificate %s: %w",
			recordID,
			err,
		)
	}
	return cert, nil
}

// CertificateExists returns whether a certificate with the given record id
// is present in the blob store
func (d *Database) CertificateExists(
	recordID string,
	txn *Txn,
) (bool, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	_, err := d.Blob().Get(txn.Blob(), types.CertificateBlobKey(recordID))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteCertificate removes the certificate blob and its index row
func (d *Database) DeleteCertificate(
	recordID string,
	txn *Txn,
) error {
	if txn == nil {
		txn = d.Transaction(true)
		return txn.Do(func(txn *Txn) error {
			return d.DeleteCertificate(recordID, txn)
		})
	}
	if err := d.Blob().Delete(txn.Blob(), types.CertificateBlobKey(recordID)); err != nil {
		return err
	}
	if err := d.Metadata().DeleteCertificate(recordID, txn.Metadata()); err != nil {
		return err
	}
	return d.updateCommitTimestamp(txn, time.Now().UnixMilli())
}

// GetCertificates returns the certificates matching the metadata filter
// as key/record pairs ordered by record id. The index rows select the
// matching record ids and the records themselves come from the blob
// store. Entries whose value does not decode as a certificate are
// returned with the raw value instead of aborting the query
func (d *Database) GetCertificates(
	filter models.CertificateFilter,
	txn *Txn,
) ([]record.Entry, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	rows, err := d.Metadata().GetCertificates(filter, txn.Metadata())
	if err != nil {
		return nil, err
	}
	ret := make([]record.Entry, 0, len(rows))
	for _, row := range rows {
		key := types.CertificateBlobKey(row.RecordID)
		blob, err := d.Blob().Get(txn.Blob(), key)
		if err != nil {
			return nil, fmt.Errorf(
				"fetch certificate %s: %w",
				row.RecordID,
				err,
			)
		}
		ret = append(ret, record.DecodeCertificateEntry(string(key), blob))
	}
	return ret, nil
}

// AllCertificateEntries returns every entry in the certificate keyspace in
// key order. Entries whose value does not decode as a certificate are
// returned with the raw value instead of being dropped
func (d *Database) AllCertificateEntries(
	txn *Txn,
) ([]record.Entry, error) {
	if txn == nil {
		txn = d.Transaction(false)
		defer txn.Commit() //nolint:errcheck
	}
	iter := d.Blob().NewIterator(
		txn.Blob(),
		types.BlobIteratorOptions{
			Prefix: []byte(types.CertificateBlobKeyPrefix),
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
			record.DecodeCertificateEntry(string(item.Key()), val),
		)
	}
	return ret, nil
}
