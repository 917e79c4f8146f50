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
	"errors"
	"fmt"

	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/database"
	"github.com/blinklabs-io/certstore/database/models"
	"github.com/blinklabs-io/certstore/database/types"
	"github.com/blinklabs-io/certstore/identity"
	"github.com/blinklabs-io/certstore/record"
)

// CreateCertificate writes a certificate record. An existing record with
// the same id is overwritten; use CertificateExists first when create-only
// semantics are needed.
func (s *Store) CreateCertificate(
	caller identity.Identity,
	cert record.Certificate,
) (err error) {
	defer func() { s.metrics.observe(access.OperationCreateCertificate, err) }()
	if err = s.authorize(access.OperationCreateCertificate, caller, ""); err != nil {
		return err
	}
	if err = record.CheckState(cert.State); err != nil {
		return err
	}
	return s.db.SetCertificate(&cert, nil)
}

// ReadCertificate returns the certificate with the given id. This performs
// no access control check.
func (s *Store) ReadCertificate(
	id string,
) (*record.Certificate, error) {
	cert, err := s.db.GetCertificate(id, nil)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, newCertificateNotFoundError(id)
	}
	return cert, nil
}

// UpdateCertificate overwrites an existing certificate record in full
func (s *Store) UpdateCertificate(
	caller identity.Identity,
	cert record.Certificate,
) (err error) {
	defer func() { s.metrics.observe(access.OperationUpdateCertificate, err) }()
	if err = s.authorize(access.OperationUpdateCertificate, caller, ""); err != nil {
		return err
	}
	if err = record.CheckState(cert.State); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		exists, err := s.db.CertificateExists(cert.ID, txn)
		if err != nil {
			return err
		}
		if !exists {
			return newCertificateNotFoundError(cert.ID)
		}
		return s.db.SetCertificate(&cert, txn)
	})
}

// DeleteCertificate removes an existing certificate record
func (s *Store) DeleteCertificate(
	caller identity.Identity,
	id string,
) (err error) {
	defer func() { s.metrics.observe(access.OperationDeleteCertificate, err) }()
	if err = s.authorize(access.OperationDeleteCertificate, caller, ""); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		exists, err := s.db.CertificateExists(id, txn)
		if err != nil {
			return err
		}
		if !exists {
			return newCertificateNotFoundError(id)
		}
		return s.db.DeleteCertificate(id, txn)
	})
}

// CertificateExists returns whether a certificate with the given id
// exists. This performs no access control check.
func (s *Store) CertificateExists(id string) (bool, error) {
	return s.db.CertificateExists(id, nil)
}

// UpdateCertificateState changes only the state field of an existing
// certificate record
func (s *Store) UpdateCertificateState(
	caller identity.Identity,
	id string,
	state record.State,
) (err error) {
	defer func() {
		s.metrics.observe(access.OperationUpdateCertificateState, err)
	}()
	if err = s.authorize(access.OperationUpdateCertificateState, caller, ""); err != nil {
		return err
	}
	if err = record.CheckState(state); err != nil {
		return err
	}
	txn := s.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		cert, err := s.db.GetCertificate(id, txn)
		if err != nil {
			return err
		}
		if cert == nil {
			return newCertificateNotFoundError(id)
		}
		cert.State = state
		return s.db.SetCertificate(cert, txn)
	})
}

// ListCertificates returns every entry in the certificate keyspace as
// {key, record} pairs in key order. Corrupt entries are surfaced with
// their raw stored value rather than dropped.
func (s *Store) ListCertificates(
	caller identity.Identity,
) (ret []record.Entry, err error) {
	defer func() { s.metrics.observe(access.OperationListCertificates, err) }()
	if err = s.authorize(access.OperationListCertificates, caller, ""); err != nil {
		return nil, err
	}
	return s.db.AllCertificateEntries(nil)
}

// QueryCertificatesByAcquirer returns the certificates owned by the given
// acquirer as {key, record} pairs. Non-privileged callers may only query
// their own records. Corrupt entries are surfaced with their raw stored
// value rather than dropped.
func (s *Store) QueryCertificatesByAcquirer(
	caller identity.Identity,
	acquirerID string,
) (ret []record.Entry, err error) {
	defer func() {
		s.metrics.observe(access.OperationQueryCertificatesByAcquirer, err)
	}()
	if err = s.authorize(
		access.OperationQueryCertificatesByAcquirer,
		caller,
		acquirerID,
	); err != nil {
		return nil, err
	}
	return s.db.GetCertificates(
		models.CertificateFilter{AcquirerID: acquirerID},
		nil,
	)
}

// QueryCertificatesByState returns the certificates in the given state
// as {key, record} pairs
func (s *Store) QueryCertificatesByState(
	caller identity.Identity,
	state record.State,
) (ret []record.Entry, err error) {
	defer func() {
		s.metrics.observe(access.OperationQueryCertificatesByState, err)
	}()
	if err = s.authorize(
		access.OperationQueryCertificatesByState,
		caller,
		"",
	); err != nil {
		return nil, err
	}
	return s.db.GetCertificates(
		models.CertificateFilter{State: string(state)},
		nil,
	)
}

// QueryCertificatesByRegistrationNr returns the certificates issued by the
// certification body with the given registration number as {key, record}
// pairs
func (s *Store) QueryCertificatesByRegistrationNr(
	caller identity.Identity,
	registrationNr string,
) (ret []record.Entry, err error) {
	defer func() {
		s.metrics.observe(access.OperationQueryCertificatesByRegistrationNr, err)
	}()
	if err = s.authorize(
		access.OperationQueryCertificatesByRegistrationNr,
		caller,
		"",
	); err != nil {
		return nil, err
	}
	return s.db.GetCertificates(
		models.CertificateFilter{RegistrationNr: registrationNr},
		nil,
	)
}

// CheckAcquirerHasIssued returns whether the given acquirer currently
// holds any certificate in the ISSUED state
func (s *Store) CheckAcquirerHasIssued(
	caller identity.Identity,
	acquirerID string,
) (ret bool, err error) {
	defer func() { s.metrics.observe(access.OperationCheckAcquirerIssued, err) }()
	if err = s.authorize(
		access.OperationCheckAcquirerIssued,
		caller,
		acquirerID,
	); err != nil {
		return false, err
	}
	entries, err := s.db.GetCertificates(
		models.CertificateFilter{
			AcquirerID: acquirerID,
			State:      string(record.StateIssued),
		},
		nil,
	)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// SweepExpiredCertificates transitions every ISSUED certificate whose end
// date is strictly before now to EXPIRED. Records whose end date equals
// the current date remain ISSUED. Each transition is its own atomic unit:
// a failure partway leaves earlier transitions in place and is reported
// per record id.
func (s *Store) SweepExpiredCertificates(
	caller identity.Identity,
) (err error) {
	defer func() {
		s.metrics.observe(access.OperationSweepExpiredCertificates, err)
	}()
	if err = s.authorize(
		access.OperationSweepExpiredCertificates,
		caller,
		"",
	); err != nil {
		return err
	}
	entries, err := s.db.GetCertificates(
		models.CertificateFilter{State: string(record.StateIssued)},
		nil,
	)
	if err != nil {
		return err
	}
	now := s.now()
	var sweepErrs []error
	for _, entry := range entries {
		cert, ok := entry.Record.(record.Certificate)
		if !ok {
			sweepErrs = append(
				sweepErrs,
				fmt.Errorf(
					"certificate %s: malformed stored record",
					types.RecordIDFromBlobKey(
						types.CertificateBlobKeyPrefix,
						[]byte(entry.Key),
					),
				),
			)
			continue
		}
		endDate, err := record.ParseDate(cert.EndDate)
		if err != nil {
			sweepErrs = append(
				sweepErrs,
				fmt.Errorf("certificate %s: %w", cert.ID, err),
			)
			continue
		}
		if !endDate.Before(now) {
			continue
		}
		if err := s.UpdateCertificateState(
			caller,
			cert.ID,
			record.StateExpired,
		); err != nil {
			sweepErrs = append(
				sweepErrs,
				fmt.Errorf("certificate %s: %w", cert.ID, err),
			)
			continue
		}
		s.config.logger.Info(
			"certificate expired",
			"component", "certstore",
			"id", cert.ID,
			"end_date", cert.EndDate,
		)
	}
	return errors.Join(sweepErrs...)
}
