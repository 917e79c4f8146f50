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
	"fmt"

	"github.com/blinklabs-io/certstore/record"
)

// DefaultSeedCertificates returns the sample records used to initialize a
// fresh store for demos and tests
func DefaultSeedCertificates() []record.Certificate {
	return []record.Certificate{
		{
			ID:             "1",
			StartDate:      "03-10-2021",
			EndDate:        "03-30-2021",
			CertNr:         "certNr",
			AcquirerID:     "4736",
			RegistrationNr: "registrationNr",
			CertificateURL: "www.test.nl",
			State:          record.StateIssued,
		},
		{
			ID:             "2",
			StartDate:      "03-10-2021",
			EndDate:        "03-22-2021",
			CertNr:         "certNr2",
			AcquirerID:     "1231",
			RegistrationNr: "registrationNr2",
			CertificateURL: "www.template.nl",
			State:          record.StateIssued,
		},
	}
}

// Seed loads the provided certificate records directly into the store,
// bypassing access control. Intended for ledger initialization only.
func (s *Store) Seed(certs []record.Certificate) error {
	for _, cert := range certs {
		if err := record.CheckState(cert.State); err != nil {
			return fmt.Errorf("certificate %s: %w", cert.ID, err)
		}
		if err := s.db.SetCertificate(&cert, nil); err != nil {
			return fmt.Errorf("certificate %s: %w", cert.ID, err)
		}
		s.config.logger.Info(
			"certificate initialized",
			"component", "certstore",
			"id", cert.ID,
		)
	}
	return nil
}
