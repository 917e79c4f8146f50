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

package record_test

import (
	"testing"

	"github.com/blinklabs-io/certstore/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateRoundTrip(t *testing.T) {
	cert := record.Certificate{
		ID:             "c1",
		StartDate:      "03-10-2021",
		EndDate:        "03-30-2021",
		CertNr:         "certNr",
		AcquirerID:     "4736",
		AcquirerName:   "Test Farmer",
		Address:        "1 Farm Road",
		RegistrationNr: "registrationNr",
		CertificateURL: "www.test.nl",
		State:          record.StateIssued,
	}
	data, err := record.EncodeCertificate(&cert)
	require.NoError(t, err)
	decoded, err := record.DecodeCertificate(data)
	require.NoError(t, err)
	assert.Equal(t, cert, *decoded)
}

func TestFarmerRoundTrip(t *testing.T) {
	farmer := record.Farmer{
		ID:        "farmer42",
		Address:   "2 Farm Road",
		FirstName: "John",
		LastName:  "Deere",
	}
	data, err := record.EncodeFarmer(&farmer)
	require.NoError(t, err)
	decoded, err := record.DecodeFarmer(data)
	require.NoError(t, err)
	assert.Equal(t, farmer, *decoded)
}

func TestDecodeCertificateEntry(t *testing.T) {
	cert := record.Certificate{
		ID:    "c1",
		State: record.StateIssued,
	}
	data, err := record.EncodeCertificate(&cert)
	require.NoError(t, err)
	entry := record.DecodeCertificateEntry("cert_c1", data)
	assert.Equal(t, "cert_c1", entry.Key)
	assert.Equal(t, cert, entry.Record)
}

func TestDecodeCertificateEntryCorrupt(t *testing.T) {
	// A corrupt value surfaces as the raw string rather than an error
	entry := record.DecodeCertificateEntry("cert_c1", []byte("not json"))
	assert.Equal(t, "cert_c1", entry.Key)
	assert.Equal(t, "not json", entry.Record)
}

func TestDecodeFarmerEntryCorrupt(t *testing.T) {
	entry := record.DecodeFarmerEntry("farmer_f1", []byte("{truncated"))
	assert.Equal(t, "farmer_f1", entry.Key)
	assert.Equal(t, "{truncated", entry.Record)
}
