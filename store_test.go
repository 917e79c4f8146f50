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

package certstore_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/certstore"
	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/identity"
	"github.com/blinklabs-io/certstore/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	issuerCaller = identity.Identity{
		MSPID:        access.DefaultIssuerOrg,
		EnrollmentID: "x509::/OU=admin/CN=certBodyAdmin::/O=Hyperledger",
	}
	verifierCaller = identity.Identity{
		MSPID:        access.DefaultVerifierOrg,
		EnrollmentID: "x509::/OU=client/CN=producer1::/O=Hyperledger",
	}
	farmerCaller = identity.Identity{
		MSPID:        "Org1MSP",
		EnrollmentID: "x509::/OU=client/CN=farmer42::/O=Hyperledger",
	}
)

func newTestStore(
	t *testing.T,
	opts ...certstore.ConfigOptionFunc,
) *certstore.Store {
	t.Helper()
	store, err := certstore.New(certstore.NewConfig(opts...))
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close() //nolint:errcheck
	})
	return store
}

func testCertificate(id string) record.Certificate {
	return record.Certificate{
		ID:             id,
		StartDate:      "03-10-2021",
		EndDate:        "03-30-2021",
		CertNr:         "certNr",
		AcquirerID:     "farmer42",
		RegistrationNr: "registrationNr",
		CertificateURL: "www.test.nl",
		State:          record.StateIssued,
	}
}

func TestCertificateLifecycle(t *testing.T) {
	store := newTestStore(t)

	// Create as the issuing body
	cert := testCertificate("lc-1")
	require.NoError(t, store.CreateCertificate(issuerCaller, cert))

	// Read back the stored fields
	fetched, err := store.ReadCertificate(cert.ID)
	require.NoError(t, err)
	assert.Equal(t, cert, *fetched)

	// The acquirer holds an issued certificate
	issued, err := store.CheckAcquirerHasIssued(farmerCaller, "farmer42")
	require.NoError(t, err)
	assert.True(t, issued)

	// Revoke it
	require.NoError(
		t,
		store.UpdateCertificateState(
			issuerCaller,
			cert.ID,
			record.StateRevoked,
		),
	)
	fetched, err = store.ReadCertificate(cert.ID)
	require.NoError(t, err)
	assert.Equal(t, record.StateRevoked, fetched.State)

	// No issued certificate remains for the acquirer
	issued, err = store.CheckAcquirerHasIssued(farmerCaller, "farmer42")
	require.NoError(t, err)
	assert.False(t, issued)
}

func TestCreateCertificateDenied(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("denied-1")
	err := store.CreateCertificate(verifierCaller, cert)
	assert.ErrorIs(t, err, certstore.ErrNotAuthorized)

	// Denial has no side effect
	exists, err := store.CertificateExists(cert.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateCertificateInvalidState(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("invalid-1")
	cert.State = "PENDING"
	err := store.CreateCertificate(issuerCaller, cert)
	assert.ErrorIs(t, err, record.ErrInvalidState)

	exists, err := store.CertificateExists(cert.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCreateCertificateOverwrites(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("ow-1")
	require.NoError(t, store.CreateCertificate(issuerCaller, cert))
	cert.CertNr = "certNr-updated"
	require.NoError(t, store.CreateCertificate(issuerCaller, cert))

	fetched, err := store.ReadCertificate(cert.ID)
	require.NoError(t, err)
	assert.Equal(t, "certNr-updated", fetched.CertNr)
}

func TestReadCertificateMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ReadCertificate("missing-1")
	var notFoundErr certstore.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)
	assert.Equal(
		t,
		"the certificate missing-1 does not exist",
		err.Error(),
	)
}

func TestUpdateCertificateMissing(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("missing-2")
	err := store.UpdateCertificate(issuerCaller, cert)
	var notFoundErr certstore.NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	// The failed update wrote nothing
	exists, err := store.CertificateExists(cert.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteCertificate(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("del-1")
	require.NoError(t, store.CreateCertificate(issuerCaller, cert))

	exists, err := store.CertificateExists(cert.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.DeleteCertificate(issuerCaller, cert.ID))

	exists, err = store.CertificateExists(cert.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// A second delete reports not found
	err = store.DeleteCertificate(issuerCaller, cert.ID)
	var notFoundErr certstore.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestUpdateCertificateStateMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateCertificateState(
		issuerCaller,
		"missing-3",
		record.StateRevoked,
	)
	var notFoundErr certstore.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestSelfServiceQuery(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("self-1")
	require.NoError(t, store.CreateCertificate(issuerCaller, cert))

	// A non-privileged caller may query its own records
	entries, err := store.QueryCertificatesByAcquirer(
		farmerCaller,
		"farmer42",
	)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cert_self-1", entries[0].Key)
	assert.Equal(t, cert, entries[0].Record)

	// The same caller querying another subject is denied
	_, err = store.QueryCertificatesByAcquirer(
		farmerCaller,
		"otherFarmer",
	)
	assert.ErrorIs(t, err, certstore.ErrNotAuthorized)
}

func TestQueryCertificatesByState(t *testing.T) {
	store := newTestStore(t)

	issued := testCertificate("state-1")
	require.NoError(t, store.CreateCertificate(issuerCaller, issued))
	revoked := testCertificate("state-2")
	revoked.State = record.StateRevoked
	require.NoError(t, store.CreateCertificate(issuerCaller, revoked))

	entries, err := store.QueryCertificatesByState(
		issuerCaller,
		record.StateRevoked,
	)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cert_state-2", entries[0].Key)
	assert.Equal(t, revoked, entries[0].Record)

	// Verifier organization is not allowed to query by state
	_, err = store.QueryCertificatesByState(
		verifierCaller,
		record.StateIssued,
	)
	assert.ErrorIs(t, err, certstore.ErrNotAuthorized)
}

func TestQueryCertificatesByRegistrationNr(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("reg-1")
	cert.RegistrationNr = "reg-nr-query"
	require.NoError(t, store.CreateCertificate(issuerCaller, cert))

	entries, err := store.QueryCertificatesByRegistrationNr(
		issuerCaller,
		"reg-nr-query",
	)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cert_reg-1", entries[0].Key)
	assert.Equal(t, cert, entries[0].Record)
}

func TestListCertificates(t *testing.T) {
	store := newTestStore(t)

	cert := testCertificate("list-1")
	require.NoError(t, store.CreateCertificate(issuerCaller, cert))

	// Open to issuer and verifier organizations
	entries, err := store.ListCertificates(verifierCaller)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cert_list-1", entries[0].Key)
	assert.Equal(t, cert, entries[0].Record)

	// Closed to everyone else
	_, err = store.ListCertificates(farmerCaller)
	assert.ErrorIs(t, err, certstore.ErrNotAuthorized)
}

func TestSweepExpiredCertificates(t *testing.T) {
	// Fix the clock between the two end dates
	now := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	store := newTestStore(
		t,
		certstore.WithNowFunc(func() time.Time { return now }),
	)

	expired := testCertificate("sweep-1")
	expired.EndDate = "01-01-2020"
	require.NoError(t, store.CreateCertificate(issuerCaller, expired))

	current := testCertificate("sweep-2")
	current.EndDate = "01-01-2999"
	require.NoError(t, store.CreateCertificate(issuerCaller, current))

	// End date equal to the current date stays issued
	boundary := testCertificate("sweep-3")
	boundary.EndDate = "06-01-2021"
	require.NoError(t, store.CreateCertificate(issuerCaller, boundary))

	require.NoError(t, store.SweepExpiredCertificates(issuerCaller))

	fetched, err := store.ReadCertificate("sweep-1")
	require.NoError(t, err)
	assert.Equal(t, record.StateExpired, fetched.State)

	fetched, err = store.ReadCertificate("sweep-2")
	require.NoError(t, err)
	assert.Equal(t, record.StateIssued, fetched.State)

	fetched, err = store.ReadCertificate("sweep-3")
	require.NoError(t, err)
	assert.Equal(t, record.StateIssued, fetched.State)

	// Sweep is restricted to the issuing body
	err = store.SweepExpiredCertificates(verifierCaller)
	assert.ErrorIs(t, err, certstore.ErrNotAuthorized)
}

func TestSeed(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Seed(certstore.DefaultSeedCertificates()))

	fetched, err := store.ReadCertificate("1")
	require.NoError(t, err)
	assert.Equal(t, "4736", fetched.AcquirerID)
	assert.Equal(t, record.StateIssued, fetched.State)

	fetched, err = store.ReadCertificate("2")
	require.NoError(t, err)
	assert.Equal(t, "1231", fetched.AcquirerID)
}

func TestCustomOrgPolicy(t *testing.T) {
	store := newTestStore(
		t,
		certstore.WithIssuerOrg("CertBodyMSP"),
		certstore.WithVerifierOrg("ProducerMSP"),
	)

	cert := testCertificate("org-1")
	// Default issuer org has no privileges under the custom policy
	err := store.CreateCertificate(issuerCaller, cert)
	assert.ErrorIs(t, err, certstore.ErrNotAuthorized)

	customIssuer := identity.Identity{MSPID: "CertBodyMSP"}
	require.NoError(t, store.CreateCertificate(customIssuer, cert))
}
