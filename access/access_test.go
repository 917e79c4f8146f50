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

package access_test

import (
	"testing"

	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/identity"
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

func TestPolicyMatrix(t *testing.T) {
	policy := access.DefaultPolicy()
	testDefs := []struct {
		name    string
		op      access.Operation
		caller  identity.Identity
		scope   string
		allowed bool
	}{
		{"create issuer", access.OperationCreateCertificate, issuerCaller, "", true},
		{"create verifier", access.OperationCreateCertificate, verifierCaller, "", false},
		{"create farmer", access.OperationCreateCertificate, farmerCaller, "", false},
		{"update issuer", access.OperationUpdateCertificate, issuerCaller, "", true},
		{"update verifier", access.OperationUpdateCertificate, verifierCaller, "", false},
		{"delete issuer", access.OperationDeleteCertificate, issuerCaller, "", true},
		{"delete farmer", access.OperationDeleteCertificate, farmerCaller, "", false},
		{"update state issuer", access.OperationUpdateCertificateState, issuerCaller, "", true},
		{"update state verifier", access.OperationUpdateCertificateState, verifierCaller, "", false},
		{"list issuer", access.OperationListCertificates, issuerCaller, "", true},
		{"list verifier", access.OperationListCertificates, verifierCaller, "", true},
		{"list farmer", access.OperationListCertificates, farmerCaller, "", false},
		{"query state issuer", access.OperationQueryCertificatesByState, issuerCaller, "", true},
		{"query state verifier", access.OperationQueryCertificatesByState, verifierCaller, "", false},
		{"query registration issuer", access.OperationQueryCertificatesByRegistrationNr, issuerCaller, "", true},
		{"query registration verifier", access.OperationQueryCertificatesByRegistrationNr, verifierCaller, "", false},
		{"check issued issuer", access.OperationCheckAcquirerIssued, issuerCaller, "farmer42", true},
		{"check issued verifier", access.OperationCheckAcquirerIssued, verifierCaller, "farmer42", true},
		{"check issued self", access.OperationCheckAcquirerIssued, farmerCaller, "farmer42", true},
		{"check issued other", access.OperationCheckAcquirerIssued, farmerCaller, "otherFarmer", false},
		{"query acquirer issuer", access.OperationQueryCertificatesByAcquirer, issuerCaller, "farmer42", true},
		{"query acquirer verifier", access.OperationQueryCertificatesByAcquirer, verifierCaller, "farmer42", false},
		{"query acquirer self", access.OperationQueryCertificatesByAcquirer, farmerCaller, "farmer42", true},
		{"query acquirer other", access.OperationQueryCertificatesByAcquirer, farmerCaller, "otherFarmer", false},
		{"sweep issuer", access.OperationSweepExpiredCertificates, issuerCaller, "", true},
		{"sweep verifier", access.OperationSweepExpiredCertificates, verifierCaller, "", false},
		{"create farmer record issuer", access.OperationCreateFarmer, issuerCaller, "", true},
		{"create farmer record verifier", access.OperationCreateFarmer, verifierCaller, "", false},
		{"update farmer record issuer", access.OperationUpdateFarmer, issuerCaller, "", true},
		{"delete farmer record issuer", access.OperationDeleteFarmer, issuerCaller, "", true},
		{"delete farmer record self", access.OperationDeleteFarmer, farmerCaller, "farmer42", false},
		{"list farmers issuer", access.OperationListFarmers, issuerCaller, "", true},
		{"list farmers verifier", access.OperationListFarmers, verifierCaller, "", true},
		{"list farmers farmer", access.OperationListFarmers, farmerCaller, "", false},
		{"get farmer issuer", access.OperationGetFarmerByID, issuerCaller, "farmer42", true},
		{"get farmer verifier", access.OperationGetFarmerByID, verifierCaller, "farmer42", true},
		{"get farmer self", access.OperationGetFarmerByID, farmerCaller, "farmer42", true},
		{"get farmer other", access.OperationGetFarmerByID, farmerCaller, "otherFarmer", false},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			allowed, err := policy.Authorized(
				testDef.op,
				testDef.caller,
				testDef.scope,
			)
			require.NoError(t, err)
			assert.Equal(t, testDef.allowed, allowed)
		})
	}
}

func TestPolicyUnknownOperation(t *testing.T) {
	policy := access.DefaultPolicy()
	_, err := policy.Authorized(
		access.OperationNone,
		issuerCaller,
		"",
	)
	assert.ErrorIs(t, err, access.ErrUnimplementedOperation)
}

func TestPolicySelfWithoutWalletID(t *testing.T) {
	policy := access.DefaultPolicy()
	// An enrollment string without the CN=<id>:: pattern never matches
	// the self-service branch
	caller := identity.Identity{
		MSPID:        "Org1MSP",
		EnrollmentID: "farmer42",
	}
	allowed, err := policy.Authorized(
		access.OperationQueryCertificatesByAcquirer,
		caller,
		"farmer42",
	)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestPolicyCustomOrgs(t *testing.T) {
	policy := access.Policy{
		IssuerOrg:   "CertBodyMSP",
		VerifierOrg: "ProducerMSP",
	}
	allowed, err := policy.Authorized(
		access.OperationCreateCertificate,
		identity.Identity{MSPID: "CertBodyMSP"},
		"",
	)
	require.NoError(t, err)
	assert.True(t, allowed)
	// The default issuer org carries no privileges under a custom policy
	allowed, err = policy.Authorized(
		access.OperationCreateCertificate,
		issuerCaller,
		"",
	)
	require.NoError(t, err)
	assert.False(t, allowed)
}
