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

package access

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/certstore/identity"
)

// Operation identifies a record store operation for policy lookup
type Operation int

const (
	OperationNone Operation = iota
	OperationCreateCertificate
	OperationUpdateCertificate
	OperationDeleteCertificate
	OperationUpdateCertificateState
	OperationListCertificates
	OperationQueryCertificatesByAcquirer
	OperationQueryCertificatesByState
	OperationQueryCertificatesByRegistrationNr
	OperationCheckAcquirerIssued
	OperationSweepExpiredCertificates
	OperationCreateFarmer
	OperationUpdateFarmer
	OperationDeleteFarmer
	OperationListFarmers
	OperationGetFarmerByID
)

func (o Operation) String() string {
	switch o {
	case OperationCreateCertificate:
		return "CreateCertificate"
	case OperationUpdateCertificate:
		return "UpdateCertificate"
	case OperationDeleteCertificate:
		return "DeleteCertificate"
	case OperationUpdateCertificateState:
		return "UpdateCertificateState"
	case OperationListCertificates:
		return "ListCertificates"
	case OperationQueryCertificatesByAcquirer:
		return "QueryCertificatesByAcquirer"
	case OperationQueryCertificatesByState:
		return "QueryCertificatesByState"
	case OperationQueryCertificatesByRegistrationNr:
		return "QueryCertificatesByRegistrationNr"
	case OperationCheckAcquirerIssued:
		return "CheckAcquirerIssued"
	case OperationSweepExpiredCertificates:
		return "SweepExpiredCertificates"
	case OperationCreateFarmer:
		return "CreateFarmer"
	case OperationUpdateFarmer:
		return "UpdateFarmer"
	case OperationDeleteFarmer:
		return "DeleteFarmer"
	case OperationListFarmers:
		return "ListFarmers"
	case OperationGetFarmerByID:
		return "GetFarmerByID"
	default:
		return fmt.Sprintf("Operation(%d)", int(o))
	}
}

// ErrUnimplementedOperation indicates a policy lookup for an operation
// with no policy entry. This is a code/config defect, not a denial, and
// must fail loudly.
var ErrUnimplementedOperation = errors.New(
	"authorization not implemented for operation",
)

// Default organizational membership ids
const (
	DefaultIssuerOrg   = "Org2MSP"
	DefaultVerifierOrg = "Org3MSP"
)

// Policy maps (operation, caller, target scope) to an allow/deny
// decision. IssuerOrg is the certification body allowed to mutate
// records; VerifierOrg is the read-mostly producer organization.
type Policy struct {
	IssuerOrg   string
	VerifierOrg string
}

// DefaultPolicy returns a policy using the default organization ids
func DefaultPolicy() Policy {
	return Policy{
		IssuerOrg:   DefaultIssuerOrg,
		VerifierOrg: DefaultVerifierOrg,
	}
}

// Authorized returns whether the caller may perform the given operation.
// scope carries the target subject id for self-service operations and is
// ignored elsewhere. Read and Exists operations are open and have no
// policy entry; consulting the policy for an unknown operation returns
// ErrUnimplementedOperation.
func (p Policy) Authorized(
	op Operation,
	caller identity.Identity,
	scope string,
) (bool, error) {
	switch op {
	// Issuing body only
	case OperationCreateCertificate,
		OperationUpdateCertificate,
		OperationDeleteCertificate,
		OperationUpdateCertificateState,
		OperationQueryCertificatesByState,
		OperationQueryCertificatesByRegistrationNr,
		OperationSweepExpiredCertificates,
		OperationCreateFarmer,
		OperationUpdateFarmer,
		OperationDeleteFarmer:
		return caller.MSPID == p.IssuerOrg, nil

	// Issuing body or verifier organization
	case OperationListCertificates,
		OperationListFarmers:
		return caller.MSPID == p.IssuerOrg ||
			caller.MSPID == p.VerifierOrg, nil

	// Issuing body, verifier organization, or the subject itself
	case OperationCheckAcquirerIssued,
		OperationGetFarmerByID:
		if caller.MSPID == p.IssuerOrg || caller.MSPID == p.VerifierOrg {
			return true, nil
		}
		return p.isSelf(caller, scope), nil

	// Issuing body or the subject itself
	case OperationQueryCertificatesByAcquirer:
		if caller.MSPID == p.IssuerOrg {
			return true, nil
		}
		return p.isSelf(caller, scope), nil

	default:
		return false, fmt.Errorf(
			"%w: %s",
			ErrUnimplementedOperation,
			op,
		)
	}
}

func (p Policy) isSelf(caller identity.Identity, scope string) bool {
	if scope == "" {
		return false
	}
	walletID, ok := caller.WalletID()
	return ok && walletID == scope
}
