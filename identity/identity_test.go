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

package identity_test

import (
	"testing"

	"github.com/blinklabs-io/certstore/identity"
	"github.com/stretchr/testify/assert"
)

func TestWalletID(t *testing.T) {
	testDefs := []struct {
		name         string
		enrollmentID string
		wantID       string
		wantOk       bool
	}{
		{
			name:         "full enrollment string",
			enrollmentID: "x509::/OU=org1/CN=farmer42::/C=US/ST=North Carolina/O=Hyperledger",
			wantID:       "farmer42",
			wantOk:       true,
		},
		{
			name:         "minimal pattern",
			enrollmentID: "CN=user1::",
			wantID:       "user1",
			wantOk:       true,
		},
		{
			name:         "missing CN marker",
			enrollmentID: "x509::/OU=org1/O=test::",
			wantOk:       false,
		},
		{
			name:         "missing terminator",
			enrollmentID: "x509::/OU=org1/CN=farmer42",
			wantOk:       false,
		},
		{
			name:         "empty string",
			enrollmentID: "",
			wantOk:       false,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			id := identity.Identity{
				MSPID:        "Org1MSP",
				EnrollmentID: testDef.enrollmentID,
			}
			walletID, ok := id.WalletID()
			assert.Equal(t, testDef.wantOk, ok)
			if testDef.wantOk {
				assert.Equal(t, testDef.wantID, walletID)
			}
		})
	}
}
