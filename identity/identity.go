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

package identity

import "strings"

// Identity describes the caller invoking a record store operation. MSPID
// is the caller's organizational membership id. EnrollmentID is the
// structured identity string issued by the identity provider, of the form
// "x509::/.../CN=<walletId>::/..." - the wallet id between "CN=" and the
// following "::" identifies the subject for self-service authorization.
type Identity struct {
	MSPID        string
	EnrollmentID string
}

// WalletID extracts the self-identifying wallet id from the enrollment
// string. The second return value is false when the enrollment string
// does not carry the CN=<id>:: pattern; callers treat that as non-self.
func (id Identity) WalletID() (string, bool) {
	start := strings.Index(id.EnrollmentID, "CN=")
	if start == -1 {
		return "", false
	}
	start += len("CN=")
	end := strings.Index(id.EnrollmentID[start:], "::")
	if end == -1 {
		return "", false
	}
	return id.EnrollmentID[start : start+end], true
}
