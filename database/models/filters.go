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

package models

// CertificateFilter selects certificate index rows. Empty fields are
// unconstrained; set fields are combined as a conjunction.
type CertificateFilter struct {
	AcquirerID     string
	State          string
	RegistrationNr string
}

// FarmerFilter selects farmer index rows. Empty fields are unconstrained.
type FarmerFilter struct {
	RecordID string
}
