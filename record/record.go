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

package record

import (
	"errors"
	"time"
)

// State is the lifecycle state of a certificate record
type State string

const (
	StateIssued  State = "ISSUED"
	StateRevoked State = "REVOKED"
	StateExpired State = "EXPIRED"
)

// ErrInvalidState is returned when a state value is outside the fixed enum
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidDateFormat is returned when a date string cannot be parsed
var ErrInvalidDateFormat = errors.New("invalid date format")

// DateLayout is the external date format used on certificate records
const DateLayout = "01-02-2006"

// Valid returns true if the state is one of the enumerated values
func (s State) Valid() bool {
	switch s {
	case StateIssued, StateRevoked, StateExpired:
		return true
	default:
		return false
	}
}

// CheckState validates a state value against the fixed enum. It must be
// called before any write that supplies a state.
func CheckState(s State) error {
	if !s.Valid() {
		return ErrInvalidState
	}
	return nil
}

// ParseDate parses the external date format into a comparable time value
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// Certificate is a certificate record as stored on the ledger
type Certificate struct {
	ID             string `json:"ID"`
	StartDate      string `json:"StartDate"`
	EndDate        string `json:"EndDate"`
	CertNr         string `json:"CertNr"`
	AcquirerID     string `json:"AcquirerID"`
	AcquirerName   string `json:"AcquirerName,omitempty"`
	Address        string `json:"Address,omitempty"`
	RegistrationNr string `json:"RegistrationNr"`
	CertificateURL string `json:"CertificateURL,omitempty"`
	State          State  `json:"State"`
}

// Farmer is a farmer record as stored on the ledger
type Farmer struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
