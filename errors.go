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
)

// ErrNotAuthorized is returned when the caller's identity does not satisfy
// the access policy for the requested operation. No side effect occurs.
var ErrNotAuthorized = errors.New("action not allowed by this user")

// NotFoundError is returned when a referenced record id is absent for an
// operation that requires existence
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("the %s %s does not exist", e.Kind, e.ID)
}

func newCertificateNotFoundError(id string) NotFoundError {
	return NotFoundError{Kind: "certificate", ID: id}
}

func newFarmerNotFoundError(id string) NotFoundError {
	return NotFoundError{Kind: "farmer", ID: id}
}
