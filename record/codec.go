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

import "encoding/json"

// Entry pairs a ledger key with its decoded record. Record holds a
// Certificate or Farmer for well-formed values and the raw string for
// values that failed to decode, so one corrupt entry surfaces to the
// caller instead of aborting or masking a whole scan.
type Entry struct {
	Key    string `json:"key"`
	Record any    `json:"record"`
}

// EncodeCertificate serializes a certificate to its ledger value format
func EncodeCertificate(cert *Certificate) ([]byte, error) {
	return json.Marshal(cert)
}

// DecodeCertificate deserializes a certificate from its ledger value format
func DecodeCertificate(data []byte) (*Certificate, error) {
	var cert Certificate
	if err := json.Unmarshal(data, &cert); err != nil {
		return nil, err
	}
	return &cert, nil
}

// DecodeCertificateEntry decodes a scanned key/value pair. Malformed
// values are kept as their raw string representation.
func DecodeCertificateEntry(key string, data []byte) Entry {
	cert, err := DecodeCertificate(data)
	if err != nil {
		return Entry{Key: key, Record: string(data)}
	}
	return Entry{Key: key, Record: *cert}
}

// EncodeFarmer serializes a farmer to its ledger value format
func EncodeFarmer(farmer *Farmer) ([]byte, error) {
	return json.Marshal(farmer)
}

// DecodeFarmer deserializes a farmer from its ledger value format
func DecodeFarmer(data []byte) (*Farmer, error) {
	var farmer Farmer
	if err := json.Unmarshal(data, &farmer); err != nil {
		return nil, err
	}
	return &farmer, nil
}

// DecodeFarmerEntry decodes a scanned key/value pair. Malformed values
// are kept as their raw string representation.
func DecodeFarmerEntry(key string, data []byte) Entry {
	farmer, err := DecodeFarmer(data)
	if err != nil {
		return Entry{Key: key, Record: string(data)}
	}
	return Entry{Key: key, Record: *farmer}
}
