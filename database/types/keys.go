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

package types

import "strings"

// Key prefixes partition the blob key space per record type
const (
	CertificateBlobKeyPrefix = "cert_"
	FarmerBlobKeyPrefix      = "farmer_"
)

func CertificateBlobKey(id string) []byte {
	return []byte(CertificateBlobKeyPrefix + id)
}

func FarmerBlobKey(id string) []byte {
	return []byte(FarmerBlobKeyPrefix + id)
}

// RecordIDFromBlobKey strips the record type prefix from a blob key
func RecordIDFromBlobKey(prefix string, key []byte) string {
	return strings.TrimPrefix(string(key), prefix)
}
