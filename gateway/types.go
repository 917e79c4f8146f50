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

package gateway

// RootResponse is returned by GET /.
type RootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is the error body returned for failed requests.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// ExistsResponse is returned by existence check endpoints.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// IssuedResponse is returned by the acquirer issuance check endpoint.
type IssuedResponse struct {
	Issued bool `json:"issued"`
}

// UpdateStateRequest is the body for certificate state transitions.
type UpdateStateRequest struct {
	State string `json:"state"`
}
