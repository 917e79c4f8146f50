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

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blinklabs-io/certstore"
	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/identity"
	"github.com/blinklabs-io/certstore/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var (
	issuerCaller = identity.Identity{
		MSPID:        access.DefaultIssuerOrg,
		EnrollmentID: "x509::/OU=admin/CN=certBodyAdmin::/O=Hyperledger",
	}
	farmerCaller = identity.Identity{
		MSPID:        "Org1MSP",
		EnrollmentID: "x509::/OU=client/CN=farmer42::/O=Hyperledger",
	}
)

func newTestGateway(t *testing.T) (*Gateway, *httptest.Server) {
	t.Helper()
	store, err := certstore.New(certstore.NewConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close() //nolint:errcheck
	})
	gw := New(GatewayConfig{}, store, nil)
	server := httptest.NewServer(gw.routes())
	t.Cleanup(server.Close)
	return gw, server
}

func doRequest(
	t *testing.T,
	server *httptest.Server,
	method string,
	path string,
	caller identity.Identity,
	body any,
) *http.Response {
	t.Helper()
	var bodyReader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(
		method,
		server.URL+path,
		bodyReader,
	)
	require.NoError(t, err)
	if caller.MSPID != "" {
		req.Header.Set(headerMspID, caller.MSPID)
		req.Header.Set(headerEnrollmentID, caller.EnrollmentID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		resp.Body.Close() //nolint:errcheck
	})
	return resp
}

func TestStartStop(t *testing.T) {
	// The store is never touched during startup and shutdown, so leave it
	// nil to keep the leak check scoped to the server's own goroutines
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gw := New(
		GatewayConfig{ListenAddress: "127.0.0.1:0"},
		nil,
		nil,
	)
	require.NoError(t, gw.Start(ctx))

	// Starting twice is an error
	err := gw.Start(ctx)
	require.Error(t, err)

	require.NoError(t, gw.Stop(context.Background()))
	cancel()
}

func TestCertificateEndpoints(t *testing.T) {
	_, server := newTestGateway(t)

	cert := record.Certificate{
		ID:             "gw-1",
		StartDate:      "03-10-2021",
		EndDate:        "03-30-2021",
		CertNr:         "certNr",
		AcquirerID:     "farmer42",
		RegistrationNr: "registrationNr",
		State:          record.StateIssued,
	}

	// Create
	resp := doRequest(
		t,
		server,
		http.MethodPost,
		"/api/v1/certificates",
		issuerCaller,
		cert,
	)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Read
	resp = doRequest(
		t,
		server,
		http.MethodGet,
		"/api/v1/certificates/gw-1",
		identity.Identity{},
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched record.Certificate
	require.NoError(
		t,
		json.NewDecoder(resp.Body).Decode(&fetched),
	)
	assert.Equal(t, cert, fetched)

	// Exists
	resp = doRequest(
		t,
		server,
		http.MethodGet,
		"/api/v1/certificates/gw-1/exists",
		identity.Identity{},
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var exists ExistsResponse
	require.NoError(
		t,
		json.NewDecoder(resp.Body).Decode(&exists),
	)
	assert.True(t, exists.Exists)

	// State transition
	resp = doRequest(
		t,
		server,
		http.MethodPut,
		"/api/v1/certificates/gw-1/state",
		issuerCaller,
		UpdateStateRequest{State: string(record.StateRevoked)},
	)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Issuance check reflects the revocation
	resp = doRequest(
		t,
		server,
		http.MethodGet,
		"/api/v1/acquirers/farmer42/issued",
		farmerCaller,
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var issued IssuedResponse
	require.NoError(
		t,
		json.NewDecoder(resp.Body).Decode(&issued),
	)
	assert.False(t, issued.Issued)

	// Delete
	resp = doRequest(
		t,
		server,
		http.MethodDelete,
		"/api/v1/certificates/gw-1",
		issuerCaller,
		nil,
	)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCertificateErrorMapping(t *testing.T) {
	_, server := newTestGateway(t)

	// Denied create
	cert := record.Certificate{
		ID:    "gw-err-1",
		State: record.StateIssued,
	}
	resp := doRequest(
		t,
		server,
		http.MethodPost,
		"/api/v1/certificates",
		farmerCaller,
		cert,
	)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Missing record
	resp = doRequest(
		t,
		server,
		http.MethodGet,
		"/api/v1/certificates/gw-err-1",
		identity.Identity{},
		nil,
	)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Invalid state
	cert.State = "PENDING"
	resp = doRequest(
		t,
		server,
		http.MethodPost,
		"/api/v1/certificates",
		issuerCaller,
		cert,
	)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Malformed body
	req, err := http.NewRequest(
		http.MethodPost,
		server.URL+"/api/v1/certificates",
		bytes.NewReader([]byte("not json")),
	)
	require.NoError(t, err)
	req.Header.Set(headerMspID, issuerCaller.MSPID)
	rawResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer rawResp.Body.Close() //nolint:errcheck
	assert.Equal(t, http.StatusBadRequest, rawResp.StatusCode)
}

func TestFarmerEndpoints(t *testing.T) {
	_, server := newTestGateway(t)

	farmer := record.Farmer{
		ID:        "farmer42",
		Address:   "1 Farm Road",
		FirstName: "John",
		LastName:  "Deere",
	}

	// Create
	resp := doRequest(
		t,
		server,
		http.MethodPost,
		"/api/v1/farmers",
		issuerCaller,
		farmer,
	)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Self-service fetch
	resp = doRequest(
		t,
		server,
		http.MethodGet,
		"/api/v1/farmers/farmer42",
		farmerCaller,
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched record.Farmer
	require.NoError(
		t,
		json.NewDecoder(resp.Body).Decode(&fetched),
	)
	assert.Equal(t, farmer, fetched)

	// Fetching another farmer's record is denied
	resp = doRequest(
		t,
		server,
		http.MethodGet,
		"/api/v1/farmers/otherFarmer",
		farmerCaller,
		nil,
	)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	_, server := newTestGateway(t)

	resp := doRequest(
		t,
		server,
		http.MethodGet,
		"/health",
		identity.Identity{},
		nil,
	)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var health HealthResponse
	require.NoError(
		t,
		json.NewDecoder(resp.Body).Decode(&health),
	)
	assert.True(t, health.IsHealthy)
}
