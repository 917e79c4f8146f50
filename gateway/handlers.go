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
	"encoding/json"
	"errors"
	"net/http"

	"github.com/blinklabs-io/certstore"
	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/identity"
	"github.com/blinklabs-io/certstore/internal/version"
	"github.com/blinklabs-io/certstore/record"
)

// Caller identity headers. The upstream identity provider authenticates
// the caller and stamps these; the gateway only relays them.
const (
	headerMspID        = "X-Msp-Id"
	headerEnrollmentID = "X-Enrollment-Id"
)

// callerIdentity extracts the caller identity from request headers
func callerIdentity(r *http.Request) identity.Identity {
	return identity.Identity{
		MSPID:        r.Header.Get(headerMspID),
		EnrollmentID: r.Header.Get(headerEnrollmentID),
	}
}

// writeJSON writes a JSON response with the given status code
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response
func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// writeStoreError maps store errors onto HTTP status codes
func (g *Gateway) writeStoreError(
	w http.ResponseWriter,
	err error,
) {
	var notFoundErr certstore.NotFoundError
	switch {
	case errors.Is(err, certstore.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, record.ErrInvalidState),
		errors.Is(err, record.ErrInvalidDateFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, access.ErrUnimplementedOperation):
		g.logger.Error(
			"access policy lookup failure",
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		g.logger.Error(
			"record store error",
			"error", err,
		)
		writeError(
			w,
			http.StatusInternalServerError,
			"internal server error",
		)
	}
}

// handleRoot handles GET / and returns API metadata.
func (g *Gateway) handleRoot(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, RootResponse{
		Service: "certstore",
		Version: version.GetVersionString(),
	})
}

// handleHealth handles GET /health.
func (g *Gateway) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

func (g *Gateway) handleCreateCertificate(
	w http.ResponseWriter,
	r *http.Request,
) {
	var cert record.Certificate
	if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := g.store.CreateCertificate(callerIdentity(r), cert); err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cert)
}

func (g *Gateway) handleReadCertificate(
	w http.ResponseWriter,
	r *http.Request,
) {
	cert, err := g.store.ReadCertificate(r.PathValue("id"))
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (g *Gateway) handleUpdateCertificate(
	w http.ResponseWriter,
	r *http.Request,
) {
	var cert record.Certificate
	if err := json.NewDecoder(r.Body).Decode(&cert); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The path is authoritative for the record id
	cert.ID = r.PathValue("id")
	if err := g.store.UpdateCertificate(callerIdentity(r), cert); err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (g *Gateway) handleDeleteCertificate(
	w http.ResponseWriter,
	r *http.Request,
) {
	if err := g.store.DeleteCertificate(
		callerIdentity(r),
		r.PathValue("id"),
	); err != nil {
		g.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleCertificateExists(
	w http.ResponseWriter,
	r *http.Request,
) {
	exists, err := g.store.CertificateExists(r.PathValue("id"))
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExistsResponse{Exists: exists})
}

func (g *Gateway) handleUpdateCertificateState(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req UpdateStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := g.store.UpdateCertificateState(
		callerIdentity(r),
		r.PathValue("id"),
		record.State(req.State),
	); err != nil {
		g.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleListCertificates(
	w http.ResponseWriter,
	r *http.Request,
) {
	entries, err := g.store.ListCertificates(callerIdentity(r))
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (g *Gateway) handleQueryCertificatesByAcquirer(
	w http.ResponseWriter,
	r *http.Request,
) {
	entries, err := g.store.QueryCertificatesByAcquirer(
		callerIdentity(r),
		r.PathValue("acquirerId"),
	)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (g *Gateway) handleQueryCertificatesByState(
	w http.ResponseWriter,
	r *http.Request,
) {
	entries, err := g.store.QueryCertificatesByState(
		callerIdentity(r),
		record.State(r.PathValue("state")),
	)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (g *Gateway) handleQueryCertificatesByRegistrationNr(
	w http.ResponseWriter,
	r *http.Request,
) {
	entries, err := g.store.QueryCertificatesByRegistrationNr(
		callerIdentity(r),
		r.PathValue("registrationNr"),
	)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (g *Gateway) handleCheckAcquirerIssued(
	w http.ResponseWriter,
	r *http.Request,
) {
	issued, err := g.store.CheckAcquirerHasIssued(
		callerIdentity(r),
		r.PathValue("acquirerId"),
	)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IssuedResponse{Issued: issued})
}

func (g *Gateway) handleSweepExpiredCertificates(
	w http.ResponseWriter,
	r *http.Request,
) {
	if err := g.store.SweepExpiredCertificates(callerIdentity(r)); err != nil {
		g.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleCreateFarmer(
	w http.ResponseWriter,
	r *http.Request,
) {
	var farmer record.Farmer
	if err := json.NewDecoder(r.Body).Decode(&farmer); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := g.store.CreateFarmer(callerIdentity(r), farmer); err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, farmer)
}

func (g *Gateway) handleUpdateFarmer(
	w http.ResponseWriter,
	r *http.Request,
) {
	var farmer record.Farmer
	if err := json.NewDecoder(r.Body).Decode(&farmer); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	farmer.ID = r.PathValue("id")
	if err := g.store.UpdateFarmer(callerIdentity(r), farmer); err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, farmer)
}

func (g *Gateway) handleDeleteFarmer(
	w http.ResponseWriter,
	r *http.Request,
) {
	if err := g.store.DeleteFarmer(
		callerIdentity(r),
		r.PathValue("id"),
	); err != nil {
		g.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleFarmerExists(
	w http.ResponseWriter,
	r *http.Request,
) {
	exists, err := g.store.FarmerExists(r.PathValue("id"))
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ExistsResponse{Exists: exists})
}

func (g *Gateway) handleGetFarmer(
	w http.ResponseWriter,
	r *http.Request,
) {
	farmer, err := g.store.GetFarmerByID(
		callerIdentity(r),
		r.PathValue("id"),
	)
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, farmer)
}

func (g *Gateway) handleListFarmers(
	w http.ResponseWriter,
	r *http.Request,
) {
	entries, err := g.store.ListFarmers(callerIdentity(r))
	if err != nil {
		g.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
