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

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/blinklabs-io/resi/chain"
	"github.com/blinklabs-io/resi/types"
	"github.com/go-chi/chi/v5"
)

// ErrUnavailable is returned by a Backend that is not ready to serve
var ErrUnavailable = errors.New("backend unavailable")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// statusFor maps a backend error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, chain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, chain.ErrInvalidState),
		errors.Is(err, chain.ErrCapacityExceeded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) backendError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		a.logger.Error(msg, "error", err)
		writeError(w, status, msg)
		return
	}
	writeError(w, status, err.Error())
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{IsHealthy: true})
}

func (a *API) handleActiveSerie(w http.ResponseWriter, r *http.Request) {
	serie, err := a.backend.ActiveSerie(r.Context())
	if err != nil {
		a.backendError(w, "failed to retrieve active serie", err)
		return
	}
	writeJSON(w, http.StatusOK, serieResponse(serie))
}

func (a *API) handleSerie(w http.ResponseWriter, r *http.Request) {
	id, ok := serieIDParam(w, r)
	if !ok {
		return
	}
	serie, err := a.backend.Serie(r.Context(), id)
	if err != nil {
		a.backendError(w, "failed to retrieve serie", err)
		return
	}
	writeJSON(w, http.StatusOK, serieResponse(serie))
}

func (a *API) handleExitQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := serieIDParam(w, r)
	if !ok {
		return
	}
	amount, err := types.ParseAmount(r.URL.Query().Get("amount"))
	if err != nil || amount.IsZero() {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	quote, err := a.backend.ExitQuote(r.Context(), id, amount)
	if err != nil {
		a.backendError(w, "failed to compute exit quote", err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{
		SerieID: id,
		Amount:  amount.Dec(),
		Payout:  quote.Dec(),
	})
}

func (a *API) handleProject(w http.ResponseWriter, r *http.Request) {
	name, err := types.ParseName(chi.URLParam(r, "name"))
	if err != nil || name.IsZero() {
		writeError(w, http.StatusBadRequest, "invalid project name")
		return
	}
	project, err := a.backend.Project(r.Context(), name)
	if err != nil {
		a.backendError(w, "failed to retrieve project", err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectResponse{
		Name:    project.Name.String(),
		SerieID: project.SerieID,
		Active:  project.Active,
	})
}

func (a *API) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr, err := types.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid address")
		return
	}
	account, err := a.backend.Account(r.Context(), addr)
	if err != nil {
		a.backendError(w, "failed to retrieve account", err)
		return
	}
	resp := AccountResponse{
		Address: account.Address.Hex(),
		Balance: account.Balance.Dec(),
		Series:  make([]SerieBalanceResponse, 0, len(account.Series)),
		Badges:  make([]BadgeResponse, 0, len(account.Badges)),
	}
	if !account.Nickname.IsZero() {
		resp.Nickname = account.Nickname.String()
	}
	for _, bal := range account.Series {
		resp.Series = append(resp.Series, SerieBalanceResponse{
			SerieID: bal.SerieID,
			Balance: bal.Balance.Dec(),
		})
	}
	for _, b := range account.Badges {
		resp.Badges = append(resp.Badges, BadgeResponse{
			Contract: b.Contract.Hex(),
			SerieID:  b.SerieID,
			TokenID:  b.TokenID,
			Role:     b.Role.String(),
			TokenURI: b.TokenURI,
			Balance:  b.Balance.Dec(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleRoleMembers(w http.ResponseWriter, r *http.Request) {
	role, err := types.ParseRole(chi.URLParam(r, "role"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	members, err := a.backend.RoleMembers(r.Context(), role)
	if err != nil {
		a.backendError(w, "failed to retrieve role members", err)
		return
	}
	resp := make([]RoleMemberResponse, 0, len(members))
	for _, m := range members {
		item := RoleMemberResponse{
			Account: m.Account.Hex(),
			SerieID: m.SerieID,
		}
		if !m.Project.IsZero() {
			item.Project = m.Project.String()
		}
		resp = append(resp, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleEvents(w http.ResponseWriter, r *http.Request) {
	params, err := ParseEventRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	events, err := a.backend.Events(params.From, params.Limit)
	if err != nil {
		a.backendError(w, "failed to retrieve events", err)
		return
	}
	next := params.From
	resp := make([]EventResponse, 0, len(events))
	for _, evt := range events {
		resp = append(resp, EventResponse{
			Seq:       evt.Seq,
			TxID:      evt.TxID,
			Type:      evt.Type,
			Contract:  evt.Contract.Hex(),
			Timestamp: evt.Timestamp,
			Data:      evt.Data,
		})
		next = evt.Seq + 1
	}
	SetPaginationHeaders(w, next)
	writeJSON(w, http.StatusOK, resp)
}

func serieIDParam(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, "invalid serie id")
		return 0, false
	}
	return id, true
}

func serieResponse(serie SerieInfo) SerieResponse {
	return SerieResponse{
		ID:               serie.ID,
		Active:           serie.Active,
		StartTime:        serie.StartTime,
		EndTime:          serie.EndTime,
		NumberOfProjects: serie.NumberOfProjects,
		CurrentProjects:  serie.CurrentProjects,
		MaxSupply:        serie.MaxSupply.Dec(),
		CurrentSupply:    serie.CurrentSupply.Dec(),
		Vault:            serie.Vault.Hex(),
		Badge:            serie.Badge.Hex(),
	}
}
