// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/canonical/gym-membership-service/internal/storage"
	"github.com/canonical/gym-membership-service/internal/types"
)

// Response is the envelope of every successful JSON answer.
type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorResponse is the envelope of every failed JSON answer.
type ErrorResponse struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Reason   string `json:"reason,omitempty"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Data: data, Message: message, Status: status})
}

func WriteErrorResponse(w http.ResponseWriter, resp ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp)
}

// ErrorToResponse maps the domain error taxonomy onto an HTTP answer. Server side failures
// only expose publicMessage.
func ErrorToResponse(err error, publicMessage string) ErrorResponse {
	var (
		vErr *types.ValidationError
		aErr *types.AlreadyExistsError
		uErr *types.UnauthorizedError
		pErr *types.ProviderError
		sErr *types.StoreError
	)

	switch {
	case errors.As(err, &vErr):
		return ErrorResponse{Status: http.StatusBadRequest, Message: vErr.Error(), Field: vErr.Field}
	case errors.As(err, &aErr):
		return ErrorResponse{Status: http.StatusConflict, Message: aErr.Error()}
	case errors.As(err, &uErr):
		status := http.StatusForbidden
		if uErr.Reason == types.ReasonUnauthenticated {
			status = http.StatusUnauthorized
		}
		return ErrorResponse{Status: status, Message: uErr.Error(), Reason: string(uErr.Reason)}
	case errors.Is(err, types.ErrNotProvisioned):
		return ErrorResponse{Status: http.StatusForbidden, Message: err.Error(), Reason: string(types.ReasonNotRegistered)}
	case errors.Is(err, types.ErrDeactivated):
		return ErrorResponse{Status: http.StatusForbidden, Message: err.Error(), Reason: string(types.ReasonDeactivated)}
	case errors.As(err, &pErr):
		switch pErr.Kind {
		case types.ProviderDuplicateInvite, types.ProviderAlreadyHasLogin:
			return ErrorResponse{Status: http.StatusConflict, Message: pErr.Error(), Reason: string(pErr.Kind)}
		case types.ProviderNotFound:
			return ErrorResponse{Status: http.StatusNotFound, Message: pErr.Error(), Reason: string(pErr.Kind)}
		}
		return ErrorResponse{Status: http.StatusBadGateway, Message: publicMessage}
	case errors.Is(err, storage.ErrNotFound):
		return ErrorResponse{Status: http.StatusNotFound, Message: "resource not found"}
	case errors.As(err, &sErr):
		return ErrorResponse{Status: http.StatusInternalServerError, Message: publicMessage}
	}

	return ErrorResponse{Status: http.StatusInternalServerError, Message: publicMessage}
}

func WriteError(w http.ResponseWriter, err error, publicMessage string) {
	WriteErrorResponse(w, ErrorToResponse(err, publicMessage))
}

// DecodeJSON reads a JSON request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &types.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
