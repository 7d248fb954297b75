package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/alexsserban/starledger/ledger"
	"github.com/alexsserban/starledger/ownership"
	"github.com/alexsserban/starledger/registry"
)

type validationRequest struct {
	Address string `json:"address"`
}

type validationResponse struct {
	Challenge string `json:"challenge"`
}

type submitRequest struct {
	Address   string        `json:"address"`
	Message   string        `json:"message"`
	Signature string        `json:"signature"`
	Star      registry.Star `json:"star"`
}

type submitResponse struct {
	Block    ledger.Export      `json:"block"`
	Warnings []ledger.Violation `json:"warnings,omitempty"`
}

type validateResponse struct {
	Valid      bool               `json:"valid"`
	Violations []ledger.Violation `json:"violations"`
}

func (s *Server) requestValidation(w http.ResponseWriter, r *http.Request) {
	var req validationRequest
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	challenge, err := s.svc.RequestValidation(req.Address)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validationResponse{Challenge: challenge})
}

func (s *Server) submitStar(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := readJSON(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	sig, err := decodeSignature(req.Signature)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_SIGNATURE_ENCODING", err.Error())
		return
	}
	rec, violations, err := s.svc.SubmitStar(req.Address, req.Message, sig, req.Star)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{Block: rec.Export(), Warnings: violations})
}

func (s *Server) blockByHash(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.svc.BlockByHash(chi.URLParam(r, "hash"))
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no block with this hash")
		return
	}
	writeJSON(w, http.StatusOK, rec.Export())
}

func (s *Server) blockByHeight(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseUint(chi.URLParam(r, "height"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "BAD_HEIGHT", "height must be a non-negative integer")
		return
	}
	rec, ok := s.svc.BlockByHeight(height)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no block at this height")
		return
	}
	writeJSON(w, http.StatusOK, rec.Export())
}

func (s *Server) starsByOwner(w http.ResponseWriter, r *http.Request) {
	stars, err := s.svc.StarsByOwner(chi.URLParam(r, "address"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stars)
}

func (s *Server) validateChain(w http.ResponseWriter, r *http.Request) {
	violations := s.svc.ValidateChain()
	writeJSON(w, http.StatusOK, validateResponse{Valid: len(violations) == 0, Violations: violations})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ownership.ErrChallengeNotFound):
		writeError(w, http.StatusUnauthorized, "CHALLENGE_NOT_FOUND", err.Error())
	case errors.Is(err, ownership.ErrChallengeExpired):
		writeError(w, http.StatusUnauthorized, "CHALLENGE_EXPIRED", err.Error())
	case errors.Is(err, ownership.ErrSignatureInvalid):
		writeError(w, http.StatusUnauthorized, "SIGNATURE_INVALID", err.Error())
	case errors.Is(err, ownership.ErrInvalidIdentity),
		errors.Is(err, ownership.ErrMalformedChallenge),
		errors.Is(err, registry.ErrInvalidStar):
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
	case errors.Is(err, ledger.ErrChainCorrupted):
		writeError(w, http.StatusConflict, "CHAIN_CORRUPTED", err.Error())
	case errors.Is(err, ledger.ErrStoreUninitialized):
		writeError(w, http.StatusServiceUnavailable, "UNINITIALIZED", err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
