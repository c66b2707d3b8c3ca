// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package classify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianSequence/services/classify/bayes"
)

// Handlers bundles the HTTP handlers for the classification API.
type Handlers struct {
	svc *Service
	log *slog.Logger
}

// NewHandlers creates the handler set for a service.
func NewHandlers(svc *Service, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{svc: svc, log: log}
}

// getOrCreateRequestID returns the inbound X-Request-ID header, minting a
// fresh UUID when the client sent none. The ID is echoed on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBankNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrClassOutOfRange),
		errors.Is(err, ErrInvalidSensitivity),
		errors.Is(err, ErrNoThreshold),
		errors.Is(err, bayes.ErrPriorLength):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// HandleHealth responds to liveness probes.
//
// GET /v1/classify/health
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"banks":  len(h.svc.Banks()),
	})
}

// HandleListBanks lists all registered banks.
//
// GET /v1/classify/banks
func (h *Handlers) HandleListBanks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"banks": h.svc.Banks()})
}

// HandleGetBank describes one bank.
//
// GET /v1/classify/banks/:name
func (h *Handlers) HandleGetBank(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := h.log.With("request_id", requestID, "handler", "HandleGetBank")

	summary, err := h.svc.Bank(c.Param("name"))
	if err != nil {
		log.Warn("bank lookup failed", "bank", c.Param("name"), "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error(), Code: "bank_not_found"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandlePosteriors scores a sequence and returns the full posterior
// vector alongside the decision.
//
// POST /v1/classify/banks/:name/posteriors
func (h *Handlers) HandlePosteriors(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := h.log.With("request_id", requestID, "handler", "HandlePosteriors")

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	result, err := h.svc.Posteriors(c.Request.Context(), c.Param("name"), req.Sequence)
	if err != nil {
		log.Error("classification failed", "bank", c.Param("name"), "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error(), Code: "classification_failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleDecide scores a sequence and returns only the decision.
//
// POST /v1/classify/banks/:name/decide
func (h *Handlers) HandleDecide(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := h.log.With("request_id", requestID, "handler", "HandleDecide")

	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	result, err := h.svc.Posteriors(c.Request.Context(), c.Param("name"), req.Sequence)
	if err != nil {
		log.Error("classification failed", "bank", c.Param("name"), "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error(), Code: "classification_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bank":        result.Bank,
		"decision":    result.Decision,
		"label":       result.Label,
		"rejected":    result.Rejected,
		"probability": result.Probability,
	})
}

// HandleLikelihood returns the raw log-likelihood of a sequence under one
// class model.
//
// POST /v1/classify/banks/:name/likelihood
func (h *Handlers) HandleLikelihood(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := h.log.With("request_id", requestID, "handler", "HandleLikelihood")

	var req LikelihoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	result, err := h.svc.Likelihood(c.Request.Context(), c.Param("name"), req.Sequence, req.Class)
	if err != nil {
		log.Error("likelihood query failed", "bank", c.Param("name"), "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error(), Code: "likelihood_failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleSetPriors replaces a bank's prior distribution.
//
// PUT /v1/classify/banks/:name/priors
func (h *Handlers) HandleSetPriors(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := h.log.With("request_id", requestID, "handler", "HandleSetPriors")

	var req SetPriorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	if err := h.svc.SetPriors(c.Request.Context(), c.Param("name"), req.Priors); err != nil {
		log.Error("prior update failed", "bank", c.Param("name"), "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error(), Code: "priors_rejected"})
		return
	}
	summary, _ := h.svc.Bank(c.Param("name"))
	c.JSON(http.StatusOK, summary)
}

// HandleSetSensitivity replaces a bank's rejection sensitivity.
//
// PUT /v1/classify/banks/:name/sensitivity
func (h *Handlers) HandleSetSensitivity(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := h.log.With("request_id", requestID, "handler", "HandleSetSensitivity")

	var req SetSensitivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	if err := h.svc.SetSensitivity(c.Request.Context(), c.Param("name"), req.Sensitivity); err != nil {
		log.Error("sensitivity update failed", "bank", c.Param("name"), "error", err)
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error(), Code: "sensitivity_rejected"})
		return
	}
	summary, _ := h.svc.Bank(c.Param("name"))
	c.JSON(http.StatusOK, summary)
}
