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

import "github.com/gin-gonic/gin"

// RegisterRoutes wires the classification API under /v1/classify.
//
// Description:
//
//	Read endpoints (health, bank listing) are left unthrottled; scoring
//	and mutation endpoints share the provided rate limit middleware.
//	Pass nil to disable throttling.
func RegisterRoutes(r gin.IRouter, h *Handlers, limit gin.HandlerFunc) {
	v1 := r.Group("/v1/classify")

	v1.GET("/health", h.HandleHealth)
	v1.GET("/banks", h.HandleListBanks)
	v1.GET("/banks/:name", h.HandleGetBank)

	scored := v1.Group("")
	if limit != nil {
		scored.Use(limit)
	}
	scored.POST("/banks/:name/posteriors", h.HandlePosteriors)
	scored.POST("/banks/:name/decide", h.HandleDecide)
	scored.POST("/banks/:name/likelihood", h.HandleLikelihood)
	scored.PUT("/banks/:name/priors", h.HandleSetPriors)
	scored.PUT("/banks/:name/sensitivity", h.HandleSetSensitivity)
}
