// Package handler implements the HTTP handlers.
package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ahermangesh/floatchat/internal/application/response"
	"github.com/ahermangesh/floatchat/internal/application/retrieval"
	"github.com/ahermangesh/floatchat/internal/interfaces/http/dto"
	"github.com/ahermangesh/floatchat/pkg/errors"
	"github.com/ahermangesh/floatchat/pkg/logger"
	"github.com/ahermangesh/floatchat/pkg/metrics"
)

// maxQuestionLength bounds query text before any processing.
const maxQuestionLength = 2000

// ChatHandler serves the natural-language query endpoint.
type ChatHandler struct {
	orchestrator *retrieval.Orchestrator
	assembler    *response.Assembler
}

// NewChatHandler builds the chat handler.
func NewChatHandler(orchestrator *retrieval.Orchestrator, assembler *response.Assembler) *ChatHandler {
	return &ChatHandler{orchestrator: orchestrator, assembler: assembler}
}

// Query handles POST /v1/chat/query.
func (h *ChatHandler) Query(c *gin.Context) {
	var req dto.ChatQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.FromAppError(c, errors.New(errors.CodeMalformedQuery, "query text is unusable").WithDetail(err.Error()))
		return
	}
	if len(req.Question) > maxQuestionLength {
		dto.FromAppError(c, errors.New(errors.CodeMalformedQuery, "question is too long"))
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	res, err := h.orchestrator.Retrieve(ctx, strings.TrimSpace(req.Question), retrieval.Options{
		Limit:           req.Limit,
		TopK:            req.TopK,
		ConfirmedExport: req.ConfirmExport,
	})
	if err != nil {
		logger.Error(ctx, "retrieval failed", err, "question_len", len(req.Question))
		dto.FromAppError(c, err)
		return
	}

	answer := h.assembler.Assemble(res, response.Audience(req.Audience))

	queryType := string(res.Classification.Type)
	metrics.ChatQueriesTotal.WithLabelValues(queryType, string(res.Band)).Inc()
	metrics.ChatQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())

	dto.Success(c, dto.ChatQueryResponse{
		Answer:       answer,
		ProcessingMS: time.Since(start).Milliseconds(),
	})
}
