package dto

import (
	"github.com/ahermangesh/floatchat/internal/application/response"
)

// ChatQueryRequest is the natural-language query payload.
type ChatQueryRequest struct {
	Question string `json:"question" binding:"required"`
	// Audience selects formatting only: "general" or "researcher".
	Audience string `json:"audience,omitempty"`
	// TopK overrides the vector candidate count, within server bounds.
	TopK int `json:"top_k,omitempty"`
	// Limit caps structured rows; values above the normal cap require
	// ConfirmExport.
	Limit         int  `json:"limit,omitempty"`
	ConfirmExport bool `json:"confirm_export,omitempty"`
}

// ChatQueryResponse is the assembled answer.
type ChatQueryResponse struct {
	Answer       *response.Answer `json:"answer"`
	ProcessingMS int64            `json:"processing_ms"`
}
