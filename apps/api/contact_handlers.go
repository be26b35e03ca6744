package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	contactRoute       = "/api/contact"
	maxContactBodySize = 64 << 10

	errCodeValidation     = "ValidationError"
	errCodeMisconfigured  = "ServerMisconfigured"
	errCodeLeadSendFailed = "EmailSendFailed:lead"
	errCodeServerError    = "ServerError"
)

type contactIDs struct {
	Lead    *string `json:"lead"`
	Confirm *string `json:"confirm"`
}

type contactResponse struct {
	OK      bool               `json:"ok"`
	Error   string             `json:"error,omitempty"`
	Details *ValidationDetails `json:"details,omitempty"`
	IDs     *contactIDs        `json:"ids,omitempty"`
}

func (a *App) contactHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodySize)
	raw, err := c.GetRawData()
	if err != nil {
		a.log.Warn("contact body unreadable, treating as empty", "err", err)
		raw = nil
	}

	sub, verr := parseContactSubmission(raw)
	if verr != nil {
		recordContactOutcome(outcomeInvalid)
		c.JSON(http.StatusBadRequest, contactResponse{OK: false, Error: errCodeValidation, Details: &verr.Details})
		return
	}

	if sub.IsSpam() {
		recordContactOutcome(outcomeSpam)
		a.log.Info("contact honeypot triggered", "ip", c.ClientIP())
		c.JSON(http.StatusOK, contactResponse{OK: true})
		return
	}

	result, err := a.dispatcher.Dispatch(c.Request.Context(), sub)
	if err != nil {
		outcome, apiErr := classifyDispatchError(err)
		recordContactOutcome(outcome)
		if outcome == outcomeError {
			a.log.Error("contact dispatch failed", "err", err)
		}
		writeAPIError(c, apiErr)
		return
	}

	if result.ConfirmationID == nil {
		recordContactOutcome(outcomeConfirmFailed)
	} else {
		recordContactOutcome(outcomeSent)
	}

	leadID := result.LeadID
	c.JSON(http.StatusOK, contactResponse{
		OK:  true,
		IDs: &contactIDs{Lead: &leadID, Confirm: result.ConfirmationID},
	})
}

func classifyDispatchError(err error) (string, *apiError) {
	if errors.Is(err, ErrServerMisconfigured) {
		return outcomeMisconfigured, &apiError{Status: http.StatusInternalServerError, Code: errCodeMisconfigured, Message: err.Error()}
	}
	var sendErr *SendError
	if errors.As(err, &sendErr) && sendErr.Stage == sendStageLead {
		return outcomeLeadFailed, &apiError{Status: http.StatusBadGateway, Code: errCodeLeadSendFailed, Message: err.Error()}
	}
	return outcomeError, &apiError{Status: http.StatusInternalServerError, Code: errCodeServerError, Message: err.Error()}
}
