package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/eaglebank/ledger-service/internal/apperr"
	"github.com/eaglebank/ledger-service/internal/cqrs"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Ledger is the contract LedgerHandler serves over HTTP.
type Ledger interface {
	AddAccount(context.Context, cqrs.AddAccountCommand) (*models.Account, error)
	ListAccounts(context.Context) ([]models.Account, error)
	UpdateAccount(context.Context, cqrs.UpdateAccountCommand) (*models.Account, error)
	DeleteAccount(context.Context, cqrs.DeleteAccountCommand) (*models.Account, error)
	AddTransfer(context.Context, cqrs.AddTransferCommand) (*models.Transfer, error)
	ListTransfers(context.Context) ([]models.TransferView, error)
}

type LedgerHandler struct {
	ledger Ledger
}

// Balance and amounts are accepted as JSON numbers or strings.
type CreateAccountRequest struct {
	Name    string           `json:"nombre"`
	Balance *decimal.Decimal `json:"balance"`
}

type UpdateAccountRequest struct {
	OriginalName string           `json:"originalName" validate:"required"`
	NewName      string           `json:"newName"`
	Balance      *decimal.Decimal `json:"balance"`
}

type CreateTransferRequest struct {
	Sender   string           `json:"emisor" validate:"required"`
	Receiver string           `json:"receptor" validate:"required"`
	Amount   *decimal.Decimal `json:"monto" validate:"required"`
}

func NewLedgerHandler(ledger Ledger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/usuario", h.AddAccount)
	r.GET("/usuarios", h.ListAccounts)
	r.PUT("/usuario", h.UpdateAccount)
	r.DELETE("/usuario", h.DeleteAccount)
	r.POST("/transferencia", h.AddTransfer)
	r.GET("/transferencias", h.ListTransfers)
}

func (h *LedgerHandler) AddAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithAppError(c, apperr.Validation("Invalid request body"))
		return
	}

	account, err := h.ledger.AddAccount(c.Request.Context(), cqrs.AddAccountCommand{
		Name:    req.Name,
		Balance: req.Balance,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.ledger.ListAccounts(c.Request.Context())
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *LedgerHandler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithAppError(c, apperr.Validation("Invalid request body"))
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.ledger.UpdateAccount(c.Request.Context(), cqrs.UpdateAccountCommand{
		OriginalName: req.OriginalName,
		NewName:      req.NewName,
		Balance:      req.Balance,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	if account == nil {
		middleware.RespondWithAppError(c, apperr.NotFound("Account %s not found", req.OriginalName))
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *LedgerHandler) DeleteAccount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Query("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.RespondWithAppError(c, apperr.Validation("Account id must be a positive integer"))
		return
	}

	account, err := h.ledger.DeleteAccount(c.Request.Context(), cqrs.DeleteAccountCommand{ID: id})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	if account == nil {
		middleware.RespondWithAppError(c, apperr.NotFound("Account %d not found", id))
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *LedgerHandler) AddTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithAppError(c, apperr.Validation("Invalid request body"))
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	transfer, err := h.ledger.AddTransfer(c.Request.Context(), cqrs.AddTransferCommand{
		SenderName:   req.Sender,
		ReceiverName: req.Receiver,
		Amount:       *req.Amount,
	})
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

func (h *LedgerHandler) ListTransfers(c *gin.Context) {
	transfers, err := h.ledger.ListTransfers(c.Request.Context())
	if err != nil {
		middleware.RespondWithAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, transfers)
}
