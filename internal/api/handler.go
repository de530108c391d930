// Package api exposes the classifier and the transaction history over HTTP
// for the device-side SMS receiver.
package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"paidfor/internal/logging"
	"paidfor/internal/models"
	"paidfor/internal/notify"
	"paidfor/internal/parser"
	"paidfor/internal/store"
)

// TransactionStore is the read/edit side of store.Store.
type TransactionStore interface {
	Get(ctx context.Context, id string) (models.Transaction, error)
	Update(ctx context.Context, id string, patch store.Patch) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string, amount decimal.Decimal) ([]models.Transaction, error)
}

// Server wires the HTTP routes.
type Server struct {
	app     *fiber.App
	handler *notify.Handler
	store   TransactionStore
	logger  logging.Logger
	now     func() time.Time
}

// ClassifyResponse is returned by /api/classify.
type ClassifyResponse struct {
	Outcome     string                    `json:"outcome"`
	Transaction *models.ParsedTransaction `json:"transaction"`
}

// IngestResponse is returned by /api/sms when a debit was stored.
type IngestResponse struct {
	Transaction models.Transaction `json:"transaction"`
	Notified    bool               `json:"notified"`
	Reason      string             `json:"reason,omitempty"`
}

// ListResponse is returned by /api/transactions.
type ListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Count        int                  `json:"count"`
}

type patchRequest struct {
	Note     *string `json:"note"`
	Category *string `json:"category"`
}

// New creates a Server with all routes registered.
func New(handler *notify.Handler, st TransactionStore, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		handler: handler,
		store:   st,
		logger:  logger,
		now:     time.Now,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "paidfor",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	s.app.Get("/api/health", s.handleHealth)
	s.app.Post("/api/classify", s.handleClassify)
	s.app.Post("/api/sms", s.handleSMS)
	s.app.Get("/api/transactions", s.handleList)
	s.app.Get("/api/transactions/:id", s.handleGet)
	s.app.Patch("/api/transactions/:id", s.handlePatch)
	s.app.Delete("/api/transactions/:id", s.handleDelete)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("Listening", logging.F(logging.FieldAddr, addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, store.ErrNotFound):
		code = fiber.StatusNotFound
	}

	if code >= fiber.StatusInternalServerError {
		s.logger.WithError(err).Error("Request failed", logging.F(logging.FieldPath, c.Path()))
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) readMessage(c *fiber.Ctx) (models.RawMessage, error) {
	var msg models.RawMessage
	if err := c.BodyParser(&msg); err != nil {
		return msg, fiber.NewError(fiber.StatusBadRequest, "invalid message body: "+err.Error())
	}
	if msg.ReceivedAt == 0 {
		msg.ReceivedAt = s.now().UnixMilli()
	}
	return msg, nil
}

func (s *Server) handleClassify(c *fiber.Ctx) error {
	msg, err := s.readMessage(c)
	if err != nil {
		return err
	}

	tx, outcome := parser.Evaluate(msg)
	resp := ClassifyResponse{Outcome: outcome.String()}
	if outcome == parser.OutcomeTransaction {
		resp.Transaction = &tx
	}
	return c.JSON(resp)
}

func (s *Server) handleSMS(c *fiber.Ctx) error {
	msg, err := s.readMessage(c)
	if err != nil {
		return err
	}

	parsed, outcome := parser.Evaluate(msg)
	if outcome != parser.OutcomeTransaction {
		s.logger.Debug("Ignored message",
			logging.F(logging.FieldSender, msg.Sender),
			logging.F(logging.FieldOutcome, outcome.String()))
		return c.SendStatus(fiber.StatusNoContent)
	}

	res, err := s.handler.Handle(c.UserContext(), parsed)
	if err != nil && res.Transaction.ID == "" {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(IngestResponse{
		Transaction: res.Transaction,
		Notified:    res.Notified,
		Reason:      res.Reason,
	})
}

func (s *Server) handleList(c *fiber.Ctx) error {
	amount := decimal.Zero
	if raw := strings.TrimSpace(c.Query("amount")); raw != "" {
		var err error
		amount, err = decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid amount: "+raw)
		}
	}

	txs, err := s.store.Search(c.UserContext(), c.Query("q"), amount)
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return c.JSON(ListResponse{Transactions: txs, Count: len(txs)})
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	tx, err := s.store.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(tx)
}

func (s *Server) handlePatch(c *fiber.Ctx) error {
	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid patch body: "+err.Error())
	}

	patch := store.Patch{Note: req.Note}
	if req.Category != nil {
		cat, err := models.ParseCategory(*req.Category)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		patch.Category = &cat
	}

	tx, err := s.store.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(tx)
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	if err := s.store.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
