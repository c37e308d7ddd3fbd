package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/safar/inventory-api/internal/apperr"
	"github.com/safar/inventory-api/internal/auth"
	"github.com/safar/inventory-api/internal/database"
	"github.com/safar/inventory-api/internal/store"
)

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, r, auth.ErrInvalidToken)
		return
	}

	productID, err := pathID(r, "id", apperr.Validation("product not found"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req transactionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	txn, err := store.RecordTransaction(r.Context(), s.db, store.RecordTransactionRequest{
		ProductID:   productID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Description: req.Description,
		ActorID:     user.ID,
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrProductNotFound):
			err = apperr.Validation("product not found")
		case errors.Is(err, database.ErrInsufficientStock):
			s.logger.WarnContext(r.Context(), "stock exit rejected",
				slog.String("product_id", productID.String()),
				slog.Int("quantity", req.Quantity),
			)
		}
		s.respondError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "stock movement recorded",
		slog.String("product_id", productID.String()),
		slog.String("type", string(txn.Type)),
		slog.Int("quantity", txn.Quantity),
	)
	s.respondJSON(w, http.StatusOK, txn)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id", database.ErrProductNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	page, err := pageFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	txns, err := store.ListTransactions(r.Context(), s.db, productID, page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, txns)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id", database.ErrTransactionNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	txnID, err := pathID(r, "tid", database.ErrTransactionNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	txn, err := store.GetTransaction(r.Context(), s.db, productID, txnID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, txn)
}
