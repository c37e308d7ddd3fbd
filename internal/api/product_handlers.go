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

// invalidCategory reports an unknown category_id in a product body as bad
// input rather than a missing resource.
func invalidCategory(err error) error {
	if errors.Is(err, database.ErrCategoryNotFound) {
		return apperr.Validation("category not found")
	}
	return err
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		s.respondError(w, r, auth.ErrInvalidToken)
		return
	}

	var req productRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.StockQuantity <= 0 {
		s.respondError(w, r, apperr.Validation("stock_quantity must be greater than 0"))
		return
	}

	product, err := store.CreateProduct(r.Context(), s.db, req.input(), user.ID)
	if err != nil {
		s.respondError(w, r, invalidCategory(err))
		return
	}

	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	products, err := store.ListProducts(r.Context(), s.db, page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", database.ErrProductNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	product, err := store.GetProduct(r.Context(), s.db, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", database.ErrProductNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req productRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		s.respondError(w, r, err)
		return
	}

	product, err := store.UpdateProduct(r.Context(), s.db, id, req.input())
	if err != nil {
		s.respondError(w, r, invalidCategory(err))
		return
	}

	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", database.ErrProductNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	product, err := store.DeleteProduct(r.Context(), s.db, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "product deleted", slog.String("product_id", product.ID.String()))
	s.respondJSON(w, http.StatusOK, product)
}
