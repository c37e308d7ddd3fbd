package api

import (
	"net/http"

	"github.com/safar/inventory-api/internal/database"
	"github.com/safar/inventory-api/internal/store"
)

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	category, err := store.CreateCategory(r.Context(), s.db, req.input())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	categories, err := store.ListCategories(r.Context(), s.db, page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", database.ErrCategoryNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	category, err := store.GetCategory(r.Context(), s.db, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", database.ErrCategoryNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req categoryRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		s.respondError(w, r, err)
		return
	}

	category, err := store.UpdateCategory(r.Context(), s.db, id, req.input())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", database.ErrCategoryNotFound)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	category, err := store.DeleteCategory(r.Context(), s.db, id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, category)
}
