package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/safar/inventory-api/internal/apperr"
	"github.com/safar/inventory-api/internal/models"
	"github.com/safar/inventory-api/internal/store"
	"github.com/shopspring/decimal"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func (r categoryRequest) input() store.CategoryInput {
	return store.CategoryInput{Name: strings.TrimSpace(r.Name), Description: r.Description}
}

// maxPrice is the exclusive upper bound of a NUMERIC(12, 2) price column.
var maxPrice = decimal.New(1, 10)

// productRequest is shared by create and update; create additionally
// requires a positive stock quantity.
type productRequest struct {
	Name          string          `json:"name" validate:"required"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity" validate:"gte=0,lte=2147483647"`
	ImageURL      *string         `json:"image_url"`
	CategoryID    uuid.UUID       `json:"category_id"`
}

func (r productRequest) validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Price.IsPositive() {
		return apperr.Validation("price must be greater than zero")
	}
	if !r.Price.Equal(r.Price.Truncate(2)) {
		return apperr.Validation("price must have at most 2 decimal places")
	}
	if r.Price.GreaterThanOrEqual(maxPrice) {
		return apperr.Validation("price must be less than %s", maxPrice)
	}
	if r.CategoryID == uuid.Nil {
		return apperr.Validation("category_id is required")
	}
	return nil
}

func (r productRequest) input() store.ProductInput {
	return store.ProductInput{
		Name:          strings.TrimSpace(r.Name),
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		ImageURL:      r.ImageURL,
		CategoryID:    r.CategoryID,
	}
}

type transactionRequest struct {
	Type        models.TransactionType `json:"type" validate:"required,oneof=entry exit"`
	Quantity    int                    `json:"quantity" validate:"gt=0,lte=2147483647"`
	Description *string                `json:"description"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags and turns the first failure into a
// validation error naming the JSON field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Validation("invalid request")
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.Validation("%s is required", fe.Field())
	case "email":
		return apperr.Validation("%s must be a valid email address", fe.Field())
	case "gt":
		return apperr.Validation("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return apperr.Validation("%s must be at least %s", fe.Field(), fe.Param())
	case "lte":
		return apperr.Validation("%s must be at most %s", fe.Field(), fe.Param())
	case "max":
		return apperr.Validation("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return apperr.Validation("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return apperr.Validation("%s is invalid", fe.Field())
	}
}

func pageFromQuery(r *http.Request) (store.Page, error) {
	q := r.URL.Query()

	skip, err := intParam(q.Get("skip"), 0)
	if err != nil {
		return store.Page{}, apperr.Validation("skip must be an integer")
	}
	limit, err := intParam(q.Get("limit"), store.DefaultLimit)
	if err != nil {
		return store.Page{}, apperr.Validation("limit must be an integer")
	}

	return store.NewPage(skip, limit)
}

func intParam(raw string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}

// pathID parses a UUID path value. An id that is not a UUID cannot name an
// existing entity, so it reports notFound.
func pathID(r *http.Request, name string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}

func methodNotAllowedMessage(method string) string {
	return fmt.Sprintf("method %s not allowed", method)
}
