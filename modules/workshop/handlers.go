package workshop

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wickandflame/wickandflame/core"
	"github.com/wickandflame/wickandflame/pkg/label"
	"github.com/wickandflame/wickandflame/pkg/subscription"
)

// business resolves the caller's tenant. Returns nil after writing the
// error response.
func (m *Module) business(w http.ResponseWriter, r *http.Request) *subscription.Business {
	userID, ok := subscription.UserIDFromContext(r.Context())
	if !ok {
		core.Error(w, core.ErrUnauthorized)
		return nil
	}
	biz, err := m.businesses.ByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, subscription.ErrBusinessNotFound) {
			core.Error(w, core.ErrNotFound)
			return nil
		}
		core.Error(w, err)
		return nil
	}
	return biz
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		core.Error(w, core.ErrBadRequest)
		return false
	}
	return true
}

type createRecipeRequest struct {
	Name          string  `json:"name"`
	WaxType       string  `json:"wax_type"`
	FragranceLoad float64 `json:"fragrance_load"`
	Notes         string  `json:"notes"`
}

func (m *Module) createRecipe(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}

	var req createRecipeRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.FragranceLoad < 0 || req.FragranceLoad > 100 {
		core.Error(w, core.ErrUnprocessableEntity)
		return
	}

	recipe := &Recipe{
		ID:            uuid.New(),
		BusinessID:    biz.ID,
		Name:          strings.TrimSpace(req.Name),
		WaxType:       req.WaxType,
		FragranceLoad: req.FragranceLoad,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
	}
	if err := m.store.CreateRecipe(r.Context(), recipe); err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, recipe)
}

func (m *Module) listRecipes(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}
	recipes, err := m.store.ListRecipes(r.Context(), biz.ID)
	if err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusOK, recipes)
}

type createProductRequest struct {
	RecipeID   *uuid.UUID `json:"recipe_id"`
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	PriceCents int64      `json:"price_cents"`
}

func (m *Module) createProduct(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}

	var req createProductRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.PriceCents < 0 {
		core.Error(w, core.ErrUnprocessableEntity)
		return
	}

	product := &Product{
		ID:         uuid.New(),
		BusinessID: biz.ID,
		RecipeID:   req.RecipeID,
		Name:       strings.TrimSpace(req.Name),
		SKU:        req.SKU,
		PriceCents: req.PriceCents,
		CreatedAt:  time.Now(),
	}
	if err := m.store.CreateProduct(r.Context(), product); err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, product)
}

func (m *Module) listProducts(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}
	products, err := m.store.ListProducts(r.Context(), biz.ID)
	if err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusOK, products)
}

// productLabel renders a QR code PNG pointing at the product's public page,
// sized for jar-bottom stickers.
func (m *Module) productLabel(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, core.ErrBadRequest)
		return
	}

	product, err := m.store.GetProduct(r.Context(), biz.ID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			core.Error(w, core.ErrNotFound)
			return
		}
		core.Error(w, err)
		return
	}

	url := strings.TrimRight(m.cfg.LabelBaseURL, "/") + "/" + product.ID.String()
	png, err := label.QR(url, label.DefaultSize)
	if err != nil {
		core.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

type createCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (m *Module) createCustomer(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}

	var req createCustomerRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		core.Error(w, core.ErrUnprocessableEntity)
		return
	}

	customer := &Customer{
		ID:         uuid.New(),
		BusinessID: biz.ID,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		CreatedAt:  time.Now(),
	}
	if err := m.store.CreateCustomer(r.Context(), customer); err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, customer)
}

func (m *Module) listCustomers(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}
	customers, err := m.store.ListCustomers(r.Context(), biz.ID)
	if err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusOK, customers)
}

type createOrderRequest struct {
	CustomerID uuid.UUID `json:"customer_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Quantity   int64     `json:"quantity"`
	TotalCents int64     `json:"total_cents"`
}

func (m *Module) createOrder(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}

	var req createOrderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CustomerID == uuid.Nil || req.ProductID == uuid.Nil || req.Quantity < 1 || req.TotalCents < 0 {
		core.Error(w, core.ErrUnprocessableEntity)
		return
	}

	order := &Order{
		ID:         uuid.New(),
		BusinessID: biz.ID,
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalCents: req.TotalCents,
		CreatedAt:  time.Now(),
	}
	if err := m.store.CreateOrder(r.Context(), order); err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, order)
}

func (m *Module) listOrders(w http.ResponseWriter, r *http.Request) {
	biz := m.business(w, r)
	if biz == nil {
		return
	}
	orders, err := m.store.ListOrders(r.Context(), biz.ID)
	if err != nil {
		core.Error(w, err)
		return
	}
	core.JSON(w, http.StatusOK, orders)
}
