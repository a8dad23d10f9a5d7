package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/origenapp/origen-core/internal/gateway"
	"github.com/origenapp/origen-core/internal/origen"
	"github.com/origenapp/origen-core/internal/store"
)

// StoreHandler exposes the state core to the UI layer. It is a thin
// mapping: no business rules live here.
type StoreHandler struct {
	Store *store.Store
}

func (h *StoreHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.addProduct)
	r.Delete("/products/{code}", h.removeProduct)
	r.Put("/products/price", h.updateGlobalPrice)
	r.Get("/stock/{code}", h.getStock)
	r.Get("/stock/alerts", h.lowStock)

	r.Get("/movements", h.listMovements)
	r.Post("/movements", h.addMovement)

	r.Get("/baptisms", h.listBaptisms)
	r.Post("/baptisms", h.addBaptism)
	r.Put("/baptisms/{id}", h.editBaptism)
	r.Put("/baptisms/{id}/status", h.updateBaptismStatus)
	r.Delete("/baptisms/{id}", h.removeBaptism)

	r.Get("/presentations", h.listPresentations)
	r.Post("/presentations", h.addPresentation)
	r.Put("/presentations/{id}", h.editPresentation)
	r.Put("/presentations/{id}/status", h.updatePresentationStatus)
	r.Delete("/presentations/{id}", h.removePresentation)

	r.Get("/loans", h.listLoans)
	r.Post("/loans", h.addLoan)
	r.Put("/loans/{id}/status", h.updateLoanStatus)
	r.Delete("/loans/{id}", h.removeLoan)

	r.Get("/events", h.listEvents)
	r.Post("/events", h.addEvent)
	r.Put("/events/{id}", h.editEvent)
	r.Delete("/events/{id}", h.removeEvent)

	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.updateSettings)
	r.Get("/settings/status", h.settingsStatus)

	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/session", h.session)
	r.Post("/register", h.register)

	r.Get("/status", h.status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserExists), errors.Is(err, store.ErrAdminLimit):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, gateway.ErrSchemaMissing):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
}

func reqCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 5*time.Second)
}

// --- products -----------------------------------------------------------

func (h *StoreHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Products())
}

func (h *StoreHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	var p origen.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if p.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing code"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.AddProduct(ctx, p); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *StoreHandler) removeProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.RemoveProduct(ctx, chi.URLParam(r, "code")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) updateGlobalPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type  origen.ProductType `json:"type"`
		Price float64            `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.UpdateGlobalPrice(ctx, req.Type, req.Price); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) getStock(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	writeJSON(w, http.StatusOK, map[string]any{"code": code, "stock": h.Store.Stock(code)})
}

func (h *StoreHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.LowStockProducts())
}

// --- movements ----------------------------------------------------------

func (h *StoreHandler) listMovements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Movements())
}

func (h *StoreHandler) addMovement(w http.ResponseWriter, r *http.Request) {
	var m origen.Movement
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if m.Code == "" || m.Quantity == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.AddMovement(ctx, m); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// --- baptisms -----------------------------------------------------------

func (h *StoreHandler) listBaptisms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Baptisms())
}

func (h *StoreHandler) addBaptism(w http.ResponseWriter, r *http.Request) {
	var b origen.Baptism
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.AddBaptism(ctx, b); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *StoreHandler) editBaptism(w http.ResponseWriter, r *http.Request) {
	var b origen.Baptism
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	b.ID = chi.URLParam(r, "id")
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.EditBaptism(ctx, b); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

type statusReq struct {
	Status origen.PendingStatus `json:"status"`
}

func (h *StoreHandler) updateBaptismStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.UpdateBaptismStatus(ctx, chi.URLParam(r, "id"), req.Status); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) removeBaptism(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.RemoveBaptism(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- presentations ------------------------------------------------------

func (h *StoreHandler) listPresentations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Presentations())
}

func (h *StoreHandler) addPresentation(w http.ResponseWriter, r *http.Request) {
	var p origen.Presentation
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.AddPresentation(ctx, p); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *StoreHandler) editPresentation(w http.ResponseWriter, r *http.Request) {
	var p origen.Presentation
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	p.ID = chi.URLParam(r, "id")
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.EditPresentation(ctx, p); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *StoreHandler) updatePresentationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.UpdatePresentationStatus(ctx, chi.URLParam(r, "id"), req.Status); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) removePresentation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.RemovePresentation(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- loans --------------------------------------------------------------

func (h *StoreHandler) listLoans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Loans())
}

func (h *StoreHandler) addLoan(w http.ResponseWriter, r *http.Request) {
	var l origen.Loan
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.AddLoan(ctx, l); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *StoreHandler) updateLoanStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.UpdateLoanStatus(ctx, chi.URLParam(r, "id"), req.Status); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) removeLoan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.RemoveLoan(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- events -------------------------------------------------------------

func (h *StoreHandler) listEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Events())
}

func (h *StoreHandler) addEvent(w http.ResponseWriter, r *http.Request) {
	var e origen.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.AddEvent(ctx, e); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *StoreHandler) editEvent(w http.ResponseWriter, r *http.Request) {
	var e origen.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	e.ID = chi.URLParam(r, "id")
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.EditEvent(ctx, e); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *StoreHandler) removeEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := reqCtx(r)
	defer cancel()
	if err := h.Store.RemoveEvent(ctx, chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- settings -----------------------------------------------------------

func (h *StoreHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Settings())
}

// updateSettings returns immediately: the persisted write happens behind
// the debounce window, its outcome is visible on /settings/status.
//
// The body decodes over a copy of the live record, so a partial edit
// touches only the fields (and module keys) it names and everything else
// keeps its current value.
func (h *StoreHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	s := h.Store.Settings()
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	h.Store.UpdateSettings(s)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": string(h.Store.SaveStatus())})
}

func (h *StoreHandler) settingsStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(h.Store.SaveStatus())})
}

// --- session ------------------------------------------------------------

func (h *StoreHandler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	ok, err := h.Store.Login(ctx, req.Username, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, h.Store.CurrentUser())
}

func (h *StoreHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.Store.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (h *StoreHandler) session(w http.ResponseWriter, r *http.Request) {
	u := h.Store.CurrentUser()
	if u == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no session"})
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *StoreHandler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string      `json:"username"`
		Password string      `json:"password"`
		Role     origen.Role `json:"role"`
		FullName string      `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}
	ctx, cancel := reqCtx(r)
	defer cancel()
	u := origen.User{Username: req.Username, Role: req.Role, FullName: req.FullName}
	if err := h.Store.Register(ctx, u, req.Password); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// --- status -------------------------------------------------------------

func (h *StoreHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"loading":  h.Store.Loading(),
		"degraded": h.Store.Degraded(),
		"theme":    h.Store.Theme(),
	})
}
