package httpapi

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/romeuwb/pedelogo-78-sub001/internal/analytics"
	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/lifecycle"
	"github.com/romeuwb/pedelogo-78-sub001/internal/realtime"
	"github.com/romeuwb/pedelogo-78-sub001/internal/service"
)

type Handler struct {
	Orders service.OrderServiceInterface
	Print  service.PrintServiceInterface
	Stats  analytics.StatsReaderInterface
}

func NewHandler(orders service.OrderServiceInterface, print service.PrintServiceInterface, stats analytics.StatsReaderInterface) *Handler {
	return &Handler{Orders: orders, Print: print, Stats: stats}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/orders", h.checkout).Methods("POST")
	r.HandleFunc("/api/orders/claimable", h.listClaimable).Methods("GET")
	r.HandleFunc("/api/orders/{id}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id}/advance", h.restaurantAdvance).Methods("POST")
	r.HandleFunc("/api/orders/{id}/claim", h.claimOrder).Methods("POST")
	r.HandleFunc("/api/orders/{id}/courier-status", h.advanceCourierStatus).Methods("POST")
	r.HandleFunc("/api/orders/{id}/delivery-confirmation", h.confirmDelivery).Methods("POST")
	r.HandleFunc("/api/orders/{id}/cancel", h.cancelOrder).Methods("POST")

	r.HandleFunc("/api/couriers/availability", h.setAvailability).Methods("POST")

	r.HandleFunc("/api/restaurants/{restaurantId}/print-jobs", h.createPrintJob).Methods("POST")
	r.HandleFunc("/api/restaurants/{restaurantId}/printer/test", h.testPrint).Methods("POST")
	r.HandleFunc("/api/restaurants/{restaurantId}/printer/status", h.printerStatus).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/printers", h.listPrinters).Methods("GET")
	r.HandleFunc("/api/restaurants/{restaurantId}/stats", h.restaurantStats).Methods("GET")
	r.HandleFunc("/api/print-jobs/{id}/retry", h.retryPrintJob).Methods("POST")
}

// actor identity and role come from the auth collaborator, injected as
// headers by the edge; the core trusts them as-is.
func actor(r *http.Request) (lifecycle.Role, int64) {
	role := lifecycle.Role(r.Header.Get("X-User-Role"))
	id, _ := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	return role, id
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyClaimed):
		// expected under load; the app shows "pedido já foi aceito"
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrStaleState):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrInvalidConfirmationCode):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrCourierUnavailable), errors.Is(err, service.ErrNotOrderOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrPaymentPending):
		http.Error(w, err.Error(), http.StatusPaymentRequired)
	case errors.Is(err, service.ErrRetriesExhausted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, realtime.ErrChannelUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, sql.ErrNoRows), errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrJobNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// redact hides the confirmation code from everyone but the client who will
// recite it at hand-off. Claiming the client role is not enough; the actor
// must be the client the order belongs to.
func redact(o *domain.Order, role lifecycle.Role, actorID int64) *domain.Order {
	if role == lifecycle.RoleSystem || (role == lifecycle.RoleClient && actorID == o.ClientID) {
		return o
	}
	copy := *o
	copy.ConfirmationCode = ""
	return &copy
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "order-core"})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req service.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, actorID := actor(r)
	if req.ClientID == 0 {
		req.ClientID = actorID
	}
	result, err := h.Orders.Checkout(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	role, actorID := actor(r)
	o, err := h.Orders.GetOrder(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(o, role, actorID))
}

func (h *Handler) listClaimable(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListClaimable(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) restaurantAdvance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Next domain.OrderStatus `json:"next"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role, actorID := actor(r)
	o, err := h.Orders.RestaurantAdvance(r.Context(), pathID(r, "id"), role, actorID, req.Next)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(o, role, actorID))
}

func (h *Handler) claimOrder(w http.ResponseWriter, r *http.Request) {
	role, courierID := actor(r)
	o, err := h.Orders.ClaimOrder(r.Context(), pathID(r, "id"), courierID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(o, role, courierID))
}

func (h *Handler) advanceCourierStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Expected domain.OrderStatus `json:"expected"`
		Next     domain.OrderStatus `json:"next"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role, courierID := actor(r)
	o, err := h.Orders.AdvanceCourierStatus(r.Context(), pathID(r, "id"), courierID, req.Expected, req.Next)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(o, role, courierID))
}

func (h *Handler) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role, courierID := actor(r)
	o, err := h.Orders.ConfirmDelivery(r.Context(), pathID(r, "id"), courierID, req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(o, role, courierID))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	role, actorID := actor(r)
	o, err := h.Orders.CancelOrder(r.Context(), pathID(r, "id"), role, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redact(o, role, actorID))
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Online    bool     `json:"online"`
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, courierID := actor(r)
	if err := h.Orders.SetCourierAvailability(r.Context(), courierID, req.Online, req.Latitude, req.Longitude); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"online": req.Online})
}

func (h *Handler) createPrintJob(w http.ResponseWriter, r *http.Request) {
	var job domain.PrintJob
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	job.RestaurantID = pathID(r, "restaurantId")
	created, err := h.Print.Dispatch(r.Context(), &job)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) testPrint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PrinterID *int64 `json:"printer_id,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	job, err := h.Print.TestPrint(r.Context(), pathID(r, "restaurantId"), req.PrinterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *Handler) printerStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Print.ConnectionStatus(r.Context(), pathID(r, "restaurantId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

func (h *Handler) listPrinters(w http.ResponseWriter, r *http.Request) {
	printers, err := h.Print.Printers(r.Context(), pathID(r, "restaurantId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, printers)
}

func (h *Handler) restaurantStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.RestaurantStats(r.Context(), pathID(r, "restaurantId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) retryPrintJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Print.Retry(r.Context(), pathID(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
