package premium

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/healthsure/dlt-insurance/pkg/logger"
	"github.com/healthsure/dlt-insurance/pkg/types"
)

// Handlers handles HTTP requests for the premium service
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates new HTTP handlers
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes registers HTTP routes
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/profiles", h.CreateHealthProfile).Methods("POST")
	api.HandleFunc("/profiles/lifestyle", h.UpdateLifestyleMetrics).Methods("PUT")

	api.HandleFunc("/policies", h.CreatePolicy).Methods("POST")
	api.HandleFunc("/policies/{policyID}", h.GetPolicy).Methods("GET")
	api.HandleFunc("/policies/{policyID}", h.CancelPolicy).Methods("DELETE")
	api.HandleFunc("/policies/{policyID}/payments", h.PayPremium).Methods("POST")
	api.HandleFunc("/policies/{policyID}/assessments", h.AssessPolicy).Methods("POST")
	api.HandleFunc("/policies/{policyID}/assessments", h.GetAssessmentHistory).Methods("GET")
	api.HandleFunc("/policies/{policyID}/adjustments", h.GetAdjustmentHistory).Methods("GET")

	api.HandleFunc("/stats", h.GetPlatformStats).Methods("GET")
}

// CreateHealthProfile handles health profile creation
func (h *Handlers) CreateHealthProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	var req types.HealthProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	if err := h.service.CreateHealthProfile(r.Context(), claims.HolderID, &req); err != nil {
		h.writeServiceError(w, err, "profile_creation_failed")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"message": "Health profile recorded"})
}

// UpdateLifestyleMetrics handles lifestyle metrics updates
func (h *Handlers) UpdateLifestyleMetrics(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	var req types.LifestyleMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	if err := h.service.UpdateLifestyleMetrics(r.Context(), claims.HolderID, &req); err != nil {
		h.writeServiceError(w, err, "lifestyle_update_failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Lifestyle metrics recorded"})
}

// CreatePolicy handles policy creation
func (h *Handlers) CreatePolicy(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	policyID, err := h.service.CreatePolicy(r.Context(), claims.HolderID)
	if err != nil {
		h.writeServiceError(w, err, "policy_creation_failed")
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{"policy_id": policyID})
}

// GetPolicy handles policy retrieval
func (h *Handlers) GetPolicy(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	policyID, ok := h.policyID(w, r)
	if !ok {
		return
	}

	policy, err := h.service.GetPolicy(r.Context(), claims.HolderID, policyID)
	if err != nil {
		h.writeServiceError(w, err, "policy_retrieval_failed")
		return
	}

	h.writeJSON(w, http.StatusOK, policy)
}

// CancelPolicy handles policy cancellation
func (h *Handlers) CancelPolicy(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	policyID, ok := h.policyID(w, r)
	if !ok {
		return
	}

	if err := h.service.CancelPolicy(r.Context(), claims.HolderID, policyID); err != nil {
		h.writeServiceError(w, err, "policy_cancellation_failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Policy cancelled"})
}

// PayPremium handles premium payments
func (h *Handlers) PayPremium(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	policyID, ok := h.policyID(w, r)
	if !ok {
		return
	}

	if err := h.service.PayPremium(r.Context(), claims.HolderID, policyID); err != nil {
		h.writeServiceError(w, err, "payment_failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Premium paid"})
}

// AssessPolicy handles risk assessment and premium optimization
func (h *Handlers) AssessPolicy(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	policyID, ok := h.policyID(w, r)
	if !ok {
		return
	}

	var req types.AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return
	}

	report, err := h.service.AssessPolicy(r.Context(), claims.HolderID, policyID, &req)
	if err != nil {
		h.writeServiceError(w, err, "assessment_failed")
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

// GetAssessmentHistory handles assessment history retrieval from the read
// model.
func (h *Handlers) GetAssessmentHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := ClaimsFromContext(r.Context()); !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	policyID, ok := h.policyID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.writeError(w, http.StatusBadRequest, "validation_error", "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	assessments, err := h.service.GetAssessmentHistory(r.Context(), policyID, limit)
	if err != nil {
		h.writeServiceError(w, err, "history_retrieval_failed")
		return
	}

	h.writeJSON(w, http.StatusOK, assessments)
}

// GetAdjustmentHistory handles on-chain adjustment trail retrieval
func (h *Handlers) GetAdjustmentHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	policyID, ok := h.policyID(w, r)
	if !ok {
		return
	}

	payload, err := h.service.GetAdjustmentHistory(r.Context(), claims.HolderID, policyID)
	if err != nil {
		h.writeServiceError(w, err, "history_retrieval_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// GetPlatformStats handles platform statistics retrieval
func (h *Handlers) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Holder identity not found in request")
		return
	}

	payload, err := h.service.GetPlatformStats(r.Context(), claims.HolderID)
	if err != nil {
		h.writeServiceError(w, err, "stats_retrieval_failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// policyID parses the policy ID path variable
func (h *Handlers) policyID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	vars := mux.Vars(r)
	policyID, err := strconv.ParseUint(vars["policyID"], 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "validation_error", "Invalid policy ID")
		return 0, false
	}
	return policyID, true
}

// writeServiceError maps service errors onto HTTP status codes
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error, fallbackCode string) {
	h.logger.WithError(err).Error("Request failed")

	var platformErr *types.PlatformError
	if errors.As(err, &platformErr) {
		switch platformErr.Type {
		case types.ErrorTypeValidation:
			h.writeError(w, http.StatusBadRequest, platformErr.Code, platformErr.Message)
		case types.ErrorTypeAuthorization:
			h.writeError(w, http.StatusForbidden, platformErr.Code, platformErr.Message)
		case types.ErrorTypeNotFound:
			h.writeError(w, http.StatusNotFound, platformErr.Code, platformErr.Message)
		case types.ErrorTypeExternal:
			h.writeError(w, http.StatusBadGateway, platformErr.Code, platformErr.Message)
		default:
			h.writeError(w, http.StatusInternalServerError, platformErr.Code, platformErr.Message)
		}
		return
	}

	h.writeError(w, http.StatusInternalServerError, fallbackCode, err.Error())
}

// writeJSON writes a JSON response
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handlers) writeError(w http.ResponseWriter, status int, code, message string) {
	errorResponse := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"timestamp": time.Now().Format(time.RFC3339),
	}

	h.writeJSON(w, status, errorResponse)
}
