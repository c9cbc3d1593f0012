package server

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"opsboard/internal/stats"
	"opsboard/pkg/types"
)

type paymentForm struct {
	Names    string  `form:"names"`
	Surnames string  `form:"surnames"`
	Amount   float64 `form:"amount"`
	PaidAt   string  `form:"paid_at"` // optional, 2006-01-02
}

func (s *Service) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}

	var input paymentForm
	if err := decoder.Decode(&input, r.Form); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid form fields")
		return
	}

	input.Names = strings.TrimSpace(input.Names)
	input.Surnames = strings.TrimSpace(input.Surnames)

	if input.Names == "" || input.Surnames == "" {
		s.respondError(w, http.StatusBadRequest, "names and surnames are required")
		return
	}
	// NaN compares false against everything, so it sails past the <= 0 check
	// and Round turns it into garbage cents.
	if math.IsNaN(input.Amount) || math.IsInf(input.Amount, 0) || input.Amount <= 0 {
		s.respondError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	paidAt := time.Now()
	if input.PaidAt != "" {
		parsed, err := time.Parse("2006-01-02", input.PaidAt)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "paid_at must be formatted YYYY-MM-DD")
			return
		}
		paidAt = parsed
	}

	// The receipt photo is mandatory; the payment row only exists once the
	// photo made it to storage.
	uploaded, err := s.processAndUpload(r, "document", input.Names+" "+input.Surnames)
	if err != nil {
		status := http.StatusInternalServerError
		if isMediaValidationError(err) {
			status = http.StatusBadRequest
		}
		s.respondError(w, status, err.Error())
		return
	}
	if uploaded == nil {
		s.respondError(w, http.StatusBadRequest, "document photo is required")
		return
	}

	payment := &types.Payment{
		Names:             input.Names,
		Surnames:          input.Surnames,
		AmountCents:       int64(math.Round(input.Amount * 100)),
		DocumentPhotoURL:  uploaded.URL,
		DocumentPhotoPath: uploaded.Path,
		RegisteringUser:   userID,
		PaidAt:            paidAt,
	}

	if err := s.payments.CreatePayment(r.Context(), payment); err != nil {
		s.logger.WithError(err).Error("failed to create payment")
		s.respondError(w, http.StatusInternalServerError, "failed to create payment")
		return
	}

	s.respondJSON(w, http.StatusCreated, payment)
}

func (s *Service) handlePaymentDetail(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("paymentID")

	payment, err := s.payments.Payment(r.Context(), paymentID)
	if err != nil {
		if errors.Is(err, types.ErrPaymentNotFound) {
			s.respondError(w, http.StatusNotFound, "payment not found")
			return
		}
		s.logger.WithError(err).Error("failed to fetch payment")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch payment")
		return
	}

	s.respondJSON(w, http.StatusOK, payment)
}

func (s *Service) handleListPayments(w http.ResponseWriter, r *http.Request) {
	filter := types.PaymentFilter{}

	if period := r.URL.Query().Get("period"); period != "" {
		from, to, err := stats.QuincenaWindow(period)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.From = &from
		filter.To = &to
	}

	payments, err := s.payments.PaymentsByFilter(r.Context(), filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list payments")
		s.respondError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}

	var totalCents int64
	for _, p := range payments {
		totalCents += p.AmountCents
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"payments":   payments,
		"totalCents": totalCents,
	})
}
