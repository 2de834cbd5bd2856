package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"imagegen-solana-billing/internal/domain"
	"imagegen-solana-billing/internal/domain/model"
	red "imagegen-solana-billing/internal/infra/redis"
	sol "imagegen-solana-billing/internal/infra/solana"
)

type initiateRequest struct {
	TargetID      string `json:"target_id"`
	Kind          string `json:"kind"` // credit_purchase | subscription_purchase
	WalletAddress string `json:"wallet_address"`
}

type pendingPaymentResponse struct {
	PaymentID         string  `json:"payment_id"`
	RecipientWallet   string  `json:"recipient_wallet"`
	AmountLamports    uint64  `json:"amount_lamports"`
	AmountSol         float64 `json:"amount_sol"`
	PayoutDescription string  `json:"payout_description"`
}

type verifyRequest struct {
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Payout  int64  `json:"payout,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.payUC.Status())
}

func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := model.PaymentKind(req.Kind)
	if kind != model.PaymentKindCreditPurchase && kind != model.PaymentKindSubscriptionPurchase {
		writeError(w, http.StatusBadRequest, "unknown payment kind")
		return
	}
	if !sol.ValidWalletAddress(req.WalletAddress) {
		writeError(w, http.StatusBadRequest, "invalid wallet address")
		return
	}

	intent, err := s.payUC.Initiate(r.Context(), userID(r), req.TargetID, req.WalletAddress, kind)
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, pendingPaymentResponse{
		PaymentID:         intent.ID,
		RecipientWallet:   s.treasury,
		AmountLamports:    intent.AmountLamports,
		AmountSol:         intent.AmountSol,
		PayoutDescription: payoutDescription(intent),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PaymentID == "" {
		writeError(w, http.StatusBadRequest, "payment_id is required")
		return
	}
	if !sol.ValidSignature(req.Signature) {
		writeError(w, http.StatusBadRequest, "invalid transaction signature")
		return
	}

	uid := userID(r)
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(r.Context(), red.VerifyKey(uid), s.cfg.VerifyRateLimit, s.cfg.VerifyRateWindow)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable; allowing request")
		} else if !allowed {
			writeError(w, http.StatusTooManyRequests, "too many verification attempts")
			return
		}
	}

	result, err := s.payUC.Verify(r.Context(), uid, req.PaymentID, req.Signature)
	if err != nil {
		status, msg := statusFor(err)
		writeJSON(w, status, verifyResponse{Success: false, Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Success: true, Payout: result.Payout})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	intents, err := s.payUC.ListCompleted(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}

	type txEntry struct {
		PaymentID  string  `json:"payment_id"`
		Kind       string  `json:"kind"`
		AmountSol  float64 `json:"amount_sol"`
		Payout     int64   `json:"payout"`
		Signature  string  `json:"signature"`
		VerifiedAt string  `json:"verified_at"`
	}
	out := make([]txEntry, 0, len(intents))
	for _, p := range intents {
		e := txEntry{
			PaymentID: p.ID,
			Kind:      string(p.Kind),
			AmountSol: p.AmountSol,
			Payout:    p.PayoutQuantity,
			Signature: p.ChainSignature,
		}
		if p.VerifiedAt != nil {
			e.VerifiedAt = p.VerifiedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.creditUC.Balance(r.Context(), userID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read balance")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

func payoutDescription(p *model.PaymentIntent) string {
	switch p.Kind {
	case model.PaymentKindCreditPurchase:
		return fmt.Sprintf("%d credits", p.PayoutQuantity)
	case model.PaymentKindSubscriptionPurchase:
		return fmt.Sprintf("%d-day subscription", p.PayoutQuantity)
	default:
		return ""
	}
}

// statusFor maps the domain error taxonomy to HTTP statuses and short
// user-facing reasons.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusServiceUnavailable, "solana payments are not available"
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "payment not found"
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return http.StatusConflict, "payment already processed"
	case errors.Is(err, domain.ErrReplayDetected):
		return http.StatusConflict, "transaction already redeemed"
	case errors.Is(err, domain.ErrNotConfirmed):
		return http.StatusRequestTimeout, "transaction not confirmed yet, try again"
	case errors.Is(err, domain.ErrOnChainFailure):
		return http.StatusPaymentRequired, "transaction failed on chain"
	case errors.Is(err, domain.ErrRecipientMismatch):
		return http.StatusPaymentRequired, "transfer did not reach the treasury wallet"
	case errors.Is(err, domain.ErrAmountMismatch):
		return http.StatusPaymentRequired, "transferred amount is below the price"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
