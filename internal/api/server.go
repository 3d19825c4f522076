package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/zildex/zilliqa-nft-marketplace/internal/helper"
	"github.com/zildex/zilliqa-nft-marketplace/internal/marketplace"
	"github.com/zildex/zilliqa-nft-marketplace/internal/repository"
	"go.uber.org/zap"
)

type Server struct {
	market      marketplace.Marketplace
	listingRepo repository.ListingRepository
	actionRepo  repository.ListingActionRepository
}

func NewServer(
	market marketplace.Marketplace,
	listingRepo repository.ListingRepository,
	actionRepo repository.ListingActionRepository,
) Server {
	return Server{market, listingRepo, actionRepo}
}

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/listing/{contractAddr}/{tokenId}", s.handleGetListing).Methods("GET")
	r.HandleFunc("/listings/{contractAddr}", s.handleGetListings).Methods("GET")
	r.HandleFunc("/actions/{contractAddr}/{tokenId}", s.handleGetActions).Methods("GET")

	r.HandleFunc("/listing", s.handleListItem).Methods("POST")
	r.HandleFunc("/listing/price", s.handleUpdatePrice).Methods("PUT")
	r.HandleFunc("/listing", s.handleCancelListing).Methods("DELETE")
	r.HandleFunc("/buy", s.handleBuyItem).Methods("POST")

	r.HandleFunc("/admin/state", s.handleGetState).Methods("GET")
	r.HandleFunc("/admin/fee", s.handleSetFeeRate).Methods("POST")
	r.HandleFunc("/admin/pause", s.handlePause).Methods("POST")
	r.HandleFunc("/admin/pause", s.handleUnpause).Methods("DELETE")
	r.HandleFunc("/admin/collection", s.handleAllowCollection).Methods("POST")
	r.HandleFunc("/admin/collection", s.handleDisallowCollection).Methods("DELETE")
	r.HandleFunc("/admin/withdraw", s.handleWithdraw).Methods("POST")

	r.NotFoundHandler = notFoundHandler()

	return r
}

type listingRequest struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Price    uint64 `json:"price"`
	Caller   string `json:"caller"`
}

type buyRequest struct {
	Contract string `json:"contract"`
	TokenId  uint64 `json:"tokenId"`
	Amount   uint64 `json:"amount"`
	Caller   string `json:"caller"`
}

type feeRequest struct {
	FeeBps uint   `json:"feeBps"`
	Caller string `json:"caller"`
}

type collectionRequest struct {
	Contract string `json:"contract"`
	Caller   string `json:"caller"`
}

type adminRequest struct {
	Caller string `json:"caller"`
}

type withdrawRequest struct {
	To     string `json:"to"`
	Amount uint64 `json:"amount"`
	Caller string `json:"caller"`
}

func (s Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

func (s Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	contractAddr, tokenId, err := pathKey(r)
	if err != nil {
		http.Error(w, "Invalid parameters", http.StatusBadRequest)
		return
	}

	writeJson(w, s.market.GetListing(contractAddr, tokenId))
}

func (s Server) handleGetListings(w http.ResponseWriter, r *http.Request) {
	contractAddr, err := helper.NormaliseAddress(mux.Vars(r)["contractAddr"])
	if err != nil {
		http.Error(w, "Invalid parameters", http.StatusBadRequest)
		return
	}

	size, page := pagination(r)

	listings, total, err := s.listingRepo.GetListingsByContract(contractAddr, size, page)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Listings not available")
		http.Error(w, "Listings not available", http.StatusInternalServerError)
		return
	}

	w.Header().Add("X-Total-Count", strconv.FormatInt(total, 10))
	writeJson(w, listings)
}

func (s Server) handleGetActions(w http.ResponseWriter, r *http.Request) {
	contractAddr, tokenId, err := pathKey(r)
	if err != nil {
		http.Error(w, "Invalid parameters", http.StatusBadRequest)
		return
	}

	size, page := pagination(r)

	actions, total, err := s.actionRepo.GetActions(contractAddr, tokenId, size, page)
	if err != nil {
		zap.L().With(zap.Error(err)).Warn("Actions not available")
		http.Error(w, "Actions not available", http.StatusInternalServerError)
		return
	}

	w.Header().Add("X-Total-Count", strconv.FormatInt(total, 10))
	writeJson(w, actions)
}

func (s Server) handleListItem(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if !decode(w, r, &req) {
		return
	}

	contract, caller, ok := normalise(w, req.Contract, req.Caller)
	if !ok {
		return
	}

	writeResult(w, s.market.ListItem(contract, req.TokenId, req.Price, caller))
}

func (s Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if !decode(w, r, &req) {
		return
	}

	contract, caller, ok := normalise(w, req.Contract, req.Caller)
	if !ok {
		return
	}

	writeResult(w, s.market.UpdateListingPrice(contract, req.TokenId, req.Price, caller))
}

func (s Server) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if !decode(w, r, &req) {
		return
	}

	contract, caller, ok := normalise(w, req.Contract, req.Caller)
	if !ok {
		return
	}

	writeResult(w, s.market.CancelListing(contract, req.TokenId, caller))
}

func (s Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	var req buyRequest
	if !decode(w, r, &req) {
		return
	}

	contract, caller, ok := normalise(w, req.Contract, req.Caller)
	if !ok {
		return
	}

	writeResult(w, s.market.BuyItem(contract, req.TokenId, caller, req.Amount))
}

func (s Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJson(w, s.market.State())
}

func (s Server) handleSetFeeRate(w http.ResponseWriter, r *http.Request) {
	var req feeRequest
	if !decode(w, r, &req) {
		return
	}

	caller, err := helper.NormaliseAddress(req.Caller)
	if err != nil {
		http.Error(w, "Invalid caller", http.StatusBadRequest)
		return
	}

	writeResult(w, s.market.SetFeeRate(req.FeeBps, caller))
}

func (s Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if !decode(w, r, &req) {
		return
	}

	caller, err := helper.NormaliseAddress(req.Caller)
	if err != nil {
		http.Error(w, "Invalid caller", http.StatusBadRequest)
		return
	}

	writeResult(w, s.market.Pause(caller))
}

func (s Server) handleUnpause(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if !decode(w, r, &req) {
		return
	}

	caller, err := helper.NormaliseAddress(req.Caller)
	if err != nil {
		http.Error(w, "Invalid caller", http.StatusBadRequest)
		return
	}

	writeResult(w, s.market.Unpause(caller))
}

func (s Server) handleAllowCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if !decode(w, r, &req) {
		return
	}

	contract, caller, ok := normalise(w, req.Contract, req.Caller)
	if !ok {
		return
	}

	writeResult(w, s.market.AllowCollection(contract, caller))
}

func (s Server) handleDisallowCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if !decode(w, r, &req) {
		return
	}

	contract, caller, ok := normalise(w, req.Contract, req.Caller)
	if !ok {
		return
	}

	writeResult(w, s.market.DisallowCollection(contract, caller))
}

func (s Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !decode(w, r, &req) {
		return
	}

	to, caller, ok := normalise(w, req.To, req.Caller)
	if !ok {
		return
	}

	writeResult(w, s.market.Withdraw(to, req.Amount, caller))
}

func pathKey(r *http.Request) (string, uint64, error) {
	contractAddr, err := helper.NormaliseAddress(mux.Vars(r)["contractAddr"])
	if err != nil {
		return "", 0, err
	}

	tokenId, err := strconv.ParseUint(mux.Vars(r)["tokenId"], 10, 64)
	if err != nil {
		return "", 0, err
	}

	return contractAddr, tokenId, nil
}

func pagination(r *http.Request) (int, int) {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 1 || size > 100 {
		size = 25
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	return size, page
}

func decode(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}

	return true
}

func normalise(w http.ResponseWriter, contract, caller string) (string, string, bool) {
	contractAddr, err := helper.NormaliseAddress(contract)
	if err != nil {
		http.Error(w, "Invalid contract", http.StatusBadRequest)
		return "", "", false
	}

	callerAddr, err := helper.NormaliseAddress(caller)
	if err != nil {
		http.Error(w, "Invalid caller", http.StatusBadRequest)
		return "", "", false
	}

	return contractAddr, callerAddr, true
}

func writeJson(w http.ResponseWriter, body interface{}) {
	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().With(zap.Error(err)).Error("Failed to write response")
	}
}

func writeResult(w http.ResponseWriter, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "OK")
		return
	}

	http.Error(w, err.Error(), statusFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, marketplace.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, marketplace.ErrNotOwner),
		errors.Is(err, marketplace.ErrNotApproved),
		errors.Is(err, marketplace.ErrNotSeller):
		return http.StatusForbidden
	case errors.Is(err, marketplace.ErrNotListed):
		return http.StatusNotFound
	case errors.Is(err, marketplace.ErrAlreadyListed):
		return http.StatusConflict
	case errors.Is(err, marketplace.ErrSystemPaused),
		errors.Is(err, marketplace.ErrNotTradeable):
		return http.StatusServiceUnavailable
	case errors.Is(err, marketplace.ErrInvalidPrice),
		errors.Is(err, marketplace.ErrFeeTooHigh),
		errors.Is(err, marketplace.ErrInsufficientPayment),
		errors.Is(err, marketplace.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
		_, _ = fmt.Fprintf(w, "Page not found")
	})
}
