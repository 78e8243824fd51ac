package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jobdeck/jobdeck/internal/repository/rediscache"
	"github.com/jobdeck/jobdeck/pkg/models"
	"github.com/jobdeck/jobdeck/pkg/repository"
)

// CartHandler serves the delivery cart. SQLite is authoritative; the redis
// count cache is invalidated on every mutation and repopulated on read.
type CartHandler struct {
	cartRepo    repository.CartRepo
	postingRepo repository.PostingRepo
	cache       *rediscache.CartCountCache
}

func NewCartHandler(cr repository.CartRepo, pr repository.PostingRepo, cache *rediscache.CartCountCache) *CartHandler {
	return &CartHandler{cartRepo: cr, postingRepo: pr, cache: cache}
}

func (h *CartHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.cartRepo.ListCartItems(r.Context(), userID(r))
	if err != nil {
		writeError(w, "failed to list cart items", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}

	writeJSON(w, items, http.StatusOK)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["job_id"], 10, 64)
	if err != nil {
		writeError(w, "invalid job_id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	uid := userID(r)

	job, err := h.postingRepo.GetPostingByID(ctx, jobID)
	if err != nil {
		writeError(w, "failed to check job", http.StatusInternalServerError)
		return
	}
	if job == nil {
		writeError(w, "job not found", http.StatusNotFound)
		return
	}

	before, err := h.cartRepo.CountCartItems(ctx, uid)
	if err != nil {
		writeError(w, "failed to count cart items", http.StatusInternalServerError)
		return
	}

	// idempotent: re-adding an item already in the cart is a no-op
	if err := h.cartRepo.AddCartItem(ctx, uid, jobID); err != nil {
		writeError(w, "failed to add cart item", http.StatusInternalServerError)
		return
	}

	after, err := h.cartRepo.CountCartItems(ctx, uid)
	if err != nil {
		writeError(w, "failed to count cart items", http.StatusInternalServerError)
		return
	}
	h.cache.Set(ctx, uid, after)

	status := http.StatusOK
	if after > before {
		status = http.StatusCreated
	}
	writeJSON(w, map[string]any{"added": after > before, "count": after}, status)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	jobID, err := strconv.ParseInt(mux.Vars(r)["job_id"], 10, 64)
	if err != nil {
		writeError(w, "invalid job_id", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	uid := userID(r)

	removed, err := h.cartRepo.RemoveCartItem(ctx, uid, jobID)
	if err != nil {
		writeError(w, "failed to remove cart item", http.StatusInternalServerError)
		return
	}
	if !removed {
		writeError(w, "item not in cart", http.StatusNotFound)
		return
	}
	h.cache.Invalidate(ctx, uid)

	count, err := h.cartRepo.CountCartItems(ctx, uid)
	if err != nil {
		writeError(w, "failed to count cart items", http.StatusInternalServerError)
		return
	}
	h.cache.Set(ctx, uid, count)

	writeJSON(w, map[string]any{"removed": true, "count": count}, http.StatusOK)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r)

	if err := h.cartRepo.ClearCart(ctx, uid); err != nil {
		writeError(w, "failed to clear cart", http.StatusInternalServerError)
		return
	}
	h.cache.Set(ctx, uid, 0)

	writeJSON(w, map[string]any{"count": 0}, http.StatusOK)
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	uid := userID(r)

	if n, ok := h.cache.Get(ctx, uid); ok {
		writeJSON(w, map[string]int64{"count": n}, http.StatusOK)
		return
	}

	n, err := h.cartRepo.CountCartItems(ctx, uid)
	if err != nil {
		writeError(w, "failed to count cart items", http.StatusInternalServerError)
		return
	}
	h.cache.Set(ctx, uid, n)

	writeJSON(w, map[string]int64{"count": n}, http.StatusOK)
}
