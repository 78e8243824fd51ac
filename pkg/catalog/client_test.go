package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobdeck/jobdeck/internal/delivery"
	"github.com/jobdeck/jobdeck/pkg/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, nil)
	t.Cleanup(c.Close)
	return c
}

func TestSignInStoresToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds.Email != "a@b.c" {
			t.Errorf("email = %q", creds.Email)
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{Token: "tok-123"})
	})
	mux.HandleFunc("/v1/cart/count", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(CartCountResponse{Count: 4})
	})

	c := newTestClient(t, mux)
	tr, err := c.SignIn(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if tr.Token != "tok-123" {
		t.Fatalf("token = %q", tr.Token)
	}

	n, err := c.CartCount(context.Background())
	if err != nil {
		t.Fatalf("CartCount: %v", err)
	}
	if n != 4 {
		t.Fatalf("count = %d, want 4", n)
	}
}

func TestListIndustries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/industries", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode([]models.Industry{
			{ID: 1, Code: "internet", Name: "Internet", IsActive: true},
			{ID: 2, Code: "finance", Name: "Finance", IsActive: true},
		})
	})

	c := newTestClient(t, mux)
	list, err := c.ListIndustries(context.Background())
	if err != nil {
		t.Fatalf("ListIndustries: %v", err)
	}
	if len(list) != 2 || list[0].Code != "internet" {
		t.Fatalf("unexpected industries: %+v", list)
	}
}

func TestCreateTagConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/tags", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "tag code already exists"})
	})

	c := newTestClient(t, mux)
	_, err := c.CreateTag(context.Background(), models.Tag{Code: "python", Name: "Python"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	se := err.(*StatusError)
	if se.Message != "tag code already exists" {
		t.Errorf("message = %q", se.Message)
	}
}

func TestGetResumeNotFoundIsNil(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/resumes/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "resume not found"})
	})

	c := newTestClient(t, mux)
	res, err := c.GetResume(context.Background(), "r-9")
	if err != nil {
		t.Fatalf("GetResume: %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil resume, got %+v", res)
	}
}

func TestCartMutations(t *testing.T) {
	added := map[string]bool{}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/cart/items/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/v1/cart/items/"):]
		switch r.Method {
		case http.MethodPost:
			added[id] = true
			w.WriteHeader(http.StatusCreated)
		case http.MethodDelete:
			if !added[id] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			delete(added, id)
			w.WriteHeader(http.StatusOK)
		}
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	if err := c.AddCartItem(ctx, 7); err != nil {
		t.Fatalf("AddCartItem: %v", err)
	}
	if err := c.RemoveCartItem(ctx, 7); err != nil {
		t.Fatalf("RemoveCartItem: %v", err)
	}
	err := c.RemoveCartItem(ctx, 7)
	if !IsNotFound(err) {
		t.Fatalf("expected 404 on second remove, got %v", err)
	}
}

func TestSubmitBatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/delivery/prepare", func(w http.ResponseWriter, r *http.Request) {
		var req delivery.BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode batch: %v", err)
		}
		if req.ResumeID != "r-9" || len(req.JobIDs) != 2 {
			t.Errorf("unexpected batch: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(delivery.BatchResult{Accepted: true, BatchID: "b-1"})
	})

	c := newTestClient(t, mux)
	res, err := c.SubmitBatch(context.Background(), delivery.BatchRequest{
		UserID:   1,
		ResumeID: "r-9",
		JobIDs:   []int64{10, 11},
	})
	if err != nil {
		t.Fatalf("SubmitBatch: %v", err)
	}
	if !res.Accepted || res.BatchID != "b-1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDeliveryAnalytics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/analytics/deliveries", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("group_by"); got != "day" {
			t.Errorf("group_by = %q", got)
		}
		_ = json.NewEncoder(w).Encode(AnalyticsReport{
			GroupBy: "day",
			Total:   3,
			Items:   []AnalyticsItem{{Key: "2026-08-27", Count: 1}, {Key: "2026-08-28", Count: 2}},
		})
	})

	c := newTestClient(t, mux)
	rep, err := c.DeliveryAnalytics(context.Background(), "day")
	if err != nil {
		t.Fatalf("DeliveryAnalytics: %v", err)
	}
	if rep.Total != 3 || len(rep.Items) != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}
