package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/naveenspark/fintrack/pkg/domain"
)

type staticAuth string

func (s staticAuth) AuthHeaders() http.Header {
	return bearerHeaders(string(s))
}

func TestGetMe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/me" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "not authenticated"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.User{ID: 7, Username: "alice", Email: "a@x.io"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", staticAuth("test-token"))
	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe() error: %v", err)
	}
	if me.Username != "alice" {
		t.Errorf("Username = %q, want %q", me.Username, "alice")
	}
	if me.ID != 7 {
		t.Errorf("ID = %d, want 7", me.ID)
	}
}

func TestGetMe_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "not authenticated"}) //nolint:errcheck
	}))
	defer srv.Close()

	var rejected error
	c := New(srv.URL, staticAuth("bad-token"), WithAuthRejectedHandler(func(err error) { rejected = err }))
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") {
		t.Errorf("error = %q, want it to contain 'HTTP 401'", got)
	}
	if rejected == nil {
		t.Error("auth-rejected handler was not called")
	}
	if got := Message(err); got != "not authenticated" {
		t.Errorf("Message() = %q, want %q", got, "not authenticated")
	}
}

func TestGetMeWithToken_SkipsRejectedHandler(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer explicit" {
			t.Errorf("Authorization = %q, want %q", r.Header.Get("Authorization"), "Bearer explicit")
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	called := false
	c := New(srv.URL, staticAuth("stored"), WithAuthRejectedHandler(func(error) { called = true }))
	_, err := c.GetMeWithToken(context.Background(), "explicit")
	if !IsStatus(err, http.StatusForbidden) {
		t.Fatalf("error = %v, want HTTP 403", err)
	}
	if called {
		t.Error("auth-rejected handler should not run for explicit-token calls")
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantToken string
		wantErr   bool
	}{
		{name: "jwtToken field", body: `{"jwtToken":"abc","id":1,"username":"alice"}`, wantToken: "abc"},
		{name: "legacy token field", body: `{"token":"old","id":1}`, wantToken: "old"},
		{name: "no token", body: `{"id":1}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
					t.Errorf("got %s %s, want POST /auth/login", r.Method, r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "" {
					t.Errorf("Authorization = %q, want none on login", got)
				}
				var req domain.LoginRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode body: %v", err)
				}
				if req.Username != "alice" || req.Password != "pw" {
					t.Errorf("body = %+v, want alice/pw", req)
				}
				w.Write([]byte(tt.body)) //nolint:errcheck
			}))
			defer srv.Close()

			c := New(srv.URL, staticAuth("ignored"))
			resp, err := c.Login(context.Background(), "alice", "pw")
			if tt.wantErr {
				var decErr *DecodeError
				if !errors.As(err, &decErr) {
					t.Fatalf("error = %v, want *DecodeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error: %v", err)
			}
			if got := resp.BearerToken(); got != tt.wantToken {
				t.Errorf("BearerToken() = %q, want %q", got, tt.wantToken)
			}
		})
	}
}

func TestRegister_PlainTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("User registered successfully")) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.Register(context.Background(), domain.RegisterRequest{Username: "bob", Password: "pw", Email: "b@x.io"})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
}

func TestRegister_Invalid(t *testing.T) {
	c := New("http://127.0.0.1:0", nil)
	if err := c.Register(context.Background(), domain.RegisterRequest{Username: "bob"}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestListTransactions_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := map[string]string{
			"startDate":  "2024-01-01",
			"endDate":    "2024-01-31",
			"categoryId": "3",
			"type":       "EXPENSE",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("query %s = %q, want %q", k, got, v)
			}
		}
		w.Write([]byte(`[{"id":1,"description":"Coffee","amount":3.5,"date":"2024-01-02","type":"EXPENSE","category":{"id":3,"name":"Food"}}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, staticAuth("tok"))
	txs, err := c.ListTransactions(context.Background(), domain.TransactionFilter{
		StartDate:  domain.NewDate(2024, 1, 1),
		EndDate:    domain.NewDate(2024, 1, 31),
		CategoryID: 3,
		Type:       domain.TransactionExpense,
	})
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("len = %d, want 1", len(txs))
	}
	if txs[0].Amount != 350 {
		t.Errorf("Amount = %d, want 350", txs[0].Amount)
	}
	if got := txs[0].CategoryName(); got != "Food" {
		t.Errorf("CategoryName() = %q, want %q", got, "Food")
	}
}

func TestListTransactions_EmptyFilterOmitsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("RawQuery = %q, want empty", r.URL.RawQuery)
		}
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, staticAuth("tok"))
	txs, err := c.ListTransactions(context.Background(), domain.TransactionFilter{})
	if err != nil {
		t.Fatalf("ListTransactions() error: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("len = %d, want 0", len(txs))
	}
}

func TestCreateTransaction_CategoryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}
		if got := r.URL.Query().Get("categoryId"); got != "5" {
			t.Errorf("categoryId = %q, want %q", got, "5")
		}
		var in map[string]any
		json.NewDecoder(r.Body).Decode(&in) //nolint:errcheck
		if _, ok := in["categoryId"]; ok {
			t.Error("categoryId must not be in the body")
		}
		w.Write([]byte(`{"id":9,"description":"Salary","amount":1000,"date":"2024-02-01","type":"INCOME"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, staticAuth("tok"))
	tx, err := c.CreateTransaction(context.Background(), domain.TransactionInput{
		Description: "Salary",
		Amount:      100000,
		Date:        domain.NewDate(2024, 2, 1),
		Type:        domain.TransactionIncome,
	}, 5)
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if tx.ID != 9 {
		t.Errorf("ID = %d, want 9", tx.ID)
	}
}

func TestCreateBudget_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Budget already exists"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, staticAuth("tok"))
	_, err := c.CreateBudget(context.Background(), domain.BudgetInput{Amount: 5000, Month: 3, Year: 2024}, 2)
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("error = %v, want HTTP 400", err)
	}
	if got := Message(err); got != "Budget already exists" {
		t.Errorf("Message() = %q, want %q", got, "Budget already exists")
	}
}

func TestCreateBudget_RequiresCategory(t *testing.T) {
	c := New("http://127.0.0.1:0", staticAuth("tok"))
	_, err := c.CreateBudget(context.Background(), domain.BudgetInput{Amount: 5000, Month: 3, Year: 2024}, 0)
	if err == nil {
		t.Fatal("expected error without a category")
	}
}

func TestDeleteCategory_IgnoresBody(t *testing.T) {
	for _, body := range []string{"", `{"deleted":true}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/categories/4" {
				t.Errorf("got %s %s, want DELETE /categories/4", r.Method, r.URL.Path)
			}
			if body == "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			w.Write([]byte(body)) //nolint:errcheck
		}))

		c := New(srv.URL, staticAuth("tok"))
		if err := c.DeleteCategory(context.Background(), 4); err != nil {
			t.Errorf("DeleteCategory() with body %q error: %v", body, err)
		}
		srv.Close()
	}
}

func TestGetTransaction_EmptyBodyIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, staticAuth("tok"))
	_, err := c.GetTransaction(context.Background(), 1)
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
}

func TestReports(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("startDate") != "2024-01-01" || r.URL.Query().Get("endDate") != "2024-12-31" {
			t.Errorf("range = %s, want 2024-01-01..2024-12-31", r.URL.RawQuery)
		}
		switch r.URL.Path {
		case "/reports/summary":
			w.Write([]byte(`{"totalIncome":100,"totalExpenses":40.5,"netBalance":59.5}`)) //nolint:errcheck
		case "/reports/spending-by-category":
			w.Write([]byte(`{"Food":10,"Rent":500,"Fun":10}`)) //nolint:errcheck
		case "/reports/income-vs-expense-trends":
			if got := r.URL.Query().Get("periodType"); got != "monthly" {
				t.Errorf("periodType = %q, want monthly", got)
			}
			w.Write([]byte(`{"2024-02":{"income":5,"expense":1},"2024-01":{"income":3}}`)) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, staticAuth("tok"))
	ctx := context.Background()
	start, end := domain.NewDate(2024, 1, 1), domain.NewDate(2024, 12, 31)

	sum, err := c.Summary(ctx, start, end)
	if err != nil {
		t.Fatalf("Summary() error: %v", err)
	}
	if sum.NetBalance != 5950 {
		t.Errorf("NetBalance = %d, want 5950", sum.NetBalance)
	}

	spend, err := c.SpendingByCategory(ctx, start, end)
	if err != nil {
		t.Fatalf("SpendingByCategory() error: %v", err)
	}
	wantOrder := []string{"Rent", "Food", "Fun"}
	for i, name := range wantOrder {
		if spend[i].Category != name {
			t.Errorf("spend[%d] = %q, want %q", i, spend[i].Category, name)
		}
	}

	trends, err := c.Trends(ctx, start, end, domain.PeriodMonthly)
	if err != nil {
		t.Fatalf("Trends() error: %v", err)
	}
	if len(trends) != 2 || trends[0].Period != "2024-01" {
		t.Fatalf("trends = %+v, want 2024-01 first", trends)
	}
	if trends[0].Expense != 0 {
		t.Errorf("missing expense = %d, want 0", trends[0].Expense)
	}
}

func TestSummary_InconsistentNetIsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"totalIncome":100,"totalExpenses":40,"netBalance":10}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, staticAuth("tok"))
	_, err := c.Summary(context.Background(), domain.NewDate(2024, 1, 1), domain.NewDate(2024, 1, 31))
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
}

func TestUpdateUser_PartialBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/users/7" {
			t.Errorf("got %s %s, want PUT /users/7", r.Method, r.URL.Path)
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if len(body) != 1 || body["firstName"] != "Al" {
			t.Errorf("body = %v, want only firstName", body)
		}
		w.Write([]byte(`{"id":7,"username":"alice","firstName":"Al"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	first := "Al"
	c := New(srv.URL, staticAuth("tok"))
	u, err := c.UpdateUser(context.Background(), 7, domain.UserUpdate{UserPatch: domain.UserPatch{FirstName: &first}})
	if err != nil {
		t.Fatalf("UpdateUser() error: %v", err)
	}
	if u.FirstName != "Al" {
		t.Errorf("FirstName = %q, want %q", u.FirstName, "Al")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8080/api/", nil)
	if got := c.BaseURL(); got != "http://localhost:8080/api" {
		t.Errorf("BaseURL() = %q, want %q", got, "http://localhost:8080/api")
	}
}
