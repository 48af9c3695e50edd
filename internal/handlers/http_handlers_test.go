package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"raffle/internal/auth"
	"raffle/internal/events"
	"raffle/internal/payment"
	"raffle/internal/raffle"
	"raffle/internal/storage"

	"github.com/gin-gonic/gin"
)

func newTestRouter() (*gin.Engine, *payment.MemoryBank) {
	gin.SetMode(gin.TestMode)

	bank := payment.NewMemoryBank()
	service := raffle.NewService(
		storage.NewMemoryStorage(bank),
		auth.NewStaticAuthenticator(),
		events.NewMemoryEmitter(),
		"custody",
	)

	router := gin.New()
	NewHTTPHandler(service).RegisterRoutes(router)
	return router, bank
}

func doRequest(t *testing.T, router *gin.Engine, method string, path string, caller string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, reader)
	if caller != "" {
		request.Header.Set(CallerHeader, caller)
	}
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", recorder.Body.String(), err)
	}
	return payload
}

func createRaffle(t *testing.T, router *gin.Engine) string {
	t.Helper()
	recorder := doRequest(t, router, http.MethodPost, "/raffles", "creator", raffle.CreateParams{
		Creator:       "creator",
		Description:   "integration raffle",
		MaxTickets:    10,
		AllowMultiple: true,
		TicketPrice:   10,
		PaymentToken:  "USDC",
		PrizeAmount:   100,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", recorder.Code, recorder.Body.String())
	}
	return decode(t, recorder)["id"].(string)
}

func TestLifecycleOverHTTP(t *testing.T) {
	router, bank := newTestRouter()
	bank.Deposit("USDC", "creator", 100)
	bank.Deposit("USDC", "buyer", 100)

	id := createRaffle(t, router)

	recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/prize", "creator", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("deposit: status %d body %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, router, http.MethodPost, "/raffles/"+id+"/tickets", "buyer", map[string]interface{}{"quantity": 2})
	if recorder.Code != http.StatusOK {
		t.Fatalf("buy: status %d body %s", recorder.Code, recorder.Body.String())
	}
	if sold := decode(t, recorder)["ticketsSold"].(float64); sold != 2 {
		t.Errorf("ticketsSold = %v, want 2", sold)
	}

	recorder = doRequest(t, router, http.MethodGet, "/raffles/"+id+"/tickets", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("tickets: status %d", recorder.Code)
	}

	recorder = doRequest(t, router, http.MethodGet, "/raffles/"+id+"/tickets/1", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("ticket by id: status %d body %s", recorder.Code, recorder.Body.String())
	}
	if buyer := decode(t, recorder)["buyer"].(string); buyer != "buyer" {
		t.Errorf("ticket buyer = %s, want buyer", buyer)
	}

	recorder = doRequest(t, router, http.MethodPost, "/raffles/"+id+"/finalize", "creator", map[string]string{"randomnessSource": "http-test"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("finalize: status %d body %s", recorder.Code, recorder.Body.String())
	}
	winner := decode(t, recorder)["winner"].(string)
	if winner != "buyer" {
		t.Fatalf("winner = %s, want buyer", winner)
	}

	recorder = doRequest(t, router, http.MethodPost, "/raffles/"+id+"/claim", winner, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("claim: status %d body %s", recorder.Code, recorder.Body.String())
	}
	if net := decode(t, recorder)["netAmount"].(float64); net != 100 {
		t.Errorf("netAmount = %v, want 100", net)
	}
}

func TestErrorMappingOverHTTP(t *testing.T) {
	router, bank := newTestRouter()
	bank.Deposit("USDC", "buyer", 100)

	id := createRaffle(t, router)

	t.Run("unknown raffle is 404", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/raffles/missing", "", nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", recorder.Code)
		}
	})

	t.Run("unknown ticket is 404", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/raffles/"+id+"/tickets/99", "", nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", recorder.Code)
		}
	})

	t.Run("malformed ticket id is 400", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/raffles/"+id+"/tickets/abc", "", nil)
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", recorder.Code)
		}
	})

	t.Run("wrong caller is 401", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/prize", "stranger", nil)
		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", recorder.Code)
		}
	})

	t.Run("unpaid deposit is 402", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/prize", "creator", nil)
		if recorder.Code != http.StatusPaymentRequired {
			t.Errorf("status = %d, want 402", recorder.Code)
		}
	})

	t.Run("zero quantity is 400", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/tickets", "buyer", map[string]interface{}{"quantity": 0})
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", recorder.Code)
		}
	})

	t.Run("claim by non-winner is 403", func(t *testing.T) {
		if recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/tickets", "buyer", map[string]interface{}{"quantity": 1}); recorder.Code != http.StatusOK {
			t.Fatalf("buy: status %d", recorder.Code)
		}
		if recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/finalize", "creator", nil); recorder.Code != http.StatusOK {
			t.Fatalf("finalize: status %d", recorder.Code)
		}

		recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/claim", "stranger", nil)
		if recorder.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", recorder.Code)
		}
	})

	t.Run("finalizing twice is 409", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodPost, "/raffles/"+id+"/finalize", "creator", nil)
		if recorder.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", recorder.Code)
		}
	})
}

func TestListRafflesOverHTTP(t *testing.T) {
	router, _ := newTestRouter()
	for i := 0; i < 5; i++ {
		createRaffle(t, router)
	}

	recorder := doRequest(t, router, http.MethodGet, "/raffles?offset=0&limit=3", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("list: status %d", recorder.Code)
	}

	payload := decode(t, recorder)
	if total := payload["total"].(float64); total != 5 {
		t.Errorf("total = %v, want 5", total)
	}
	if hasMore := payload["hasMore"].(bool); !hasMore {
		t.Error("hasMore should be true on the first page")
	}
	if ids := payload["ids"].([]interface{}); len(ids) != 3 {
		t.Errorf("page size = %d, want 3", len(ids))
	}

	recorder = doRequest(t, router, http.MethodGet, "/raffles?limit=200", "", nil)
	if limit := decode(t, recorder)["limit"].(float64); limit != 100 {
		t.Errorf("limit = %v, want the 100 clamp", limit)
	}
}
