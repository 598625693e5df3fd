package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"pharmanet-service/internal/adapters/ledger"
	"pharmanet-service/internal/api/dto"
	"pharmanet-service/internal/api/schema"
	"strings"
	"testing"
)

type envelope struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	TxID    string           `json:"txId"`
	Result  json.RawMessage  `json:"result"`
	Error   *dto.ErrorDetail `json:"error"`
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode response: %v (%s)", method, target, err, rec.Body.String())
		}
	}
	return rec, env
}

func mustOK(t *testing.T, h http.Handler, method, target, body string) envelope {
	t.Helper()
	rec, env := do(t, h, method, target, body)
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("%s %s: status %d, body %s", method, target, rec.Code, rec.Body.String())
	}
	return env
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	validator, err := schema.New()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return NewRouter(ledger.NewMemoryLedger(), validator)
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Errorf("response carries no request id")
	}

	rec, _ = do(t, h, http.MethodPost, "/health", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health status = %d", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}

func TestSupplyChainOverHTTP(t *testing.T) {
	h := newTestRouter(t)

	companies := []struct{ org, crn, name, role string }{
		{"manufacturer", "M1", "Sun Pharma", "Manufacturer"},
		{"distributor", "D1", "VG Pharma", "Distributor"},
		{"transporter", "T1", "FedEx", "Transporter"},
	}
	for _, c := range companies {
		body := `{"companyCRN":"` + c.crn + `","companyName":"` + c.name + `","location":"Pune","organisationRole":"` + c.role + `"}`
		env := mustOK(t, h, http.MethodPost, "/"+c.org+"/registerCompany", body)
		if env.TxID == "" {
			t.Errorf("registerCompany %s: no txId", c.crn)
		}
	}

	for _, serial := range []string{"001", "002"} {
		mustOK(t, h, http.MethodPost, "/manufacturer.pharma-network.com/addDrug",
			`{"drugName":"Paracetamol","serialNo":"`+serial+`","mfgDate":"2026-01-01","expDate":"2028-01-01","companyCRN":"M1"}`)
	}

	// Quantity may be a JSON number.
	mustOK(t, h, http.MethodPost, "/distributor/createPO",
		`{"buyerCRN":"D1","sellerCRN":"M1","drugName":"Paracetamol","quantity":2}`)

	// The asset list may be an array.
	mustOK(t, h, http.MethodPost, "/manufacturer/createShipment",
		`{"buyerCRN":"D1","drugName":"Paracetamol","listOfAssets":["001","002"],"transporterCRN":"T1"}`)

	env := mustOK(t, h, http.MethodPost, "/transporter/updateShipment",
		`{"buyerCRN":"D1","drugName":"Paracetamol","transporterCRN":"T1"}`)
	var shipment struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Result, &shipment); err != nil || shipment.Status != "delivered" {
		t.Fatalf("shipment = %s (err %v)", env.Result, err)
	}

	q := url.Values{"drugName": {"Paracetamol"}, "serialNo": {"001"}}
	env = mustOK(t, h, http.MethodGet, "/retailer/viewDrugCurrentState?"+q.Encode(), "")
	if env.TxID != "" {
		t.Errorf("query returned txId %q", env.TxID)
	}
	var drug struct {
		Owner     string   `json:"owner"`
		Shipments []string `json:"shipment"`
	}
	if err := json.Unmarshal(env.Result, &drug); err != nil {
		t.Fatalf("decode drug: %v", err)
	}
	if !strings.Contains(drug.Owner, "D1") || len(drug.Shipments) != 1 {
		t.Errorf("drug = %+v", drug)
	}

	env = mustOK(t, h, http.MethodGet, "/retailer/viewHistory?"+q.Encode(), "")
	var hist []struct {
		TxID string `json:"txId"`
	}
	if err := json.Unmarshal(env.Result, &hist); err != nil || len(hist) != 3 {
		t.Fatalf("history = %s (err %v)", env.Result, err)
	}
}

func TestOperationErrors(t *testing.T) {
	h := newTestRouter(t)
	mustOK(t, h, http.MethodPost, "/manufacturer/registerCompany",
		`{"companyCRN":"M1","companyName":"Sun Pharma","location":"Pune","organisationRole":"Manufacturer"}`)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		wantKind   string
	}{
		{
			name:       "duplicate company",
			method:     http.MethodPost,
			target:     "/manufacturer/registerCompany",
			body:       `{"companyCRN":"M1","companyName":"Sun Pharma","location":"Pune","organisationRole":"Manufacturer"}`,
			wantStatus: http.StatusConflict,
			wantKind:   "DuplicateKeyError",
		},
		{
			name:       "wrong organisation",
			method:     http.MethodPost,
			target:     "/retailer/registerCompany",
			body:       `{"companyCRN":"M2","companyName":"Cipla","location":"Goa","organisationRole":"Manufacturer"}`,
			wantStatus: http.StatusForbidden,
			wantKind:   "AuthorizationError",
		},
		{
			name:       "missing field",
			method:     http.MethodPost,
			target:     "/manufacturer/registerCompany",
			body:       `{"companyCRN":"M2","companyName":"Cipla","location":"Goa"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidArgumentError",
		},
		{
			name:       "unknown field",
			method:     http.MethodPost,
			target:     "/manufacturer/registerCompany",
			body:       `{"companyCRN":"M2","companyName":"Cipla","location":"Goa","organisationRole":"Manufacturer","x":1}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidArgumentError",
		},
		{
			name:       "bad json",
			method:     http.MethodPost,
			target:     "/manufacturer/registerCompany",
			body:       `{"companyCRN":`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidArgumentError",
		},
		{
			name:       "comma inside asset list entry",
			method:     http.MethodPost,
			target:     "/manufacturer/createShipment",
			body:       `{"buyerCRN":"D1","drugName":"Paracetamol","listOfAssets":["001,002"],"transporterCRN":"T1"}`,
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidArgumentError",
		},
		{
			name:       "missing drug",
			method:     http.MethodGet,
			target:     "/retailer/viewDrugCurrentState?drugName=Paracetamol&serialNo=404",
			wantStatus: http.StatusNotFound,
			wantKind:   "NotFoundError",
		},
		{
			name:       "missing query parameter",
			method:     http.MethodGet,
			target:     "/retailer/viewHistory?drugName=Paracetamol",
			wantStatus: http.StatusBadRequest,
			wantKind:   "InvalidArgumentError",
		},
		{
			name:       "unknown operation",
			method:     http.MethodPost,
			target:     "/manufacturer/burnDrug",
			body:       `{}`,
			wantStatus: http.StatusNotFound,
			wantKind:   "UnknownOperationError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := do(t, h, tt.method, tt.target, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Status != "error" || env.Error == nil || env.Error.Kind != tt.wantKind {
				t.Fatalf("body = %s, want kind %s", rec.Body.String(), tt.wantKind)
			}
		})
	}
}

func TestOperationMethods(t *testing.T) {
	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/manufacturer/registerCompany", "")
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("GET on a write: status %d, Allow %q", rec.Code, rec.Header().Get("Allow"))
	}

	rec, _ = do(t, h, http.MethodPost, "/retailer/viewHistory", `{}`)
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodGet {
		t.Errorf("POST on a query: status %d, Allow %q", rec.Code, rec.Header().Get("Allow"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	mustOK(t, h, http.MethodPost, "/manufacturer/registerCompany",
		`{"companyCRN":"M1","companyName":"Sun Pharma","location":"Pune","organisationRole":"Manufacturer"}`)

	rec, _ := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pharmanet_operations_total") {
		t.Errorf("metrics output lacks pharmanet_operations_total")
	}
}
