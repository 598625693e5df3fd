package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"pharmanet-service/internal/adapters/identity"
	"pharmanet-service/internal/api/dto"
	"pharmanet-service/internal/api/schema"
	"pharmanet-service/internal/domain"
	"pharmanet-service/internal/platform/obs"
	"pharmanet-service/internal/ports"
	"pharmanet-service/internal/services"
	"strings"
)

// OperationHandler exposes the ledger operations as
// POST /{org}/{operation} (writes, JSON body of named arguments) and
// GET /{org}/{operation} (queries, arguments as query parameters).
// The {org} segment is the caller's organisation.
// Request bodies are checked against Schema, when set, before dispatch.
type OperationHandler struct {
	Store  ports.LedgerStore
	Schema *schema.Validator
}

const maxBodyBytes = 1 << 20

var successMessages = map[string]string{
	"registerCompany":      "New company registered",
	"addDrug":              "New drug added",
	"createPO":             "New PO created",
	"createShipment":       "New shipment created",
	"updateShipment":       "Shipment update successful",
	"retailDrug":           "Retail transaction successful",
	"viewHistory":          "View drug history transaction successful",
	"viewDrugCurrentState": "View drug transaction successful",
}

func (h *OperationHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	org := strings.TrimSpace(r.PathValue("org"))
	name := r.PathValue("operation")

	op, ok := services.Operations[name]
	if !ok {
		writeOperationError(w, r, name, fmt.Errorf("operation %q: %w", name, domain.ErrUnknownOperation))
		return
	}

	method := http.MethodPost
	if op.ReadOnly {
		method = http.MethodGet
	}
	if r.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		args []string
		err  error
	)
	if op.ReadOnly {
		args, err = queryArgs(r, op.Params)
	} else {
		args, err = h.bodyArgs(r, name, op.Params)
	}
	if err != nil {
		writeOperationError(w, r, name, err)
		return
	}

	res, err := services.Invoke(r.Context(), h.Store, identity.Organization(org), name, args)
	if err != nil {
		writeOperationError(w, r, name, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SuccessResponse{
		Status:  "success",
		Message: successMessages[name],
		TxID:    res.TxID,
		Result:  res.Value,
	})
}

func queryArgs(r *http.Request, params []string) ([]string, error) {
	q := r.URL.Query()

	args := make([]string, 0, len(params))
	for _, p := range params {
		if !q.Has(p) {
			return nil, fmt.Errorf("query parameter %q is required: %w", p, domain.ErrInvalidArgument)
		}
		args = append(args, q.Get(p))
	}
	return args, nil
}

// Decode a single JSON object holding exactly the operation's parameters.
// Values may be strings or numbers; an array of strings is joined with
// commas (listOfAssets).
func (h *OperationHandler) bodyArgs(r *http.Request, name string, params []string) ([]string, error) {
	defer r.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var body map[string]json.RawMessage

	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("invalid json body: %w", domain.ErrInvalidArgument)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("body must contain only one JSON object: %w", domain.ErrInvalidArgument)
	}

	if h.Schema != nil {
		if err := h.Schema.Validate(name, raw); err != nil {
			return nil, err
		}
	}

	known := make(map[string]struct{}, len(params))
	args := make([]string, 0, len(params))
	for _, p := range params {
		known[p] = struct{}{}

		val, ok := body[p]
		if !ok {
			return nil, fmt.Errorf("field %q is required: %w", p, domain.ErrInvalidArgument)
		}
		v, err := argString(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", p, err)
		}
		args = append(args, v)
	}

	for field := range body {
		if _, ok := known[field]; !ok {
			return nil, fmt.Errorf("unknown field %q: %w", field, domain.ErrInvalidArgument)
		}
	}

	return args, nil
}

func argString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		for i, item := range list {
			if strings.Contains(item, ",") {
				return "", fmt.Errorf("list entry #%d %q contains a comma: %w", i+1, item, domain.ErrInvalidArgument)
			}
		}
		return strings.Join(list, ","), nil
	}

	return "", fmt.Errorf("must be a string, a number or a list of strings: %w", domain.ErrInvalidArgument)
}

// HTTP status for each error kind.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrHierarchyViolation),
		errors.Is(err, domain.ErrQuantityInsufficient):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOwnershipMismatch):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownOperation):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeOperationError(w http.ResponseWriter, r *http.Request, name string, err error) {
	status := statusFor(err)
	kind := domain.ErrorKind(err)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("req_id=%s operation %s failed: %v", obs.RequestID(r.Context()), name, err)
		detail = "internal server error"
	}

	writeJSON(w, r, status, dto.ErrorResponse{
		Status:  "error",
		Message: "operation " + name + " failed",
		Error:   &dto.ErrorDetail{Kind: kind, Detail: detail},
	})
}
