package httpinterface

import (
	"encoding/json"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/pkg/escrowrpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var httpStatusByCode = map[codes.Code]int{
	codes.InvalidArgument:    http.StatusBadRequest,
	codes.NotFound:           http.StatusNotFound,
	codes.FailedPrecondition: http.StatusConflict,
	codes.PermissionDenied:   http.StatusForbidden,
	codes.Unauthenticated:    http.StatusUnauthorized,
	codes.Canceled:           http.StatusRequestTimeout,
	codes.DeadlineExceeded:   http.StatusGatewayTimeout,
}

func respond(w http.ResponseWriter, res interface{}, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Debug("failed to write response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	statusCode, ok := httpStatusByCode[st.Code()]
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	respondJSON(w, statusCode, errorResponse{
		Code:    st.Code().String(),
		Message: st.Message(),
	})
}

func decodeBody(r *http.Request, req interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return status.Errorf(codes.InvalidArgument, "invalid request body: %s", err)
	}
	return nil
}

func parsePage(r *http.Request) (*escrowrpc.Page, error) {
	query := r.URL.Query()
	pageStr, sizeStr := query.Get("page"), query.Get("size")
	if pageStr == "" && sizeStr == "" {
		return nil, nil
	}

	page := &escrowrpc.Page{}
	if pageStr != "" {
		n, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "invalid page number")
		}
		page.Number = n
	}
	if sizeStr != "" {
		n, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "invalid page size")
		}
		page.Size = n
	}
	return page, nil
}
