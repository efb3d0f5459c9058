package transport

import (
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/model"
	"github.com/tss-calculator/glhooks/pkg/glhooks/application/service"
)

const (
	ResponseMessage = "GitLab webhook handler"

	maxPayloadSize = 16 << 20
)

type WebhookHandler struct {
	Dispatcher service.Dispatcher
	Logger     applogger.Logger
}

func (h *WebhookHandler) Post(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err != nil {
		h.Logger.Error(errors.Wrap(err, "failed to read request body"), "Error during reading of webhook payload")
		writeResponse(w, http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if h.Dispatcher.Dispatch(r.Context(), body) == model.OutcomeFailure {
		status = http.StatusInternalServerError
	}
	writeResponse(w, status)
}

func Healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeResponse(w http.ResponseWriter, status int) {
	message := []byte(ResponseMessage)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(message)))
	w.WriteHeader(status)
	_, _ = w.Write(message)
}
