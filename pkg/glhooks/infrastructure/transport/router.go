package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
)

func NewRouter(logger applogger.Logger, webhookHandler *WebhookHandler) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", Healthz).Methods(http.MethodGet)
	router.PathPrefix("/").HandlerFunc(webhookHandler.Post).Methods(http.MethodPost)

	recovery := negroni.NewRecovery()
	recovery.Logger = negroniLogger{logger: logger}
	recovery.PrintStack = false

	n := negroni.New(recovery, negroni.HandlerFunc(requestLogger(logger)))
	n.UseHandler(router)
	return n
}

func requestLogger(logger applogger.Logger) negroni.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		start := time.Now()
		next(w, r)
		status := http.StatusOK
		if rw, ok := w.(negroni.ResponseWriter); ok {
			status = rw.Status()
		}
		logger.Info(fmt.Sprintf("%v \"%v %v\" %v %v", r.RemoteAddr, r.Method, r.URL.Path, status, time.Since(start)))
	}
}

type negroniLogger struct {
	logger applogger.Logger
}

func (l negroniLogger) Println(v ...interface{}) {
	l.logger.Warning(nil, v...)
}

func (l negroniLogger) Printf(format string, v ...interface{}) {
	l.logger.Warning(nil, fmt.Sprintf(format, v...))
}
