package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"net/url"
	"paywindow/config"
	"paywindow/entity"
	"paywindow/services"
	"paywindow/window"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

const (
	createWindow   = "/window"
	windowForm     = "/window/form"
	paymentNotify  = "/callback"
	maxRequestBody = 64 << 10
)

// formTemplate posts the signed fields to the payment window as soon as the page loads.
var formTemplate = template.Must(template.New("window").Parse(`<!DOCTYPE html>
<html>
<body onload="document.forms[0].submit()">
<form method="post" action="{{.ActionUrl}}">
{{range $key, $value := .Fields}}<input type="hidden" name="{{$key}}" value="{{$value}}">
{{end}}<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	logger     services.LogHandler
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf: conf,
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.POST(createWindow, s.createWindow)
	router.GET(windowForm, s.windowForm)
	router.GET(paymentNotify, s.paymentNotify)
	router.POST(paymentNotify, s.paymentNotify)
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) SetPaymentsService(payments services.Payments) {
	s.payments = payments
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

func (s *Server) createWindow(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	// Add request ID for tracing
	ctx := WithRequestID(r.Context(), r.Header.Get(requestIDHeader))
	reqID := GetRequestID(ctx)
	w.Header().Set(requestIDHeader, reqID)

	var order entity.WindowOrder
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(&order); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] create window: decode request body: %v", reqID, err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	response, err := s.payments.CreateWindow(ctx, &order)
	if err != nil {
		s.writeError(w, reqID, "create window", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (s *Server) windowForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context(), r.Header.Get(requestIDHeader))
	reqID := GetRequestID(ctx)
	w.Header().Set(requestIDHeader, reqID)

	order, err := orderFromQuery(r.URL.Query())
	if err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] window form: %v", reqID, err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	response, err := s.payments.CreateWindow(ctx, order)
	if err != nil {
		s.writeError(w, reqID, "window form", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err = formTemplate.Execute(w, response); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] window form: render", reqID), err)
	}
}

func (s *Server) paymentNotify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context(), r.Header.Get(requestIDHeader))
	reqID := GetRequestID(ctx)
	w.Header().Set(requestIDHeader, reqID)

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseForm(); err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] payment notify: parse parameters: %v", reqID, err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	_, err := s.payments.Callback(ctx, r.Form, r.RemoteAddr)
	if err != nil {
		s.writeError(w, reqID, "payment notify", err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) writeError(w http.ResponseWriter, reqID, operation string, err error) {
	switch {
	case errors.Is(err, window.ErrNotReady):
		s.logger.Warn(fmt.Sprintf("[%s] %s: %v", reqID, operation, err))
		w.WriteHeader(http.StatusUnprocessableEntity)
	case errors.Is(err, ErrInvalidSignature):
		w.WriteHeader(http.StatusForbidden)
	default:
		s.logger.Error(fmt.Sprintf("[%s] %s", reqID, operation), err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func orderFromQuery(query url.Values) (*entity.WindowOrder, error) {
	order := &entity.WindowOrder{
		Amount:      query.Get("amount"),
		Currency:    query.Get("currency"),
		Reference:   query.Get("reference"),
		AcceptUrl:   query.Get("accept_url"),
		DeclineUrl:  query.Get("decline_url"),
		CallbackUrl: query.Get("callback_url"),
		Type:        query.Get("type"),
		Method:      query.Get("method"),
		Language:    query.Get("language"),
		Design:      query.Get("design"),
	}
	var err error
	if order.Secure, err = optionalBool(query, "secure"); err != nil {
		return nil, err
	}
	if order.TestMode, err = optionalBool(query, "test_mode"); err != nil {
		return nil, err
	}
	return order, nil
}

func optionalBool(query url.Values, key string) (*bool, error) {
	if !query.Has(key) {
		return nil, nil
	}
	value, err := strconv.ParseBool(query.Get(key))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", key, err)
	}
	return &value, nil
}
