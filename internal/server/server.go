// Package server implements the HTTP JSON API for share calculations.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iwvelando/capital-shares/internal/config"
	"github.com/iwvelando/capital-shares/internal/metrics"
	"github.com/iwvelando/capital-shares/pkg/output"
	"github.com/iwvelando/capital-shares/pkg/report"
	"github.com/iwvelando/capital-shares/pkg/shares"
	"github.com/iwvelando/capital-shares/pkg/validation"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// genericFailure is the only detail clients see for unexpected errors.
const genericFailure = "internal error while computing shares"

type handler struct {
	logger      *zap.Logger
	maxBodySize int64
	defaults    Defaults
	version     string
	validator   *validation.Validator
	observer    shares.Observer
}

// NewHandler constructs the HTTP handler that serves the share API. A nil
// cfg serves with DefaultConfig.
func NewHandler(logger *zap.Logger, cfg *Config, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		maxBodySize: cfg.UploadLimit(),
		defaults:    cfg.Defaults,
		version:     trimmedVersion,
		validator:   validation.New(),
		observer:    metrics.AllocationObserver{},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)
	r.Use(h.recoverer)
	r.Use(h.limitBody)

	r.Get("/healthz", h.handleHealthz)
	r.Get("/api/version", h.handleVersion)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/allocate", h.handleAllocate)
		r.Post("/allocate/upload", h.handleAllocateUpload)
		r.Post("/children/resize", h.handleResizeChildren)
	})

	return r
}

type allocateRequest struct {
	ApartmentCost   *decimal.Decimal `json:"apartmentCost" validate:"required"`
	SubsidyAmount   *decimal.Decimal `json:"subsidyAmount"`
	NumChildren     int              `json:"numChildren" validate:"gte=0,lte=30"`
	HasSecondParent *bool            `json:"hasSecondParent"`
	Parent1Name     string           `json:"parent1Name" validate:"max=200"`
	Parent2Name     string           `json:"parent2Name" validate:"max=200"`
	ChildNames      []string         `json:"childNames" validate:"max=30,dive,max=200"`
	Rounding        string           `json:"rounding" validate:"omitempty,oneof=half-even half-away-from-zero"`
	Language        string           `json:"language" validate:"omitempty,oneof=en ru"`
}

func (req allocateRequest) input() shares.Input {
	in := shares.Input{
		ApartmentCost:   *req.ApartmentCost,
		SubsidyAmount:   decimal.Zero,
		NumChildren:     req.NumChildren,
		HasSecondParent: true,
		Parent1Name:     req.Parent1Name,
		Parent2Name:     req.Parent2Name,
		ChildNames:      shares.ResizeNames(req.ChildNames, req.NumChildren),
	}
	if req.SubsidyAmount != nil {
		in.SubsidyAmount = *req.SubsidyAmount
	}
	if req.HasSecondParent != nil {
		in.HasSecondParent = *req.HasSecondParent
	}
	return in
}

type allocationResponse struct {
	Result   shares.Result  `json:"result"`
	Report   report.Report  `json:"report"`
	Chart    []report.Slice `json:"chart"`
	Text     string         `json:"text"`
	CSV      string         `json:"csv"`
	Warnings []string       `json:"warnings,omitempty"`
	Duration string         `json:"duration"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type resizeRequest struct {
	Names []string `json:"names"`
	Count int      `json:"count" validate:"gte=0,lte=30"`
}

type resizeResponse struct {
	Names []string `json:"names"`
}

type calculation struct {
	input    shares.Input
	rounding shares.Rounding
	language report.Language
	warnings []string
}

func (h *handler) handleAllocate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAllocate"
	start := time.Now()

	var req allocateRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	rounding, err := shares.ParseRounding(h.defaults.rounding(req.Rounding))
	if err != nil {
		h.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}
	lang, err := report.ParseLanguage(h.defaults.language(req.Language))
	if err != nil {
		h.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}

	h.runAllocation(w, r, calculation{input: req.input(), rounding: rounding, language: lang}, start, op)
}

func (h *handler) handleAllocateUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAllocateUpload"
	start := time.Now()

	if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	in, err := cfg.ToInput()
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	rounding, err := cfg.RoundingMode()
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	lang, err := cfg.ReportLanguage()
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.runAllocation(w, r, calculation{
		input:    in,
		rounding: rounding,
		language: lang,
		warnings: cfg.ValidateConfiguration(),
	}, start, op)
}

func (h *handler) handleResizeChildren(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleResizeChildren"

	var req resizeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	h.writeJSON(w, http.StatusOK, resizeResponse{Names: shares.ResizeNames(req.Names, req.Count)})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) runAllocation(w http.ResponseWriter, r *http.Request, calc calculation, start time.Time, op string) {
	res, err := shares.Allocate(calc.input,
		shares.WithRounding(calc.rounding),
		shares.WithLogger(h.logger),
		shares.WithObserver(h.observer),
	)
	if err != nil {
		if errors.Is(err, shares.ErrInvalidInput) {
			h.respondError(w, r, http.StatusUnprocessableEntity, err.Error(), op)
			return
		}
		h.logger.Error("allocation failed",
			zap.String("op", op),
			zap.Error(err),
		)
		h.respondError(w, r, http.StatusInternalServerError, genericFailure, op)
		return
	}

	rep := report.Build(calc.input, res, calc.language)
	elapsed := time.Since(start)

	response := allocationResponse{
		Result:   res,
		Report:   rep,
		Chart:    rep.Chart,
		Text:     output.PrettyString(rep),
		CSV:      output.CsvString(rep),
		Warnings: calc.warnings,
		Duration: elapsed.String(),
	}

	h.logger.Info("shares computed",
		zap.String("op", op),
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Int("participants", calc.input.Participants()),
		zap.Int("warnings", len(calc.warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// decodeJSON decodes and validates the request body into dst. It writes
// the error response itself and reports whether handling may continue.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		h.logRequestError(r, http.StatusUnprocessableEntity, err.Error(), op)
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "request validation failed",
			Fields: validation.FormatValidationError(err),
		})
		return false
	}
	return true
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logRequestError(r, status, msg, op)
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *handler) logRequestError(r *http.Request, status int, msg string, op string) {
	h.logger.Error("share request failed",
		zap.String("op", op),
		zap.String("requestId", middleware.GetReqID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// recoverer turns a panic in any handler into a generic 500 response.
func (h *handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				h.logger.Error("recovered from panic",
					zap.String("op", "server.recoverer"),
					zap.String("requestId", middleware.GetReqID(r.Context())),
					zap.Any("panic", rvr),
					zap.Stack("stack"),
				)
				h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: genericFailure})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
		}
		next.ServeHTTP(w, r)
	})
}
