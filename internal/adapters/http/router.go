package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dsokolov/procurement-assistant/internal/core/domain"
	"github.com/dsokolov/procurement-assistant/internal/core/ports"
	"github.com/dsokolov/procurement-assistant/internal/core/usecase"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/extractor/proposaltext"
	"github.com/dsokolov/procurement-assistant/internal/infrastructure/report/xlsx"
	"github.com/dsokolov/procurement-assistant/internal/observability/metrics"
)

const (
	serviceName = "api"

	maxInFlightRequests = 64
	backpressureWait    = 5 * time.Second
	maxUploadBytes      = 16 << 20
)

// Router wires the procurement API surface over the use cases.
type Router struct {
	rfps      *usecase.RFPUseCase
	vendors   *usecase.VendorUseCase
	proposals *usecase.ProposalUseCase

	rfpRepo      ports.RFPRepository
	vendorRepo   ports.VendorRepository
	proposalRepo ports.ProposalRepository

	comparer   ports.ProposalComparer
	structurer ports.RFPStructurer
	parser     ports.ProposalParser
	dispatcher ports.RFPDispatcher

	metrics *metrics.HTTPServerMetrics

	rateLimitRPS   int
	rateLimitBurst int
}

type RouterDeps struct {
	RFPs      *usecase.RFPUseCase
	Vendors   *usecase.VendorUseCase
	Proposals *usecase.ProposalUseCase

	RFPRepo      ports.RFPRepository
	VendorRepo   ports.VendorRepository
	ProposalRepo ports.ProposalRepository

	Comparer   ports.ProposalComparer
	Structurer ports.RFPStructurer
	Parser     ports.ProposalParser
	Dispatcher ports.RFPDispatcher

	Metrics *metrics.HTTPServerMetrics

	RateLimitRPS   int
	RateLimitBurst int
}

func NewRouter(deps RouterDeps) *Router {
	return &Router{
		rfps:           deps.RFPs,
		vendors:        deps.Vendors,
		proposals:      deps.Proposals,
		rfpRepo:        deps.RFPRepo,
		vendorRepo:     deps.VendorRepo,
		proposalRepo:   deps.ProposalRepo,
		comparer:       deps.Comparer,
		structurer:     deps.Structurer,
		parser:         deps.Parser,
		dispatcher:     deps.Dispatcher,
		metrics:        deps.Metrics,
		rateLimitRPS:   deps.RateLimitRPS,
		rateLimitBurst: deps.RateLimitBurst,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/rfps", rt.createRFP)
	mux.HandleFunc("GET /v1/rfps", rt.listRFPs)
	mux.HandleFunc("GET /v1/rfps/{rfp_id}", rt.getRFP)
	mux.HandleFunc("PATCH /v1/rfps/{rfp_id}", rt.updateRFP)
	mux.HandleFunc("POST /v1/rfps/structure", rt.structureRFPText)
	mux.HandleFunc("POST /v1/rfps/{rfp_id}/dispatch", rt.dispatchRFP)
	mux.HandleFunc("GET /v1/rfps/{rfp_id}/comparison", rt.compareProposals)
	mux.HandleFunc("GET /v1/rfps/{rfp_id}/comparison/export", rt.exportComparison)

	mux.HandleFunc("POST /v1/proposals/parse", rt.parseProposal)
	mux.HandleFunc("POST /v1/proposals", rt.createProposal)

	mux.HandleFunc("GET /v1/vendors", rt.listVendors)
	mux.HandleFunc("POST /v1/vendors", rt.createVendor)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, maxInFlightRequests, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createRFP(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateRFPInput
	if !decodeBody(w, r, &input) {
		return
	}

	rfp, err := rt.rfps.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rfp)
}

func (rt *Router) listRFPs(w http.ResponseWriter, r *http.Request) {
	summaries, err := rt.rfpRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rfps": summaries})
}

func (rt *Router) getRFP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "rfp_id")
	if !ok {
		return
	}

	rfp, err := rt.rfpRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	proposals, err := rt.proposalRepo.ListByRFP(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rfp":       rfp,
		"proposals": proposals,
	})
}

func (rt *Router) updateRFP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "rfp_id")
	if !ok {
		return
	}

	var update domain.RFPUpdate
	if !decodeBody(w, r, &update) {
		return
	}

	rfp, err := rt.rfps.Update(r.Context(), id, update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

func (rt *Router) structureRFPText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	spec, err := rt.structurer.StructureText(r.Context(), req.Text)
	rt.recordLLM("structure", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (rt *Router) dispatchRFP(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "rfp_id")
	if !ok {
		return
	}

	var req struct {
		VendorIDs []int64 `json:"vendor_ids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := rt.dispatcher.Dispatch(r.Context(), id, req.VendorIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordDispatchEmails(serviceName, result.Sent, len(result.FailedVendorIDs))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) compareProposals(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "rfp_id")
	if !ok {
		return
	}

	report, err := rt.comparer.Compare(r.Context(), id)
	rt.recordComparison(report, err)
	if err != nil {
		// The precondition failure still carries the unscored list so
		// the client can render what is there.
		if domain.IsKind(err, domain.ErrNotEnoughProposals) && report != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":     err.Error(),
				"proposals": report.Proposals,
			})
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) exportComparison(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "rfp_id")
	if !ok {
		return
	}

	rfp, err := rt.rfpRepo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := rt.comparer.Compare(r.Context(), id)
	rt.recordComparison(report, err)
	if err != nil {
		writeError(w, err)
		return
	}

	payload, err := xlsx.Build(rfp, report)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="rfp-%d-comparison.xlsx"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (rt *Router) parseProposal(w http.ResponseWriter, r *http.Request) {
	rfpID, text, ok := rt.readProposalSource(w, r)
	if !ok {
		return
	}

	fields, err := rt.parser.ParseVendorText(r.Context(), rfpID, text)
	rt.recordLLM("parse", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// readProposalSource accepts either a JSON body with inline text or a
// multipart upload whose file is run through the text extractor.
func (rt *Router) readProposalSource(w http.ResponseWriter, r *http.Request) (int64, string, bool) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req struct {
			RFPID int64  `json:"rfp_id"`
			Text  string `json:"text"`
		}
		if !decodeBody(w, r, &req) {
			return 0, "", false
		}
		return req.RFPID, req.Text, true
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return 0, "", false
	}
	rfpID, err := strconv.ParseInt(r.FormValue("rfp_id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'rfp_id' must be an integer"})
		return 0, "", false
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return 0, "", false
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read uploaded file"})
		return 0, "", false
	}

	text, err := proposaltext.Extract(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), raw)
	if err != nil {
		writeError(w, err)
		return 0, "", false
	}
	return rfpID, text, true
}

func (rt *Router) createProposal(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateProposalInput
	if !decodeBody(w, r, &input) {
		return
	}

	proposal, err := rt.proposals.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, proposal)
}

func (rt *Router) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := rt.vendorRepo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vendors": vendors})
}

func (rt *Router) createVendor(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateVendorInput
	if !decodeBody(w, r, &input) {
		return
	}

	vendor, err := rt.vendors.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vendor)
}

func (rt *Router) recordComparison(report *domain.ComparisonReport, err error) {
	if rt.metrics == nil {
		return
	}

	outcome := "ok"
	var scores []int
	switch {
	case err != nil:
		outcome = errorOutcome(err)
	case report != nil && report.Recommendation.Fallback():
		outcome = "fallback"
	}
	if err == nil && report != nil {
		for _, p := range report.Proposals {
			scores = append(scores, p.CalculatedScore)
		}
	}
	rt.metrics.RecordComparison(serviceName, outcome, scores)
}

func errorOutcome(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrNotEnoughProposals):
		return "not_enough_proposals"
	case domain.IsKind(err, domain.ErrRFPNotFound):
		return "rfp_not_found"
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary"
	case domain.IsKind(err, domain.ErrGenerationFailed):
		return "generation_failed"
	default:
		return "error"
	}
}

func (rt *Router) recordLLM(operation string, err error) {
	if rt.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	rt.metrics.RecordLLMRequest(serviceName, operation, status)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("path parameter %q must be a positive integer", name),
		})
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
