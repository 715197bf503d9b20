// Package handler is the thin HTTP layer over the vendor directory. It
// decodes and validates request payloads, delegates to the service, and maps
// domain errors to JSON responses; no business logic lives here.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"vendra/internal/vendors/models"
	"vendra/internal/vendors/service"
	vendorstore "vendra/internal/vendors/store/vendorstore"
	id "vendra/pkg/domain"
	dErrors "vendra/pkg/domain-errors"
	"vendra/pkg/platform/httputil"
)

// Handler wires vendor directory routes to the service.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts all vendor routes on the router. Auth and request-scoped
// middleware are applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Route("/vendors", func(r chi.Router) {
		r.Post("/", h.createVendor)
		r.Get("/", h.listVendors)
		r.Post("/check-duplicate", h.checkDuplicate)

		r.Route("/{vendorID}", func(r chi.Router) {
			r.Get("/", h.getVendor)
			r.Get("/audit", h.auditTrail)
			r.Post("/complete-onboarding", h.completeOnboarding)
			r.Post("/transition", h.transition)

			r.Post("/requirements", h.addRequirement)
			r.Patch("/requirements/{requirementID}", h.updateRequirement)
			r.Post("/requirements/{requirementID}/evidence", h.attachEvidence)
			r.Delete("/requirements/{requirementID}/evidence", h.removeEvidence)

			r.Post("/documents", h.uploadDocument)
			r.Delete("/documents/{documentID}", h.removeDocument)

			r.Post("/members", h.inviteMember)
			r.Delete("/members/{memberID}", h.removeMember)

			r.Post("/keys", h.issueKey)
			r.Post("/keys/{keyID}/rotate", h.rotateKey)
			r.Post("/keys/{keyID}/revoke", h.revokeKey)
		})
	})
}

func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req CreateVendorRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.svc.Create(r.Context(), service.CreateVendorRequest{
		Name:               req.Name,
		Website:            req.Website,
		ContactName:        req.ContactName,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		OnboardingComplete: req.OnboardingComplete,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVendorResponse(v))
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := vendorstore.Filter{
		Status:    models.VendorStatus(q.Get("status")),
		Readiness: models.Readiness(q.Get("readiness")),
		Search:    q.Get("search"),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "unknown status filter"))
		return
	}

	vendors, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Vendors: toVendorResponses(vendors)})
}

func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.svc.Get(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	trail, err := h.svc.Trail(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toAuditResponses(trail))
}

func (h *Handler) checkDuplicate(w http.ResponseWriter, r *http.Request) {
	var req CheckDuplicateRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.svc.CheckDuplicate(r.Context(), req.Name, req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DuplicateResponse{
		IsDuplicate: result.IsDuplicate,
		Matches:     toVendorResponses(result.Matches),
	})
}

func (h *Handler) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	v, err := h.svc.CompleteOnboarding(r.Context(), vendorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req TransitionRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.svc.Transition(r.Context(), vendorID, service.TransitionAction(req.Action), req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (h *Handler) addRequirement(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req AddRequirementRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.svc.AddRequirement(r.Context(), vendorID, req.Name, req.Required)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVendorResponse(v))
}

func (h *Handler) updateRequirement(w http.ResponseWriter, r *http.Request) {
	vendorID, requirementID, err := requirementParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req UpdateRequirementRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.svc.SetRequirementField(r.Context(), vendorID, requirementID, req.Field, req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (h *Handler) attachEvidence(w http.ResponseWriter, r *http.Request) {
	h.evidenceChange(w, r, h.svc.AttachEvidence)
}

func (h *Handler) removeEvidence(w http.ResponseWriter, r *http.Request) {
	h.evidenceChange(w, r, h.svc.RemoveEvidence)
}

func (h *Handler) evidenceChange(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, vendorID id.VendorID, requirementID id.RequirementID, evidence string) (*models.Vendor, error),
) {
	vendorID, requirementID, err := requirementParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req EvidenceRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := change(r.Context(), vendorID, requirementID, req.Evidence)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req UploadDocumentRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.svc.UploadDocument(r.Context(), vendorID, service.UploadDocumentRequest{
		Kind:      models.DocumentKind(req.Kind),
		FileName:  req.FileName,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVendorResponse(v))
}

func (h *Handler) removeDocument(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	documentID, err := id.ParseDocumentID(chi.URLParam(r, "documentID"))
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "invalid document id"))
		return
	}

	v, err := h.svc.RemoveDocument(r.Context(), vendorID, documentID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (h *Handler) inviteMember(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req InviteMemberRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.svc.InviteMember(r.Context(), vendorID, service.InviteMemberRequest{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toVendorResponse(v))
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		h.writeError(w, r, dErrors.New(dErrors.CodeInvalidInput, "invalid member id"))
		return
	}

	v, err := h.svc.RemoveMember(r.Context(), vendorID, memberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

func (h *Handler) issueKey(w http.ResponseWriter, r *http.Request) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req IssueKeyRequest
	if err := httputil.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.writeError(w, r, err)
		return
	}

	v, issued, err := h.svc.IssueAPIKey(r.Context(), vendorID, models.KeyEnvironment(req.Environment))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, IssuedKeyResponse{
		Vendor: toVendorResponse(v),
		KeyID:  issued.KeyID,
		Secret: issued.Secret,
	})
}

func (h *Handler) rotateKey(w http.ResponseWriter, r *http.Request) {
	vendorID, keyID, err := keyParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	v, issued, err := h.svc.RotateAPIKey(r.Context(), vendorID, keyID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, IssuedKeyResponse{
		Vendor: toVendorResponse(v),
		KeyID:  issued.KeyID,
		Secret: issued.Secret,
	})
}

func (h *Handler) revokeKey(w http.ResponseWriter, r *http.Request) {
	vendorID, keyID, err := keyParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	v, err := h.svc.RevokeAPIKey(r.Context(), vendorID, keyID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toVendorResponse(v))
}

// writeError maps the error to a JSON response, logging the ones that
// indicate a fault on our side.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), "vendor request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	httputil.WriteError(w, err)
}

func vendorIDParam(r *http.Request) (id.VendorID, error) {
	vendorID, err := id.ParseVendorID(chi.URLParam(r, "vendorID"))
	if err != nil {
		return id.VendorID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid vendor id")
	}
	return vendorID, nil
}

func requirementParams(r *http.Request) (id.VendorID, id.RequirementID, error) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		return id.VendorID{}, id.RequirementID{}, err
	}
	requirementID, err := id.ParseRequirementID(chi.URLParam(r, "requirementID"))
	if err != nil {
		return id.VendorID{}, id.RequirementID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid requirement id")
	}
	return vendorID, requirementID, nil
}

func keyParams(r *http.Request) (id.VendorID, id.APIKeyID, error) {
	vendorID, err := vendorIDParam(r)
	if err != nil {
		return id.VendorID{}, id.APIKeyID{}, err
	}
	keyID, err := id.ParseAPIKeyID(chi.URLParam(r, "keyID"))
	if err != nil {
		return id.VendorID{}, id.APIKeyID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid key id")
	}
	return vendorID, keyID, nil
}
