package request

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/meditrack/internal/handler"
	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/service/request"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Service interface {
	Submit(ctx context.Context, resident *model.Resident, in request.SubmitInput) (*request.SubmitResult, error)
	History(ctx context.Context, residentID int64) ([]*model.RequestSummary, error)
	ExportHistory(ctx context.Context, residentID int64) ([]byte, error)
	FormData(ctx context.Context, residentID int64) (*request.FormData, error)
}

type ProfileService interface {
	Profile(ctx context.Context, residentID int64) (*model.ResidentProfile, error)
}

type Handler struct {
	svc      Service
	profiles ProfileService
	loc      *time.Location
	now      func() time.Time
}

func NewHandler(svc Service, profiles ProfileService, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		svc:      svc,
		profiles: profiles,
		loc:      loc,
		now:      time.Now,
	}
}

// RegisterRoutes expects r to be behind RequireResident.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/request-form", h.GetForm)

	requests := r.Group("/requests")
	{
		requests.POST("", h.Submit)
		requests.GET("", h.ListHistory)
		requests.GET("/export", h.ExportHistory)
	}
}

// submitForm is the multipart body of a medicine request. The proof file is
// read separately.
type submitForm struct {
	MedicineID         int64  `form:"medicine_id" binding:"required,gt=0"`
	RequestedFor       string `form:"requested_for"`
	FamilyMemberID     string `form:"family_member_id" binding:"omitempty,numeric"`
	PatientName        string `form:"patient_name" binding:"max=200"`
	PatientDateOfBirth string `form:"patient_date_of_birth" binding:"omitempty,isodate"`
	Relationship       string `form:"relationship" binding:"max=100"`
	Reason             string `form:"reason" binding:"max=2000"`
}

func (h *Handler) Submit(c *gin.Context) {
	resident, ok := middleware.CurrentResident(c)
	if !ok {
		_ = c.Error(apperrors.Internal(nil))
		return
	}

	var form submitForm
	if err := c.ShouldBind(&form); err != nil {
		_ = c.Error(apperrors.BadRequest("invalid request form", err))
		return
	}

	in := request.SubmitInput{
		MedicineID:   form.MedicineID,
		RequestedFor: form.RequestedFor,
		PatientName:  form.PatientName,
		Relationship: form.Relationship,
		Reason:       form.Reason,
	}
	if form.FamilyMemberID != "" {
		id, err := strconv.ParseInt(form.FamilyMemberID, 10, 64)
		if err != nil || id <= 0 {
			_ = c.Error(apperrors.BadRequest("invalid family_member_id", err))
			return
		}
		in.FamilyMemberID = &id
	}
	if form.PatientDateOfBirth != "" {
		dob, err := model.ParseDate(form.PatientDateOfBirth, h.loc)
		if err != nil {
			_ = c.Error(apperrors.BadRequest("invalid patient_date_of_birth", err))
			return
		}
		in.PatientDateOfBirth = &dob
	}

	// A missing or malformed file part means the request goes in without proof.
	if fh, err := c.FormFile("proof"); err == nil {
		in.Proof = proofFile(fh)
	}

	result, err := h.svc.Submit(c.Request.Context(), resident, in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if !result.Accepted() {
		c.JSON(http.StatusBadRequest, &handler.Response{
			Status:  "error",
			Message: "family member not found",
			Data:    result,
		})
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func proofFile(fh *multipart.FileHeader) *request.ProofFile {
	return &request.ProofFile{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func (h *Handler) ListHistory(c *gin.Context) {
	resident, ok := middleware.CurrentResident(c)
	if !ok {
		_ = c.Error(apperrors.Internal(nil))
		return
	}

	requests, err := h.svc.History(c.Request.Context(), resident.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if requests == nil {
		requests = []*model.RequestSummary{}
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) ExportHistory(c *gin.Context) {
	resident, ok := middleware.CurrentResident(c)
	if !ok {
		_ = c.Error(apperrors.Internal(nil))
		return
	}

	data, err := h.svc.ExportHistory(c.Request.Context(), resident.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	filename := fmt.Sprintf("medicine-requests-%s.xlsx", h.now().In(h.loc).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// GetForm returns what the request form needs: the resident's profile, the
// medicines in stock and the family members a request can be made for.
func (h *Handler) GetForm(c *gin.Context) {
	resident, ok := middleware.CurrentResident(c)
	if !ok {
		_ = c.Error(apperrors.Internal(nil))
		return
	}
	ctx := c.Request.Context()

	data, err := h.svc.FormData(ctx, resident.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	profile, err := h.profiles.Profile(ctx, resident.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	data.Profile = profile
	if data.Medicines == nil {
		data.Medicines = []*model.Medicine{}
	}
	if data.FamilyMembers == nil {
		data.FamilyMembers = []*model.FamilyMember{}
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(data))
}
