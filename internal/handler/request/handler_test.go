package request

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/meditrack/internal/middleware"
	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/service/request"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Submit(ctx context.Context, resident *model.Resident, in request.SubmitInput) (*request.SubmitResult, error) {
	args := m.Called(ctx, resident, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.SubmitResult), args.Error(1)
}

func (m *mockService) History(ctx context.Context, residentID int64) ([]*model.RequestSummary, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RequestSummary), args.Error(1)
}

func (m *mockService) ExportHistory(ctx context.Context, residentID int64) ([]byte, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockService) FormData(ctx context.Context, residentID int64) (*request.FormData, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*request.FormData), args.Error(1)
}

type mockProfiles struct {
	mock.Mock
}

func (m *mockProfiles) Profile(ctx context.Context, residentID int64) (*model.ResidentProfile, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ResidentProfile), args.Error(1)
}

var testResident = &model.Resident{ID: 7, UserID: 70}

func setup(svc Service, profiles ProfileService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.Validation(middleware.DefaultValidationConfig()))

	g := r.Group("/api/v1/resident")
	g.Use(func(c *gin.Context) {
		middleware.SetResident(c, testResident)
		c.Next()
	})

	h := NewHandler(svc, profiles, time.UTC)
	h.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	h.RegisterRoutes(g)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, proof []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if proof != nil {
		part, err := w.CreateFormFile("proof", "rx.png")
		require.NoError(t, err)
		_, err = part.Write(proof)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestSubmit(t *testing.T) {
	path := "uploads/resident_proofs/20261019090000_abc.png"

	t.Run("created with proof", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, testResident, mock.MatchedBy(func(in request.SubmitInput) bool {
			return in.MedicineID == 3 &&
				in.RequestedFor == "family" &&
				in.FamilyMemberID != nil && *in.FamilyMemberID == 11 &&
				in.PatientDateOfBirth != nil && in.PatientDateOfBirth.String() == "1950-02-01" &&
				in.Proof != nil && in.Proof.Filename == "rx.png"
		})).Return(&request.SubmitResult{
			Outcome:   request.OutcomeSubmittedWithProof,
			RequestID: 42,
			ProofPath: &path,
			Notified:  true,
		}, nil)
		r := setup(svc, new(mockProfiles))

		body, ct := multipartBody(t, map[string]string{
			"medicine_id":           "3",
			"requested_for":         "family",
			"family_member_id":      "11",
			"patient_date_of_birth": "1950-02-01",
			"reason":                "maintenance",
		}, []byte("\x89PNG\r\n\x1a\n"))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resident/requests", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Status string               `json:"status"`
			Data   request.SubmitResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, request.OutcomeSubmittedWithProof, resp.Data.Outcome)
		assert.Equal(t, int64(42), resp.Data.RequestID)
		assert.True(t, resp.Data.Notified)
		svc.AssertExpectations(t)
	})

	t.Run("empty family member id is ignored", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, testResident, mock.MatchedBy(func(in request.SubmitInput) bool {
			return in.FamilyMemberID == nil && in.Proof == nil
		})).Return(&request.SubmitResult{
			Outcome:    request.OutcomeSubmittedWithoutProof,
			RequestID:  43,
			ProofIssue: "no file provided",
		}, nil)
		r := setup(svc, new(mockProfiles))

		body, ct := multipartBody(t, map[string]string{
			"medicine_id":      "3",
			"requested_for":    "self",
			"family_member_id": "",
			"reason":           "fever",
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resident/requests", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"submitted_without_proof"`)
		svc.AssertExpectations(t)
	})

	for _, value := range []string{"family-member", "self2", "someone_else"} {
		t.Run("unrecognised requested_for "+value, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Submit", mock.Anything, testResident, mock.MatchedBy(func(in request.SubmitInput) bool {
				return in.RequestedFor == value
			})).Return(&request.SubmitResult{
				Outcome:    request.OutcomeSubmittedWithoutProof,
				RequestID:  44,
				ProofIssue: "no file provided",
			}, nil)
			r := setup(svc, new(mockProfiles))

			body, ct := multipartBody(t, map[string]string{
				"medicine_id":   "3",
				"requested_for": value,
				"reason":        "cough",
			}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/resident/requests", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusCreated, w.Code)
			svc.AssertExpectations(t)
		})
	}

	t.Run("invalid recipient", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, testResident, mock.Anything).
			Return(&request.SubmitResult{Outcome: request.OutcomeRejectedInvalidRecipient}, nil)
		r := setup(svc, new(mockProfiles))

		body, ct := multipartBody(t, map[string]string{
			"medicine_id":      "3",
			"requested_for":    "family",
			"family_member_id": "999",
			"reason":           "fever",
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resident/requests", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"rejected_invalid_recipient"`)
	})

	t.Run("missing medicine id", func(t *testing.T) {
		svc := new(mockService)
		r := setup(svc, new(mockProfiles))

		body, ct := multipartBody(t, map[string]string{"reason": "fever"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resident/requests", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"medicine_id"`)
		svc.AssertNumberOfCalls(t, "Submit", 0)
	})

	t.Run("bad date of birth", func(t *testing.T) {
		svc := new(mockService)
		r := setup(svc, new(mockProfiles))

		body, ct := multipartBody(t, map[string]string{
			"medicine_id":           "3",
			"patient_date_of_birth": "01/02/1950",
			"reason":                "fever",
		}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resident/requests", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"patient_date_of_birth"`)
	})

	t.Run("insert failure is generic", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Submit", mock.Anything, testResident, mock.Anything).
			Return(nil, apperrors.Internal(assert.AnError))
		r := setup(svc, new(mockProfiles))

		body, ct := multipartBody(t, map[string]string{"medicine_id": "3", "reason": "fever"}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/resident/requests", body)
		req.Header.Set("Content-Type", ct)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"status":"error","message":"internal server error"}`, w.Body.String())
	})
}

func TestListHistory(t *testing.T) {
	svc := new(mockService)
	svc.On("History", mock.Anything, int64(7)).Return([]*model.RequestSummary{
		{Request: model.Request{ID: 2, Status: model.RequestStatusApproved}, MedicineName: "Amlodipine"},
		{Request: model.Request{ID: 1, Status: model.RequestStatusSubmitted}, MedicineName: "Paracetamol"},
	}, nil)
	r := setup(svc, new(mockProfiles))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resident/requests", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.RequestSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Amlodipine", resp.Data[0].MedicineName)
}

func TestExportHistory(t *testing.T) {
	svc := new(mockService)
	svc.On("ExportHistory", mock.Anything, int64(7)).Return([]byte("PK\x03\x04"), nil)
	r := setup(svc, new(mockProfiles))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resident/requests/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="medicine-requests-20261019.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK\x03\x04", w.Body.String())
}

func TestGetForm(t *testing.T) {
	svc := new(mockService)
	svc.On("FormData", mock.Anything, int64(7)).Return(&request.FormData{
		Medicines: []*model.Medicine{{ID: 3, Name: "Paracetamol", QuantityAvailable: 40}},
	}, nil)
	profiles := new(mockProfiles)
	profiles.On("Profile", mock.Anything, int64(7)).Return(&model.ResidentProfile{
		Resident:  *testResident,
		FirstName: "Ana",
		LastName:  "Reyes",
		IsSenior:  true,
	}, nil)
	r := setup(svc, profiles)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resident/request-form", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			Profile       model.ResidentProfile `json:"profile"`
			Medicines     []model.Medicine      `json:"medicines"`
			FamilyMembers []model.FamilyMember  `json:"family_members"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Profile.IsSenior)
	assert.Len(t, resp.Data.Medicines, 1)
	assert.NotNil(t, resp.Data.FamilyMembers)
	assert.Empty(t, resp.Data.FamilyMembers)
}
