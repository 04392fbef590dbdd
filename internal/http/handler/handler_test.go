package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marblefiles/internal/access"
	"marblefiles/internal/config"
	"marblefiles/internal/http/middleware"
	"marblefiles/internal/model"
	"marblefiles/internal/service"
	serviceMocks "marblefiles/internal/service/mocks"
)

var testAuthCfg = config.AuthConfig{
	IdentityHeader: "X-Auth-User",
	NameHeader:     "X-Auth-Name",
	TenantHeader:   "X-Auth-Tenant",
	DefaultTenant:  "default",
}

var testIdentity = model.Identity{ID: "user@example.com", Tenant: "default"}

// newTestApp wires a minimal app with the identity middleware, matching how
// RegisterRoutes mounts the /api group.
func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.Identity(testAuthCfg))
	return app
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("X-Auth-User", testIdentity.ID)
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	app := newTestApp()
	app.Post("/api/files", UploadFile(mockSvc))

	multipartBody := func(folderID, visibility string) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "notes.txt")
		part.Write([]byte("Hello world"))
		writer.WriteField("folderId", folderID)
		if visibility != "" {
			writer.WriteField("visibility", visibility)
		}
		writer.Close()
		return body, writer.FormDataContentType()
	}

	t.Run("upload into owned shared folder succeeds", func(t *testing.T) {
		body, ct := multipartBody("shared-owned", "public")

		stored := &model.File{ID: "file-1", FolderID: "shared-owned", Filename: "notes.txt"}
		mockSvc.On("Upload", mock.Anything, testIdentity, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.FolderID == "shared-owned" && in.Visibility == model.VisibilityPublic && in.Filename == "notes.txt"
		})).Return(stored, nil).Once()

		req := authed(httptest.NewRequest(http.MethodPost, "/api/files", body))
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var payload struct {
			File model.File `json:"file"`
		}
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "shared-owned", payload.File.FolderID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("upload into a folder owned by someone else is 403 with owner reason", func(t *testing.T) {
		body, ct := multipartBody("shared-not-owned", "public")

		mockSvc.On("Upload", mock.Anything, testIdentity, mock.Anything).
			Return(nil, &service.AccessDeniedError{Reason: access.ReasonOwner}).Once()

		req := authed(httptest.NewRequest(http.MethodPost, "/api/files", body))
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FORBIDDEN", res.Error.Code)
		assert.Contains(t, res.Error.Message, "owner")
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file part", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPost, "/api/files", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		body, ct := multipartBody("shared-owned", "")
		req := httptest.NewRequest(http.MethodPost, "/api/files", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestDownloadFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	app := newTestApp()
	app.Get("/api/files/:id/download", DownloadFile(mockSvc))

	t.Run("owner downloads private file", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, testIdentity, "file-123").Return(&service.FileDownload{
			Content:     io.NopCloser(strings.NewReader("Hello Marble!")),
			ContentType: "text/plain",
			Filename:    "notes.txt",
			Size:        13,
		}, nil).Once()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/files/file-123/download", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "notes.txt")
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "inline")
		assert.Equal(t, "private, no-store", resp.Header.Get("Cache-Control"))

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "Hello Marble!", string(body))
		mockSvc.AssertExpectations(t)
	})

	t.Run("private file of another user is 403 with access reason", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, testIdentity, "file-secret").
			Return(nil, &service.AccessDeniedError{Reason: access.ReasonAccess}).Once()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/files/file-secret/download", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Contains(t, res.Error.Message, "access")
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing file is 404", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, testIdentity, "missing").
			Return(nil, service.ErrFileNotFound).Once()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/files/missing/download", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("storage inconsistency is 500", func(t *testing.T) {
		mockSvc.On("Download", mock.Anything, testIdentity, "file-broken").
			Return(nil, service.ErrMissingStorageKey).Once()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/files/file-broken/download", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "STORAGE_INTEGRITY", res.Error.Code)
	})
}

func TestGetFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	app := newTestApp()
	app.Get("/api/files/:id", GetFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testIdentity, "file-123").
			Return(&model.File{ID: "file-123", Filename: "notes.txt"}, nil).Once()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/files/file-123", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var f model.File
		json.NewDecoder(resp.Body).Decode(&f)
		assert.Equal(t, "file-123", f.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, testIdentity, "missing").
			Return(nil, service.ErrFileNotFound).Once()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/files/missing", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})
}

func TestListFiles(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	app := newTestApp()
	app.Get("/api/files", ListFiles(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.FileListResult{
			Items: []model.File{{ID: "file-1", Filename: "notes.txt"}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, testIdentity, "folder-1", 10, 0).Return(expectedRes, nil).Once()

		req := authed(httptest.NewRequest(http.MethodGet, "/api/files?folderId=folder-1&limit=10&offset=0", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.FileListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodGet, "/api/files?folderId=folder-1&limit=abc", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_LIMIT", res.Error.Code)
	})
}

func TestDeleteFile(t *testing.T) {
	mockSvc := new(serviceMocks.MockFileService)
	app := newTestApp()
	app.Delete("/api/files/:id", DeleteFile(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, testIdentity, "file-123").Return(nil).Once()

		req := authed(httptest.NewRequest(http.MethodDelete, "/api/files/file-123", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("non-owner is 403", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, testIdentity, "file-123").
			Return(&service.AccessDeniedError{Reason: access.ReasonOwner}).Once()

		req := authed(httptest.NewRequest(http.MethodDelete, "/api/files/file-123", nil))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestCreateFolder(t *testing.T) {
	mockSvc := new(serviceMocks.MockFolderService)
	app := newTestApp()
	app.Post("/api/folders", CreateFolder(mockSvc))

	t.Run("success", func(t *testing.T) {
		owner := testIdentity.ID
		mockSvc.On("Create", mock.Anything, testIdentity, service.CreateFolderInput{
			Name:       "My Shared Docs",
			Visibility: model.VisibilityPublic,
		}).Return(&model.Folder{ID: "folder-1", Name: "My Shared Docs", Owner: &owner}, nil).Once()

		body, _ := json.Marshal(map[string]string{"name": "My Shared Docs", "visibility": "public"})
		req := authed(httptest.NewRequest(http.MethodPost, "/api/folders", bytes.NewReader(body)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := authed(httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRouting(t *testing.T) {
	db, _, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockFiles := new(serviceMocks.MockFileService)
	mockFolders := new(serviceMocks.MockFolderService)
	RegisterRoutes(app, db, testAuthCfg, mockFiles, mockFolders)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("api routes require identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/files/file-123", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNAUTHENTICATED", res.Error.Code)
	})
}
