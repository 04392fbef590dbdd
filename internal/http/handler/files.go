package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"marblefiles/internal/http/middleware"
	"marblefiles/internal/model"
	"marblefiles/internal/service"
)

// UploadFile handles multipart uploads into a folder (field names: file,
// folderId, visibility). The service decides whether the caller may write to
// the destination folder.
func UploadFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		stored, err := fileSvc.Upload(c.UserContext(), identity, service.UploadInput{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
			FolderID:    c.FormValue("folderId"),
			Visibility:  model.Visibility(c.FormValue("visibility")),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"file": stored})
	}
}

// DownloadFile streams the stored bytes back when the caller may read the
// file. The response renders inline and must not be cached by intermediaries.
func DownloadFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		dl, err := fileSvc.Download(c.UserContext(), identity, c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}

		filename := strings.ReplaceAll(dl.Filename, `"`, `\"`)
		c.Set(fiber.HeaderContentType, dl.ContentType)
		c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
		c.Set(fiber.HeaderCacheControl, "private, no-store")

		if dl.Size > 0 {
			return c.SendStream(dl.Content, int(dl.Size))
		}
		return c.SendStream(dl.Content)
	}
}

// GetFile returns a file's metadata under the same read gate as download.
func GetFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		f, err := fileSvc.Get(c.UserContext(), identity, c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(f)
	}
}

// ListFiles returns the viewer-readable files in a folder with limit & offset.
func ListFiles(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		limitStr := c.Query("limit", "10")
		offsetStr := c.Query("offset", "0")
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := fileSvc.List(c.UserContext(), identity, c.Query("folderId"), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DeleteFile soft-deletes a file the caller owns.
func DeleteFile(fileSvc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if err := fileSvc.Delete(c.UserContext(), identity, c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
