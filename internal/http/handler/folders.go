package handler

import (
	"github.com/gofiber/fiber/v2"

	"marblefiles/internal/http/middleware"
	"marblefiles/internal/model"
	"marblefiles/internal/service"
)

type createFolderRequest struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
}

// CreateFolder creates a folder owned by the caller.
func CreateFolder(folderSvc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		var req createFolderRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		folder, err := folderSvc.Create(c.UserContext(), identity, service.CreateFolderInput{
			Name:       req.Name,
			Visibility: model.Visibility(req.Visibility),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"folder": folder})
	}
}

// GetFolder returns a folder by id within the caller's tenant.
func GetFolder(folderSvc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		folder, err := folderSvc.Get(c.UserContext(), identity, c.Params("id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(folder)
	}
}

// ListFolders returns all folders in the caller's tenant.
func ListFolders(folderSvc service.FolderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := middleware.IdentityFromCtx(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		folders, err := folderSvc.List(c.UserContext(), identity)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"folders": folders})
	}
}
