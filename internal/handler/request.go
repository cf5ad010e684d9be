package handler

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sefazor/eventpapers-backend/internal/apperror"
	"github.com/sefazor/eventpapers-backend/internal/models"
	"github.com/sefazor/eventpapers-backend/internal/service"
	"github.com/sefazor/eventpapers-backend/pkg/utils"
)

func eventIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("event_id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.BadRequest("Invalid event ID")
	}
	return uint(id), nil
}

func requiredQuery(c *fiber.Ctx, name string) (string, error) {
	value := c.Query(name)
	if value == "" {
		return "", apperror.Validation("%s query parameter is required", name)
	}
	return value, nil
}

func pageQuery(c *fiber.Ctx, v *utils.Validator) (models.Page, error) {
	page := models.DefaultPage()
	if err := c.QueryParser(&page); err != nil {
		return page, apperror.Validation("Invalid pagination parameters")
	}
	if err := v.Struct(page); err != nil {
		return page, apperror.Validation("page must be >= 1 and page_size between 1 and 100")
	}
	return page, nil
}

func readUpload(c *fiber.Ctx, field string) (service.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return service.Upload{}, apperror.BadRequest("The %s file is required", field)
	}

	src, err := header.Open()
	if err != nil {
		return service.Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return service.Upload{}, fmt.Errorf("read upload: %w", err)
	}

	return service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}
