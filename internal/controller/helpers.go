package controller

import (
	"strconv"
	"strings"

	"library-service-be/internal/dto"
	"library-service-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func paramID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.Validation("invalid id %q", ctx.Params("id"))
	}
	return id, nil
}

func pageQuery(ctx *fiber.Ctx) dto.PageQuery {
	return dto.PageQuery{
		Page:     ctx.QueryInt("page", 1),
		PageSize: ctx.QueryInt("page_size", dto.DefaultPageSize),
	}
}

// optionalInt reads an integer query parameter; nil when absent.
func optionalInt(ctx *fiber.Ctx, key string) (*int, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperror.Validation("%s must be an integer", key)
	}
	return &v, nil
}

func optionalBool(ctx *fiber.Ctx, key string) (*bool, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(strings.ToLower(raw))
	if err != nil {
		return nil, apperror.Validation("%s must be true or false", key)
	}
	return &v, nil
}

// flag treats a present parameter as true unless it is explicitly false.
func flag(ctx *fiber.Ctx, key string) bool {
	raw, ok := ctx.Queries()[key]
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(raw)
	return err != nil || v
}

func uuidList(ctx *fiber.Ctx, key string) ([]uuid.UUID, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, nil
	}
	var ids []uuid.UUID
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, apperror.Validation("%s must be a comma separated list of ids", key)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseBody reports a malformed body as a validation error instead of a 500.
func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}
