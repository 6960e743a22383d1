package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"creospace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten signals that an error response has already been written
// to the client; the caller should return nil.
var errResponseWritten = errors.New("error response written")

const maxPaginationLimit = 100

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads limit/offset query params with a handler-specific
// default limit. Values are clamped to sane bounds.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	offset := c.QueryInt("offset", 0)

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// parseID parses a route param as a non-negative integer ID. On failure it
// writes a 400 response and returns errResponseWritten so the caller can
// simply `return nil`.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	raw := c.Params(param)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a camelCase route param name into a human-readable
// label for error messages ("userId" -> "user ID").
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.Join(words, " ") + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			words = append(words, strings.ToLower(s[start:i]))
			start = i
		}
	}
	words = append(words, strings.ToLower(s[start:]))
	return words
}

// isAdmin checks the user's admin flag directly against the database.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	return s.isAdminByUserID(c, userID)
}

func (s *Server) isAdminByUserID(c *fiber.Ctx, userID uint) (bool, error) {
	var isAdmin bool
	err := s.db.WithContext(c.UserContext()).
		Model(&models.User{}).
		Select("is_admin").
		Where("id = ?", userID).
		First(&isAdmin).Error
	if err != nil {
		return false, err
	}
	return isAdmin, nil
}

// mapServiceError translates service-layer AppError codes into HTTP statuses.
func mapServiceError(err error) int {
	if appErr, ok := models.AsAppError(err); ok {
		switch appErr.Code {
		case models.ErrCodeNotFound:
			return fiber.StatusNotFound
		case models.ErrCodeValidation:
			return fiber.StatusBadRequest
		case models.ErrCodeUnauthorized:
			return fiber.StatusUnauthorized
		case models.ErrCodeForbidden:
			return fiber.StatusForbidden
		}
	}
	return fiber.StatusInternalServerError
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// isSchemaMissingError reports whether an error looks like a missing
// table/column, which happens when migrations have not been run yet.
func isSchemaMissingError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "undefined column")
}
