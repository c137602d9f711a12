package models

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithErrorRedactsInternalCause(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		cause := errors.New(`dial tcp 10.0.3.7:5432: connect: connection refused`)
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(cause))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "INTERNAL_ERROR", out.Code)
	assert.Equal(t, "Internal server error", out.Error)
	assert.Empty(t, out.Details)
	assert.NotContains(t, string(body), "10.0.3.7")
}

func TestRespondWithErrorKeepsDomainMessages(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusNotFound, NewNotFoundError("Project", 42))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "NOT_FOUND", out.Code)
	assert.Equal(t, "Project with ID 42 not found", out.Error)
}
