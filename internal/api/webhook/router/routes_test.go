// Package router - test đăng ký route webhook.
package router

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

// Webhook là URL public đã khai với provider — phải reachable đúng tại
// "/api/v1/whatsapp/webhook" (không trailing slash) kể cả khi StrictRouting bật.
func TestRegisterWebhookRoutes_PathKhongTrailingSlash(t *testing.T) {
	app := fiber.New(fiber.Config{StrictRouting: true, CaseSensitive: true})
	v1 := app.Group("/api/v1")

	ok := func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	registerWebhookRoutes(v1, ok, ok)

	cases := []struct{ method, path string }{
		{"GET", "/api/v1/whatsapp/webhook"},
		{"POST", "/api/v1/whatsapp/webhook"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(tc.method, tc.path, nil))
		if err != nil {
			t.Fatalf("Request %s %s lỗi: %v", tc.method, tc.path, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Errorf("%s %s trả về %d, muốn 200 — route không reachable tại path đã khai với provider", tc.method, tc.path, resp.StatusCode)
		}
	}
}
