package proxy

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
)

// Path is where the relay listens.
const Path = "/api-proxy"

// maxRedirects matches the usual fetch client default.
const maxRedirects = 20

var errInvalidJSON = errors.New("upstream response is not valid JSON")

// Relay forwards GET requests to an arbitrary target so browser clients can
// read endpoints that do not send CORS headers.
type Relay struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewRelay constructs a relay. A zero timeout waits indefinitely.
func NewRelay(timeout time.Duration, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{timeout: timeout, logger: logger}
}

// Register mounts the relay with permissive CORS on app.
func (r *Relay) Register(app *fiber.App) {
	app.Use(cors.New())
	app.Get(Path, r.Handle)
}

// Handle serves GET /api-proxy?url=<target>.
func (r *Relay) Handle(c *fiber.Ctx) error {
	target := c.Query("url")
	if target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing url query parameter"})
	}

	body, err := r.forward(target, c.Get(fiber.HeaderAuthorization))
	if err != nil {
		r.logger.Warn("proxy request failed", zap.String("target", target), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// forward returns the upstream body whatever its status, as long as it is JSON.
func (r *Relay) forward(target, authorization string) ([]byte, error) {
	agent := fiber.Get(target)
	if authorization != "" {
		agent.Set(fiber.HeaderAuthorization, authorization)
	}
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.MaxRedirectsCount(maxRedirects)
	if r.timeout > 0 {
		agent.Timeout(r.timeout)
	}

	_, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if !json.Valid(body) {
		return nil, errInvalidJSON
	}
	return body, nil
}
