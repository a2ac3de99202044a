package services

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/focusflow/focusflow_api/dto"
	"github.com/focusflow/focusflow_api/model"
	"github.com/focusflow/focusflow_api/shared"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

const (
	RATE_LIMIT_SVC = "rate_limit_svc"

	RateLimitPublic      = "api_public"
	RateLimitPublicStats = "stats_public"
	RateLimitCourseWrite = "course_write"
)

// RateLimitService counts requests per identifier in fixed Redis windows.
// Without Redis every request is allowed.
type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*model.RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.initDefaultConfigs()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*model.RateLimitConfig{
		RateLimitPublic: {
			EndpointType: RateLimitPublic,
			MaxRequests:  120,
			WindowSize:   time.Minute,
			BlockTime:    time.Minute,
			Description:  "Public API rate limit per IP",
			IsActive:     true,
		},
		RateLimitPublicStats: {
			EndpointType: RateLimitPublicStats,
			MaxRequests:  30,
			WindowSize:   time.Minute,
			BlockTime:    5 * time.Minute,
			Description:  "Public stats lookups per IP",
			IsActive:     true,
		},
		RateLimitCourseWrite: {
			EndpointType: RateLimitCourseWrite,
			MaxRequests:  20,
			WindowSize:   10 * time.Minute,
			BlockTime:    10 * time.Minute,
			Description:  "Course, module and settings writes per user",
			IsActive:     true,
		},
	}
}

// SetConfig replaces the limits of one endpoint type.
func (svc *RateLimitService) SetConfig(config model.RateLimitConfig) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	if svc.configs == nil {
		svc.configs = make(map[string]*model.RateLimitConfig)
	}
	svc.configs[config.EndpointType] = &config
}

func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists || !config.IsActive || !svc.redisSvc.Enabled() {
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: -1,
		}, nil
	}

	now := time.Now()
	blockKey := fmt.Sprintf("ratelimit:block:%s:%s", endpointType, identifier)

	blockTTL, err := svc.redisSvc.TTL(ctx, blockKey)
	if err != nil {
		return false, nil, err
	}
	if blockTTL > 0 {
		blockedUntil := now.Add(blockTTL)
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	windowKey := fmt.Sprintf("ratelimit:%s:%s", endpointType, identifier)
	count, windowTTL, err := svc.redisSvc.IncrementWindow(ctx, windowKey, config.WindowSize)
	if err != nil {
		return false, nil, err
	}

	resetTime := now.Add(windowTTL)
	if count > int64(config.MaxRequests) {
		blockedUntil := now.Add(config.BlockTime)
		if err := svc.redisSvc.Set(ctx, blockKey, "1", config.BlockTime); err != nil {
			return false, nil, err
		}
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: config.MaxRequests - int(count),
		ResetTime: &resetTime,
	}, nil
}

// IPRateLimit limits anonymous endpoints by client IP.
func (svc *RateLimitService) IPRateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return svc.check(c, getClientIP(c), endpointType)
	}
}

// UserBasedRateLimit limits by the authenticated user, falling back to the IP.
func (svc *RateLimitService) UserBasedRateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier, _ := c.Locals(shared.UserID).(string)
		if identifier == "" {
			identifier = getClientIP(c)
		}
		return svc.check(c, identifier, endpointType)
	}
}

func (svc *RateLimitService) check(c *fiber.Ctx, identifier, endpointType string) error {
	allowed, info, err := svc.IsAllowed(c.UserContext(), identifier, endpointType)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"endpoint_type": endpointType,
			"identifier":    identifier,
		}).Warn("Rate limit check failed")
		return c.Next()
	}

	addRateLimitHeaders(c, info)

	if !allowed {
		return shared.NewTooManyRequestsError(rateLimitMessage(endpointType))
	}
	return c.Next()
}

func addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}

	if info.BlockedUntil != nil {
		retryAfter := int(time.Until(*info.BlockedUntil).Seconds())
		if retryAfter > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		}
	}
}

func rateLimitMessage(endpointType string) string {
	switch endpointType {
	case RateLimitPublicStats:
		return "Too many stats requests. Please try again later."
	case RateLimitCourseWrite:
		return "Too many course changes. Please try again later."
	default:
		return "Too many requests. Please slow down."
	}
}

func getClientIP(c *fiber.Ctx) string {
	forwarded := c.Get(fiber.HeaderXForwardedFor)
	if forwarded != "" {
		ip := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	ip, _, err := net.SplitHostPort(c.Context().RemoteAddr().String())
	if err != nil {
		return c.Context().RemoteAddr().String()
	}
	return ip
}
