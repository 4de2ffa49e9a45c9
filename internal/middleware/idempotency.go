package middleware

import (
	"fmt"
	"net/http"
	"time"

	"go-incentive/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyLockTTL = 30 * time.Second

// Idempotency rejects duplicate POSTs carrying the same Idempotency-Key
// while the first request is still in flight. The lock expires on its own
// if the server dies mid-request. Requests without a key pass through.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		userID := c.GetString("user_id")
		lockKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)

		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// Redis being down must not take the endpoint with it.
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING",
				"a request with this idempotency key is already being processed", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
