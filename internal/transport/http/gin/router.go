package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pavlenko-dev/venue-go/internal/domain"
	redisrepo "github.com/pavlenko-dev/venue-go/internal/repository/redis"
	"github.com/pavlenko-dev/venue-go/internal/service"
	"github.com/pavlenko-dev/venue-go/internal/service/audit"
	"github.com/pavlenko-dev/venue-go/internal/service/quote"
	"github.com/pavlenko-dev/venue-go/internal/service/rooms"
	"github.com/pavlenko-dev/venue-go/internal/service/schedule"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/catalog", handleGetCatalog(svcs))

	bookings := r.Group("/bookings/:id")
	{
		bookings.POST("/quote", handleQuote(svcs))

		bookings.POST("/snapshots", handleCreateSnapshot(svcs, idem))
		bookings.GET("/snapshots", handleListSnapshots(svcs))
		bookings.GET("/snapshots/latest", handleLatestSnapshot(svcs))
		bookings.GET("/snapshots/compare", handleCompareSnapshots(svcs))

		bookings.GET("/conflicts", handleConflicts(svcs))
		bookings.POST("/reservations", handleReserve(svcs))

		bookings.GET("/rooms", handleRoomSummary(svcs))
		bookings.POST("/rooms", handleAssignRoom(svcs))
		bookings.DELETE("/rooms/:roomID", handleReleaseRoom(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get price catalog
// @Success  200  {object}  domain.PriceCatalog
// @Router   /catalog [get]
func handleGetCatalog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog, err := svcs.Quote.Catalog(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, catalog, "public, max-age=60", true)
	}
}

// @Summary  Price a booking's selections
// @Param    id   path  int           true  "Booking ID"
// @Param    req  body  QuoteRequest  true  "payload"
// @Success  200  {object}  domain.PricingResult
// @Failure  400  {object}  ErrorResponse
// @Failure  429  {object}  ErrorResponse "rate limited"
// @Router   /bookings/{id}/quote [post]
func handleQuote(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := parseInt64Param(c, "id"); !ok {
			return
		}
		var req QuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sel, err := req.toSelections()
		if err != nil {
			badRequest(c, "invalid date (YYYY-MM-DD)")
			return
		}

		rlKey := "ip:" + c.ClientIP()

		result, err := svcs.Quote.Calculate(c.Request.Context(), sel, req.toPolicy(), rlKey)
		if err != nil {
			if isRateLimitedErr(err) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
				return
			}
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary  Price and archive a snapshot (idempotent)
// @Param    id   path  int                    true  "Booking ID"
// @Param    req  body  CreateSnapshotRequest  true  "payload"
// @Header   201  {string}  Idempotency-Key  "echo"
// @Success  201  {object}  CreateSnapshotResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "idem in progress"
// @Router   /bookings/{id}/snapshots [post]
func handleCreateSnapshot(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req CreateSnapshotRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sel, err := req.toSelections()
		if err != nil {
			badRequest(c, "invalid date (YYYY-MM-DD)")
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemSnapshot(bookingID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		reason := domain.SnapshotReason(req.Reason)
		if reason == "" {
			reason = domain.ReasonStandard
		}
		rlKey := "ip:" + c.ClientIP()

		result, err := svcs.Quote.Calculate(c.Request.Context(), sel, req.toPolicy(), rlKey)
		if err == nil {
			var snap *domain.PriceSnapshot
			snap, err = svcs.Audit.Create(c.Request.Context(), bookingID, *result, reason)
			if err == nil {
				resp := CreateSnapshotResponse{
					SnapshotID: snap.ID.String(),
					Result:     snap.Result,
				}

				if idemStorageKey != "" && idem != nil {
					b, _ := json.Marshal(resp)
					_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
					c.Header("Idempotency-Key", idemKey)
				}

				c.JSON(http.StatusCreated, resp)
				return
			}
		}

		if idemStorageKey != "" && idem != nil {
			_ = idem.Release(c.Request.Context(), idemStorageKey)
		}
		if isRateLimitedErr(err) {
			c.Header("Retry-After", "60")
			c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
			return
		}
		respondErr(c, err)
	}
}

// @Summary  List snapshots, oldest first
// @Param    id  path  int  true  "Booking ID"
// @Success  200  {array}  domain.PriceSnapshot
// @Router   /bookings/{id}/snapshots [get]
func handleListSnapshots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		snaps, err := svcs.Audit.List(c.Request.Context(), bookingID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, snaps, "public, max-age=15", true)
	}
}

// @Summary  Get the most recent snapshot
// @Param    id  path  int  true  "Booking ID"
// @Success  200  {object}  domain.PriceSnapshot
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id}/snapshots/latest [get]
func handleLatestSnapshot(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		snap, err := svcs.Audit.Latest(c.Request.Context(), bookingID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

// @Summary  Compare two snapshots line by line
// @Param    id    path   int     true  "Booking ID"
// @Param    from  query  string  true  "Snapshot ID (uuid)"
// @Param    to    query  string  true  "Snapshot ID (uuid)"
// @Success  200  {object}  domain.SnapshotDiff
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id}/snapshots/compare [get]
func handleCompareSnapshots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		fromID, err := uuid.Parse(c.Query("from"))
		if err != nil {
			badRequest(c, "invalid from (uuid)")
			return
		}
		toID, err := uuid.Parse(c.Query("to"))
		if err != nil {
			badRequest(c, "invalid to (uuid)")
			return
		}
		diff, err := svcs.Audit.Compare(c.Request.Context(), bookingID, fromID, toID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, diff)
	}
}

// @Summary  Advisory space conflicts in a date window
// @Param    id    path   int     true  "Booking ID"
// @Param    from  query  string  true  "YYYY-MM-DD"
// @Param    to    query  string  true  "YYYY-MM-DD"
// @Success  200  {array}  domain.Conflict
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id}/conflicts [get]
func handleConflicts(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		from, err := time.Parse(dateLayout, c.Query("from"))
		if err != nil {
			badRequest(c, "invalid from (YYYY-MM-DD)")
			return
		}
		to, err := time.Parse(dateLayout, c.Query("to"))
		if err != nil {
			badRequest(c, "invalid to (YYYY-MM-DD)")
			return
		}
		conflicts, err := svcs.Schedule.Conflicts(c.Request.Context(), bookingID, from, to)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, conflicts, "public, max-age=15", true)
	}
}

// @Summary  Reserve a space for a booking
// @Param    id   path  int             true  "Booking ID"
// @Param    req  body  ReserveRequest  true  "payload"
// @Success  201  {object}  ReserveResponse
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "space already reserved"
// @Router   /bookings/{id}/reservations [post]
func handleReserve(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req ReserveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		serviceDate, err := time.Parse(dateLayout, req.ServiceDate)
		if err != nil {
			badRequest(c, "invalid service_date (YYYY-MM-DD)")
			return
		}

		id, err := svcs.Schedule.Reserve(c.Request.Context(), domain.SpaceReservation{
			BookingID:   bookingID,
			SpaceID:     req.SpaceID,
			ServiceDate: serviceDate,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, ReserveResponse{ReservationID: id})
	}
}

// @Summary  Room allocation summary with pool usage
// @Param    id  path  int  true  "Booking ID"
// @Success  200  {object}  domain.AllocationSummary
// @Router   /bookings/{id}/rooms [get]
func handleRoomSummary(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		summary, err := svcs.Rooms.Summary(c.Request.Context(), bookingID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, summary, "public, max-age=15", true)
	}
}

// @Summary  Assign a room to a booking
// @Param    id   path  int                true  "Booking ID"
// @Param    req  body  AssignRoomRequest  true  "payload"
// @Success  201  {object}  map[string]int64
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "room taken / pool exhausted"
// @Router   /bookings/{id}/rooms [post]
func handleAssignRoom(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AssignRoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Rooms.Assign(c.Request.Context(), bookingID, req.RoomID, rooms.Extras{
			ExtraBed:     req.ExtraBed,
			Ensuite:      req.Ensuite,
			PrivateStudy: req.PrivateStudy,
			GuestNames:   req.GuestNames,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"room_id": req.RoomID})
	}
}

// @Summary  Release a room allocation
// @Param    id      path  int  true  "Booking ID"
// @Param    roomID  path  int  true  "Room ID"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id}/rooms/{roomID} [delete]
func handleReleaseRoom(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		roomID, ok := parseInt64Param(c, "roomID")
		if !ok {
			return
		}
		if err := svcs.Rooms.Release(c.Request.Context(), bookingID, roomID); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func isRateLimitedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "rate limited")
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// quote service
	case errors.Is(err, quote.ErrInvalidSelections):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid selections"})
		return
	case errors.Is(err, quote.ErrInvalidPolicy):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid discount policy"})
		return
	case errors.Is(err, quote.ErrDiscountExceedsSubtotal):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "discount exceeds subtotal"})
		return
	case errors.Is(err, quote.ErrCatalogUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "price catalog unavailable"})
		return
	// audit service
	case errors.Is(err, audit.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "snapshot not found"})
		return
	case errors.Is(err, audit.ErrSnapshotWrongBooking):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "snapshot not found"})
		return
	// schedule service
	case errors.Is(err, schedule.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	case errors.Is(err, schedule.ErrInvalidWindow):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date window"})
		return
	case errors.Is(err, schedule.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid time range"})
		return
	case errors.Is(err, schedule.ErrSpaceConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "space already reserved"})
		return
	// rooms service
	case errors.Is(err, rooms.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	case errors.Is(err, rooms.ErrAllocationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "allocation not found"})
		return
	case errors.Is(err, rooms.ErrRoomTaken):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "room already allocated"})
		return
	case errors.Is(err, rooms.ErrNotEnsuiteCapable):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room is not ensuite capable"})
		return
	case errors.Is(err, rooms.ErrPoolNotConfigured):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "room pool not configured"})
		return
	case errors.Is(err, rooms.ErrPoolExhausted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "room pool exhausted"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
